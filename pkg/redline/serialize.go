package redline

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"
)

// serializeDocument writes a parsed document tree back to XML bytes.
//
// The generic pretty-printers are unusable for WordprocessingML: added
// whitespace inside w:p changes the document text, and prefixes must
// round-trip exactly. This writer is compact: it emits nodes byte-for-
// byte as parsed, escaping only where XML requires it.
func serializeDocument(root *xmlquery.Node) []byte {
	var buf bytes.Buffer
	writeNode(&buf, root)
	return buf.Bytes()
}

func writeNode(w *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeNode(w, child)
		}

	case xmlquery.DeclarationNode:
		w.WriteString("<?xml")
		for _, attr := range n.Attr {
			w.WriteString(" ")
			w.WriteString(attr.Name.Local)
			w.WriteString(`="`)
			w.WriteString(escapeXMLAttr(attr.Value))
			w.WriteString(`"`)
		}
		w.WriteString("?>")

	case xmlquery.ElementNode:
		w.WriteString("<")
		writeElementName(w, n)
		for _, attr := range n.Attr {
			w.WriteString(" ")
			if attr.Name.Space != "" {
				w.WriteString(attr.Name.Space)
				w.WriteString(":")
			}
			w.WriteString(attr.Name.Local)
			w.WriteString(`="`)
			w.WriteString(escapeXMLAttr(attr.Value))
			w.WriteString(`"`)
		}
		if n.FirstChild == nil {
			w.WriteString("/>")
			return
		}
		w.WriteString(">")
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeNode(w, child)
		}
		w.WriteString("</")
		writeElementName(w, n)
		w.WriteString(">")

	case xmlquery.TextNode:
		w.WriteString(escapeXMLText(n.Data))

	case xmlquery.CharDataNode:
		w.WriteString("<![CDATA[")
		w.WriteString(n.Data)
		w.WriteString("]]>")

	case xmlquery.CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")
	}
}

func writeElementName(w *bytes.Buffer, n *xmlquery.Node) {
	if n.Prefix != "" {
		w.WriteString(n.Prefix)
		w.WriteString(":")
	}
	w.WriteString(n.Data)
}

func escapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeXMLAttr(s string) string {
	s = escapeXMLText(s)
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
