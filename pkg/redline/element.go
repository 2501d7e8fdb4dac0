package redline

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
)

// WordNamespace is the WordprocessingML main namespace.
const WordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// xmlNamespace is the built-in xml: namespace (used for xml:space).
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// newWordElement creates an empty w:-prefixed element.
func newWordElement(local string) *xmlquery.Node {
	return &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         local,
		Prefix:       "w",
		NamespaceURI: WordNamespace,
	}
}

// newTextRun creates a w:r holding text in a single w:t with
// xml:space="preserve". props, when non-nil, is deep-copied into the run
// so formatting carries over to runs created by splits.
func newTextRun(text string, props *xmlquery.Node) *xmlquery.Node {
	return newRunWithTextElement("t", text, props)
}

// newDelTextRun creates a w:r holding deleted text in a w:delText element.
// Deleted content must use w:delText; Word rejects w:t inside w:del.
func newDelTextRun(text string, props *xmlquery.Node) *xmlquery.Node {
	return newRunWithTextElement("delText", text, props)
}

func newRunWithTextElement(textLocal, text string, props *xmlquery.Node) *xmlquery.Node {
	run := newWordElement("r")
	if props != nil {
		xmlquery.AddChild(run, cloneNode(props))
	}
	t := newWordElement(textLocal)
	setAttr(t, "xml", "space", "preserve")
	xmlquery.AddChild(t, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	xmlquery.AddChild(run, t)
	return run
}

// newWrapper creates a w:ins or w:del element with revision metadata.
func newWrapper(local string, id int, author string, date time.Time) *xmlquery.Node {
	w := newWordElement(local)
	setAttr(w, "w", "id", strconv.Itoa(id))
	setAttr(w, "w", "author", author)
	setAttr(w, "w", "date", date.UTC().Format(time.RFC3339))
	return w
}

// cloneWrapperShell copies a wrapper element with its attributes but none
// of its children. Used when a wrapper has to be split in two.
func cloneWrapperShell(w *xmlquery.Node) *xmlquery.Node {
	c := &xmlquery.Node{
		Type:         w.Type,
		Data:         w.Data,
		Prefix:       w.Prefix,
		NamespaceURI: w.NamespaceURI,
	}
	c.Attr = append([]xmlquery.Attr(nil), w.Attr...)
	return c
}

// cloneNode deep-copies a node and its subtree.
func cloneNode(n *xmlquery.Node) *xmlquery.Node {
	if n == nil {
		return nil
	}
	c := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
	}
	c.Attr = append([]xmlquery.Attr(nil), n.Attr...)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		xmlquery.AddChild(c, cloneNode(child))
	}
	return c
}

// attrValue returns the value of the attribute with the given local name,
// regardless of prefix. Missing attributes yield "". Matching on the local
// name tolerates fragments whose w: prefix is bound differently.
func attrValue(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// setAttr sets or replaces an attribute, keyed by local name.
func setAttr(n *xmlquery.Node, prefix, local, value string) {
	for i, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space == prefix {
			n.Attr[i].Value = value
			return
		}
	}
	ns := ""
	switch prefix {
	case "w":
		ns = WordNamespace
	case "xml":
		ns = xmlNamespace
	}
	n.Attr = append(n.Attr, xmlquery.Attr{
		Name:         xml.Name{Space: prefix, Local: local},
		Value:        value,
		NamespaceURI: ns,
	})
}

// insertBefore splices n into the tree as the previous sibling of ref.
func insertBefore(ref, n *xmlquery.Node) {
	n.Parent = ref.Parent
	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else if ref.Parent != nil {
		ref.Parent.FirstChild = n
	}
	ref.PrevSibling = n
}

// insertAfter splices n into the tree as the next sibling of ref.
func insertAfter(ref, n *xmlquery.Node) {
	n.Parent = ref.Parent
	n.PrevSibling = ref
	n.NextSibling = ref.NextSibling
	if ref.NextSibling != nil {
		ref.NextSibling.PrevSibling = n
	} else if ref.Parent != nil {
		ref.Parent.LastChild = n
	}
	ref.NextSibling = n
}

// runText concatenates the text of a run's w:t and w:delText children in
// document order. A run split across several text fragments reads as one
// contiguous string.
func runText(run *xmlquery.Node) string {
	var b strings.Builder
	for child := run.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		if child.Data == "t" || child.Data == "delText" {
			b.WriteString(child.InnerText())
		}
	}
	return b.String()
}

// runProperties returns the run's w:rPr child, or nil.
func runProperties(run *xmlquery.Node) *xmlquery.Node {
	for child := run.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == "rPr" {
			return child
		}
	}
	return nil
}

// convertRunToDeleted renames a run's w:t children to w:delText so the run
// is valid inside a w:del wrapper. Formatting and non-text children are
// left alone.
func convertRunToDeleted(run *xmlquery.Node) {
	for child := run.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == "t" {
			child.Data = "delText"
		}
	}
}

// firstRunOf returns the first w:r child of a wrapper, or nil.
func firstRunOf(wrapper *xmlquery.Node) *xmlquery.Node {
	for child := wrapper.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == "r" {
			return child
		}
	}
	return nil
}

// hasElementChildren reports whether n still contains any element child.
func hasElementChildren(n *xmlquery.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

// rootOf walks to the topmost ancestor of n. For a paragraph inside a
// parsed document this is the document node, which makes id scans
// document-scoped rather than paragraph-scoped.
func rootOf(n *xmlquery.Node) *xmlquery.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}
