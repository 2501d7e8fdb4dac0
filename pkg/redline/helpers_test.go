// helpers_test.go contains fixture builders shared by the package tests.

package redline

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/antchfx/xmlquery"
)

// paragraphFromXML parses a w:p fragment into a Paragraph. The fragment
// is wrapped in a document element so the w: prefix resolves.
func paragraphFromXML(t *testing.T, fragment string) *Paragraph {
	t.Helper()
	docXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + WordNamespace + `"><w:body>` +
		fragment +
		`</w:body></w:document>`
	root, err := xmlquery.Parse(strings.NewReader(docXML))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	node := xmlquery.FindOne(root, "//w:p")
	if node == nil {
		t.Fatal("fixture contains no w:p")
	}
	return NewParagraph(node)
}

// markupString serializes a paragraph's live markup, for byte-for-byte
// unchanged assertions.
func markupString(p *Paragraph) string {
	var buf bytes.Buffer
	writeNode(&buf, p.Node())
	return buf.String()
}

// spanSummary is the comparable projection of a Span; the node pointers
// themselves are cyclic and not comparable.
type spanSummary struct {
	Kind    SpanKind
	Text    string
	Author  string
	ID      int
	Wrapped bool
}

func summarizeSpans(spans []Span) []spanSummary {
	out := make([]spanSummary, len(spans))
	for i, s := range spans {
		out[i] = spanSummary{
			Kind:    s.Kind,
			Text:    s.Text,
			Author:  s.Author,
			ID:      s.ID,
			Wrapped: s.Wrapper != nil,
		}
	}
	return out
}

// buildDOCXBytes creates a minimal DOCX package in memory whose
// word/document.xml is the given XML.
func buildDOCXBytes(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	rels, _ := w.Create("_rels/.rels")
	io.WriteString(rels, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`)

	doc, _ := w.Create("word/document.xml")
	io.WriteString(doc, documentXML)

	ct, _ := w.Create("[Content_Types].xml")
	io.WriteString(ct, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`)

	if err := w.Close(); err != nil {
		t.Fatalf("failed to build DOCX fixture: %v", err)
	}
	return buf.Bytes()
}

// simpleDocumentXML wraps paragraph fragments into a document part.
func simpleDocumentXML(fragments ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + WordNamespace + `"><w:body>` +
		strings.Join(fragments, "") +
		`</w:body></w:document>`
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad test time %q: %v", s, err)
	}
	return ts
}
