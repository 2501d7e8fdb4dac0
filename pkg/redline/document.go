package redline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Document is an open DOCX package with its main document body parsed
// into a mutable tree. Edits made through its paragraphs live in the
// tree until Save or WriteTo rewrites the package.
//
// A Document is not safe for concurrent use; serialize access to it and
// to its paragraphs.
type Document struct {
	pkg  *PackageReader
	root *xmlquery.Node
	ids  IDSource
}

// OpenDocument opens a DOCX file from disk.
func OpenDocument(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return OpenDocumentBytes(content)
}

// OpenDocumentBytes opens a DOCX package held in memory.
func OpenDocumentBytes(content []byte) (*Document, error) {
	pkg, err := NewPackageReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	docXML, err := pkg.DocumentXML()
	if err != nil {
		return nil, err
	}

	root, err := xmlquery.Parse(bytes.NewReader(docXML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", documentPartName, err)
	}
	if xmlquery.FindOne(root, "//w:body") == nil {
		return nil, NewMalformedMarkupError("w:document", "missing w:body")
	}

	return &Document{pkg: pkg, root: root}, nil
}

// Package exposes the underlying package reader, for access to parts
// other than the main document body.
func (d *Document) Package() *PackageReader {
	return d.pkg
}

// Paragraphs returns the document's paragraphs in document order,
// including paragraphs nested in tables and text boxes.
func (d *Document) Paragraphs() []*Paragraph {
	nodes := xmlquery.Find(d.root, "//w:p")
	paras := make([]*Paragraph, len(nodes))
	for i, n := range nodes {
		paras[i] = NewParagraph(n)
	}
	return paras
}

// ParagraphAt returns the i-th paragraph in document order.
func (d *Document) ParagraphAt(i int) (*Paragraph, error) {
	paras := d.Paragraphs()
	if i < 0 || i >= len(paras) {
		return nil, fmt.Errorf("paragraph index %d out of range [0, %d)", i, len(paras))
	}
	return paras[i], nil
}

// AcceptedText returns the accepted text of every paragraph, joined with
// newlines.
func (d *Document) AcceptedText() string {
	paras := d.Paragraphs()
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.AcceptedText()
	}
	return strings.Join(texts, "\n")
}

// Revisions lists every tracked change in the document, in document
// order.
func (d *Document) Revisions() []Revision {
	var revs []Revision
	for _, p := range d.Paragraphs() {
		revs = append(revs, p.Revisions()...)
	}
	return revs
}

// MaxRevisionID returns the highest revision id present anywhere in the
// document body, or 0.
func (d *Document) MaxRevisionID() int {
	return MaxRevisionID(d.root)
}

// IDSource returns an allocator scoped to this document that persists
// across calls. Pass it to edits via WithIDSource when batching many
// edits, to skip the per-edit rescan. Edits made without it remain safe:
// the default allocator rescans the document before every assignment.
func (d *Document) IDSource() IDSource {
	if d.ids == nil {
		d.ids = NewScanIDSource(d.root)
	}
	return d.ids
}

// DocumentXML serializes the (possibly edited) document body part.
func (d *Document) DocumentXML() []byte {
	return serializeDocument(d.root)
}

// WriteTo writes the full package, with the current state of the
// document body, to w.
func (d *Document) WriteTo(w io.Writer) error {
	return d.pkg.RewriteDocument(w, d.DocumentXML())
}

// Bytes returns the full package as bytes.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the full package to a file.
func (d *Document) Save(path string) error {
	content, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	GetLogger().Info("saved document to %s", path)
	return nil
}
