package redline

import (
	"github.com/antchfx/xmlquery"
)

// IDSource hands out revision ids for new wrappers. Ids must be unique
// within a document; the editor additionally verifies each id against the
// target paragraph before using it and fails with
// IdentifierCollisionError if an injected source misbehaves.
type IDSource interface {
	Next() (int, error)
}

// scanIDSource allocates ids by scanning a scope root for the highest
// existing w:ins / w:del id and counting up from there. The scan runs
// once, on first use; a fresh source is created per edit call, so ids
// assigned by earlier edits are always visible to later ones.
type scanIDSource struct {
	root    *xmlquery.Node
	next    int
	scanned bool
}

// NewScanIDSource returns an IDSource scoped to the subtree under root.
// Pass the document node for document-wide uniqueness; a bare paragraph
// node limits the guarantee to that paragraph.
func NewScanIDSource(root *xmlquery.Node) IDSource {
	return &scanIDSource{root: root}
}

func (s *scanIDSource) Next() (int, error) {
	if !s.scanned {
		s.next = MaxRevisionID(s.root) + 1
		s.scanned = true
	}
	id := s.next
	s.next++
	return id, nil
}

// counterIDSource allocates sequential ids from a caller-chosen start.
type counterIDSource struct {
	next int
}

// NewCounterIDSource returns an IDSource that yields start, start+1, ...
// Useful when the caller already tracks document-wide ids itself.
func NewCounterIDSource(start int) IDSource {
	return &counterIDSource{next: start}
}

func (c *counterIDSource) Next() (int, error) {
	id := c.next
	c.next++
	return id, nil
}

// MaxRevisionID walks the subtree under root and returns the highest
// w:id found on any w:ins or w:del element, or 0 when there are none.
func MaxRevisionID(root *xmlquery.Node) int {
	max := 0
	var walk func(n *xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		if n.Type == xmlquery.ElementNode && (n.Data == "ins" || n.Data == "del") {
			if id := parseRevisionID(n); id > max {
				max = id
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	if root != nil {
		walk(root)
	}
	return max
}

// hasRevisionID reports whether any wrapper in the paragraph already
// carries the given id.
func (p *Paragraph) hasRevisionID(id int) bool {
	for child := p.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		if (child.Data == "ins" || child.Data == "del") && parseRevisionID(child) == id {
			return true
		}
	}
	return false
}

// allocateID draws the next id from the source and verifies it against
// the paragraph's existing wrappers.
func (p *Paragraph) allocateID(ids IDSource) (int, error) {
	id, err := ids.Next()
	if err != nil {
		return 0, err
	}
	if p.hasRevisionID(id) {
		return 0, NewIdentifierCollisionError(id)
	}
	return id, nil
}
