package redline

import (
	"strconv"
	"time"

	"github.com/antchfx/xmlquery"
)

// SpanKind classifies a span's revision status.
type SpanKind int

const (
	// SpanPlain is ordinary text, present before any tracked change.
	SpanPlain SpanKind = iota
	// SpanInserted is text inside a w:ins wrapper.
	SpanInserted
	// SpanDeleted is text inside a w:del wrapper.
	SpanDeleted
)

func (k SpanKind) String() string {
	switch k {
	case SpanPlain:
		return "plain"
	case SpanInserted:
		return "inserted"
	case SpanDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Span is one contiguous unit of paragraph text with uniform revision
// status. Text is a projection of the underlying run at the time the span
// view was built; Run (and Wrapper, for revision spans) point at the live
// markup. A wrapper holding several runs yields one span per run, all
// sharing the wrapper's metadata.
type Span struct {
	Kind    SpanKind
	Text    string
	Run     *xmlquery.Node
	Wrapper *xmlquery.Node
	Author  string
	Date    *time.Time
	ID      int
}

// Paragraph wraps a w:p element node and is the entry point for all
// reading and editing. The zero value is not usable; construct with
// NewParagraph or obtain paragraphs from a Document.
//
// A Paragraph holds no derived state: every call re-walks the live node,
// so views never go stale across edits.
type Paragraph struct {
	node *xmlquery.Node
}

// NewParagraph wraps an existing w:p node. The node is used as-is; the
// caller keeps ownership of the surrounding tree.
func NewParagraph(node *xmlquery.Node) *Paragraph {
	return &Paragraph{node: node}
}

// Node returns the underlying w:p element.
func (p *Paragraph) Node() *xmlquery.Node {
	return p.node
}

// Spans rebuilds the ordered span view from the paragraph's children.
// Plain runs map to one SpanPlain each; w:ins and w:del wrappers map to
// one span per contained run. Children of any other kind (w:pPr,
// bookmarks, unknown extensions) contribute no span and are never an
// error. Empty runs still produce (empty-text) spans so positions in the
// view line up with positions in the markup.
//
// Any previously returned span view is invalidated by an edit; callers
// must not hold spans across InsertTracked, DeleteTracked, or
// ReplaceTracked.
func (p *Paragraph) Spans() []Span {
	if p == nil || p.node == nil {
		return nil
	}
	var spans []Span
	for child := p.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "r":
			spans = append(spans, Span{Kind: SpanPlain, Text: runText(child), Run: child})
		case "ins":
			spans = append(spans, wrapperSpans(child, SpanInserted)...)
		case "del":
			spans = append(spans, wrapperSpans(child, SpanDeleted)...)
		case "pPr":
			// Paragraph mark properties carry no text.
		default:
			GetLogger().Debug("skipping unrecognized paragraph child <%s:%s>", child.Prefix, child.Data)
		}
	}
	return spans
}

// wrapperSpans expands a w:ins or w:del wrapper into one span per run.
// Non-run children of the wrapper are skipped, matching the permissive
// treatment of unknown paragraph children.
func wrapperSpans(wrapper *xmlquery.Node, kind SpanKind) []Span {
	author := attrValue(wrapper, "author")
	date := parseRevisionDate(attrValue(wrapper, "date"))
	id := parseRevisionID(wrapper)

	var spans []Span
	for child := wrapper.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		if child.Data != "r" {
			GetLogger().Debug("skipping unrecognized %s child <%s:%s>", wrapper.Data, child.Prefix, child.Data)
			continue
		}
		spans = append(spans, Span{
			Kind:    kind,
			Text:    runText(child),
			Run:     child,
			Wrapper: wrapper,
			Author:  author,
			Date:    date,
			ID:      id,
		})
	}
	return spans
}

// parseRevisionDate reads a w:date value. Dates are best-effort metadata:
// a missing or unparseable value yields nil, never an error.
func parseRevisionDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	GetLogger().Debug("unparseable revision date %q", s)
	return nil
}

// parseRevisionID reads a wrapper's w:id. Missing or malformed ids read
// as 0; documents from other tools are not required to carry them.
func parseRevisionID(wrapper *xmlquery.Node) int {
	s := attrValue(wrapper, "id")
	if s == "" {
		return 0
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		GetLogger().Debug("unparseable revision id %q on <%s:%s>", s, wrapper.Prefix, wrapper.Data)
		return 0
	}
	return id
}
