package redline

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"
)

// OffsetEnd requests insertion at the end of the accepted text.
const OffsetEnd = -1

// EditOption adjusts a single tracked edit.
type EditOption func(*editOptions)

type editOptions struct {
	date time.Time
	ids  IDSource
}

// WithDate stamps the revision with t instead of the current time.
func WithDate(t time.Time) EditOption {
	return func(o *editOptions) {
		o.date = t
	}
}

// WithIDSource draws revision ids from ids instead of the default
// scan-based allocator. Use Document.IDSource (or a shared
// NewCounterIDSource) when batching edits across paragraphs.
func WithIDSource(ids IDSource) EditOption {
	return func(o *editOptions) {
		o.ids = ids
	}
}

func (p *Paragraph) newEditOptions(opts []EditOption) *editOptions {
	o := &editOptions{date: time.Now()}
	for _, fn := range opts {
		fn(o)
	}
	if o.ids == nil {
		// Scan from the topmost ancestor so ids stay unique across the
		// whole document, not just this paragraph.
		o.ids = NewScanIDSource(rootOf(p.node))
	}
	return o
}

func resolveAuthor(author string) string {
	if author == "" {
		return GetGlobalConfig().DefaultAuthor
	}
	return author
}

// InsertTracked inserts text as a new tracked insertion at the given rune
// offset into the accepted text. Pass OffsetEnd to append. The wrapper
// gets a fresh document-unique id, the given author (or the configured
// default when author is ""), and the current time unless WithDate is
// supplied.
//
// After the call the accepted text equals the old accepted text with text
// spliced in at offset; existing revisions are untouched. An offset
// outside [0, len] fails with RangeError and leaves the paragraph
// unchanged.
func (p *Paragraph) InsertTracked(text string, offset int, author string, opts ...EditOption) error {
	o := p.newEditOptions(opts)
	if err := p.insertAt(text, offset, resolveAuthor(author), o); err != nil {
		return err
	}
	GetLogger().Debug("inserted %d chars at offset %d", utf8.RuneCountInString(text), offset)
	return nil
}

func (p *Paragraph) insertAt(text string, offset int, author string, o *editOptions) error {
	length := p.acceptedLength()
	if offset == OffsetEnd {
		offset = length
	}
	if offset < 0 || offset > length {
		return NewRangeError("insert", offset, length)
	}
	id, err := p.allocateID(o.ids)
	if err != nil {
		return err
	}
	wrapper := newWrapper("ins", id, author, o.date)
	xmlquery.AddChild(wrapper, newTextRun(text, nil))
	p.spliceAt(wrapper, offset)
	return nil
}

// spliceAt places wrapper into the paragraph's children so that its text
// lands at the given accepted-text offset. Deleted spans contribute no
// width. Offsets at or past the last visible character append at the end.
func (p *Paragraph) spliceAt(wrapper *xmlquery.Node, offset int) {
	pos := 0
	for _, s := range p.Spans() {
		if s.Kind == SpanDeleted {
			continue
		}
		n := utf8.RuneCountInString(s.Text)
		if pos+n > offset {
			if at := offset - pos; at == 0 {
				spliceBeforeSpan(s, wrapper)
			} else {
				spliceInsideSpan(s, at, wrapper)
			}
			return
		}
		pos += n
	}
	xmlquery.AddChild(p.node, wrapper)
}

// spliceBeforeSpan inserts wrapper immediately before the first character
// of span s. When s sits mid-wrapper the wrapper is split first so the
// new element can live between the halves as a paragraph child.
func spliceBeforeSpan(s Span, wrapper *xmlquery.Node) {
	if s.Wrapper == nil {
		insertBefore(s.Run, wrapper)
		return
	}
	if firstRunOf(s.Wrapper) == s.Run {
		insertBefore(s.Wrapper, wrapper)
		return
	}
	right := splitWrapperBefore(s.Wrapper, s.Run)
	insertBefore(right, wrapper)
}

// spliceInsideSpan splits span s at rune offset at and inserts wrapper
// between the halves.
func spliceInsideSpan(s Span, at int, wrapper *xmlquery.Node) {
	left, right := splitRun(s.Run, at)
	if s.Wrapper == nil {
		insertAfter(left, wrapper)
		return
	}
	rightWrapper := splitWrapperBefore(s.Wrapper, right)
	insertBefore(rightWrapper, wrapper)
}

// splitRun replaces run with two runs holding its text up to and from the
// rune offset at, each carrying a copy of the original w:rPr. The
// concatenated text is unchanged; only the partitioning differs. Non-text
// run content (breaks, drawings) does not survive a mid-run split.
func splitRun(run *xmlquery.Node, at int) (left, right *xmlquery.Node) {
	text := []rune(runText(run))
	props := runProperties(run)
	left = newTextRun(string(text[:at]), props)
	right = newTextRun(string(text[at:]), props)
	insertBefore(run, left)
	insertBefore(run, right)
	xmlquery.RemoveFromTree(run)
	return left, right
}

// splitWrapperBefore moves run and everything after it out of wrapper
// into a second wrapper with identical attributes, inserted as the next
// sibling. Returns the new right-hand wrapper.
func splitWrapperBefore(wrapper, run *xmlquery.Node) *xmlquery.Node {
	right := cloneWrapperShell(wrapper)
	insertAfter(wrapper, right)
	for n := run; n != nil; {
		next := n.NextSibling
		xmlquery.RemoveFromTree(n)
		xmlquery.AddChild(right, n)
		n = next
	}
	return right
}

// DeleteTracked marks the accepted-text rune range [start, end) as a
// tracked deletion. Plain runs overlapping the range are split at the
// boundaries and the covered portion moves into a new w:del wrapper with
// its text converted to w:delText; formatting is preserved on every
// piece. Text that was itself a tracked insertion collapses to nothing
// instead of being wrapped (an insertion deleted before acceptance was
// never part of the baseline). Already-deleted text is left alone.
//
// start >= end or a range outside [0, len] fails with RangeError and
// leaves the paragraph unchanged.
func (p *Paragraph) DeleteTracked(start, end int, author string, opts ...EditOption) error {
	o := p.newEditOptions(opts)
	length := p.acceptedLength()
	if start < 0 || end > length || start >= end {
		return NewSpanRangeError("delete", start, end, length)
	}
	if err := p.deleteRange(start, end, resolveAuthor(author), o); err != nil {
		return err
	}
	GetLogger().Debug("deleted accepted range [%d, %d)", start, end)
	return nil
}

// cut is one span's overlap with a deletion range, in rune offsets local
// to the span's text.
type cut struct {
	span   Span
	ds, de int
	id     int
}

func (p *Paragraph) deleteRange(start, end int, author string, o *editOptions) error {
	var cuts []cut
	pos := 0
	for _, s := range p.Spans() {
		if s.Kind == SpanDeleted {
			continue
		}
		n := utf8.RuneCountInString(s.Text)
		spanStart, spanEnd := pos, pos+n
		pos = spanEnd
		if n == 0 || spanEnd <= start || spanStart >= end {
			continue
		}
		c := cut{span: s, ds: 0, de: n}
		if start > spanStart {
			c.ds = start - spanStart
		}
		if end < spanEnd {
			c.de = end - spanStart
		}
		cuts = append(cuts, c)
	}

	// Allocate every id before touching the tree so a collision from an
	// injected IDSource cannot leave a half-applied deletion.
	for i := range cuts {
		if cuts[i].span.Kind != SpanPlain {
			continue
		}
		id, err := p.allocateID(o.ids)
		if err != nil {
			return err
		}
		cuts[i].id = id
	}

	for _, c := range cuts {
		switch c.span.Kind {
		case SpanPlain:
			deleteFromPlainRun(c, author, o.date)
		case SpanInserted:
			deleteFromInsertedRun(c)
		}
	}
	return nil
}

// deleteFromPlainRun wraps the covered portion of a plain run in a new
// w:del. A fully covered run is moved into the wrapper whole, keeping any
// non-text content; a partially covered run is split into plain remnants
// around a new w:delText run.
func deleteFromPlainRun(c cut, author string, date time.Time) {
	run := c.span.Run
	text := []rune(runText(run))
	props := runProperties(run)
	wrapper := newWrapper("del", c.id, author, date)

	if c.ds == 0 && c.de == len(text) {
		insertBefore(run, wrapper)
		xmlquery.RemoveFromTree(run)
		xmlquery.AddChild(wrapper, run)
		convertRunToDeleted(run)
		return
	}

	if c.ds > 0 {
		insertBefore(run, newTextRun(string(text[:c.ds]), props))
	}
	xmlquery.AddChild(wrapper, newDelTextRun(string(text[c.ds:c.de]), props))
	insertBefore(run, wrapper)
	if c.de < len(text) {
		insertBefore(run, newTextRun(string(text[c.de:]), props))
	}
	xmlquery.RemoveFromTree(run)
}

// deleteFromInsertedRun removes the covered portion of an inserted run
// outright (collapse-to-nothing policy, see DESIGN.md). Uncovered
// remnants stay inside the original w:ins; a wrapper left with no runs is
// removed from the paragraph.
func deleteFromInsertedRun(c cut) {
	run := c.span.Run
	wrapper := c.span.Wrapper
	text := []rune(runText(run))
	props := runProperties(run)

	if c.ds > 0 {
		insertBefore(run, newTextRun(string(text[:c.ds]), props))
	}
	if c.de < len(text) {
		insertBefore(run, newTextRun(string(text[c.de:]), props))
	}
	xmlquery.RemoveFromTree(run)
	if !hasElementChildren(wrapper) {
		xmlquery.RemoveFromTree(wrapper)
	}
}

// ReplaceTracked replaces the accepted-text rune range [start, end) with
// text, as a tracked deletion followed by a tracked insertion sharing the
// same author and timestamp. This produces two linked revision records,
// which is how word processors represent a replacement.
func (p *Paragraph) ReplaceTracked(start, end int, text, author string, opts ...EditOption) error {
	o := p.newEditOptions(opts)
	length := p.acceptedLength()
	if start < 0 || end > length || start >= end {
		return NewSpanRangeError("replace", start, end, length)
	}
	author = resolveAuthor(author)
	if err := p.deleteRange(start, end, author, o); err != nil {
		return err
	}
	if err := p.insertAt(text, start, author, o); err != nil {
		return err
	}
	GetLogger().Debug("replaced accepted range [%d, %d) with %d chars", start, end, utf8.RuneCountInString(text))
	return nil
}

// ReplaceText finds the first occurrence of old in the accepted text and
// replaces it with new as a tracked deletion plus insertion. Returns
// false, nil when old is empty or absent; the paragraph is not modified
// in that case.
func (p *Paragraph) ReplaceText(old, new, author string, opts ...EditOption) (bool, error) {
	if old == "" {
		return false, nil
	}
	accepted := p.AcceptedText()
	idx := strings.Index(accepted, old)
	if idx == -1 {
		return false, nil
	}
	start := utf8.RuneCountInString(accepted[:idx])
	end := start + utf8.RuneCountInString(old)
	if err := p.ReplaceTracked(start, end, new, author, opts...); err != nil {
		return false, err
	}
	return true, nil
}
