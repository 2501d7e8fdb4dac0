package redline

import (
	"strings"
	"unicode/utf8"
)

// AcceptedText returns the paragraph text as it would read with every
// tracked change applied: inserted text kept, deleted text dropped. A
// paragraph with no revisions returns its plain text unchanged.
func (p *Paragraph) AcceptedText() string {
	var b strings.Builder
	for _, s := range p.Spans() {
		if s.Kind == SpanDeleted {
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// RawText returns the concatenated text of every span, deletions
// included: the paragraph as it would read with all changes rejected
// and all insertions still present. Useful for diagnostics; edits are
// specified against AcceptedText coordinates, not RawText.
func (p *Paragraph) RawText() string {
	var b strings.Builder
	for _, s := range p.Spans() {
		b.WriteString(s.Text)
	}
	return b.String()
}

// acceptedLength is the rune count of the accepted text. Edit offsets are
// rune offsets, so multi-byte text splits on character boundaries.
func (p *Paragraph) acceptedLength() int {
	return utf8.RuneCountInString(p.AcceptedText())
}
