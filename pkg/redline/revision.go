package redline

import (
	"strings"
	"time"
)

// RevisionType distinguishes tracked insertions from tracked deletions.
// The values match the WordprocessingML element names.
type RevisionType string

const (
	Insertion RevisionType = "ins"
	Deletion  RevisionType = "del"
)

// UnknownAuthor is reported when a wrapper carries no w:author attribute.
const UnknownAuthor = "Unknown"

// Revision is one tracked change as reported to callers. It is a value
// snapshot: mutating the paragraph afterwards does not update it, and
// mutating it does not touch the paragraph.
type Revision struct {
	Type   RevisionType
	Text   string
	Author string
	// Date is nil when the markup omits w:date or carries a value that
	// does not parse.
	Date *time.Time
	ID   int
}

// Revisions lists the paragraph's tracked changes in document order.
//
// A word processor may split one logical revision across several runs
// inside a single wrapper (formatting changes mid-revision); those runs
// are coalesced back into one record whose text is their concatenation.
// Coalescing is by wrapper occurrence, not by id, so two separate
// wrappers that happen to share an id still report separately.
//
// Wrappers with no text produce no record.
func (p *Paragraph) Revisions() []Revision {
	spans := p.Spans()
	var revs []Revision
	for i := 0; i < len(spans); {
		s := spans[i]
		if s.Wrapper == nil {
			i++
			continue
		}
		var text strings.Builder
		j := i
		for ; j < len(spans) && spans[j].Wrapper == s.Wrapper; j++ {
			text.WriteString(spans[j].Text)
		}
		i = j
		if text.Len() == 0 {
			continue
		}
		typ := Insertion
		if s.Kind == SpanDeleted {
			typ = Deletion
		}
		author := s.Author
		if author == "" {
			author = UnknownAuthor
		}
		revs = append(revs, Revision{
			Type:   typ,
			Text:   text.String(),
			Author: author,
			Date:   s.Date,
			ID:     s.ID,
		})
	}
	return revs
}
