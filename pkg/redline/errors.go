// Package redline error types. Each failure class gets its own type so
// callers can match with errors.As.
package redline

import (
	"fmt"
)

// RangeError reports an edit whose offsets fall outside the paragraph's
// accepted text, or a deletion range with start >= end. When a RangeError
// is returned the paragraph has not been modified.
type RangeError struct {
	Op     string // "insert", "delete", or "replace"
	Start  int
	End    int
	Length int // rune length of the accepted text at validation time
}

func (e *RangeError) Error() string {
	if e.Start == e.End {
		return fmt.Sprintf("%s: offset %d out of range [0, %d]", e.Op, e.Start, e.Length)
	}
	return fmt.Sprintf("%s: range [%d, %d) invalid for accepted text of length %d", e.Op, e.Start, e.End, e.Length)
}

// NewRangeError creates a RangeError for a single-offset operation.
func NewRangeError(op string, offset, length int) error {
	return &RangeError{Op: op, Start: offset, End: offset, Length: length}
}

// NewSpanRangeError creates a RangeError for a [start, end) operation.
func NewSpanRangeError(op string, start, end, length int) error {
	return &RangeError{Op: op, Start: start, End: end, Length: length}
}

// IdentifierCollisionError reports that a freshly allocated revision id
// already exists in the paragraph. Unreachable with the built-in scanning
// allocator; checked defensively because IDSource is injectable and an
// external source may hand out ids that are already in use.
type IdentifierCollisionError struct {
	ID int
}

func (e *IdentifierCollisionError) Error() string {
	return fmt.Sprintf("revision id %d already present in paragraph", e.ID)
}

// NewIdentifierCollisionError creates an IdentifierCollisionError.
func NewIdentifierCollisionError(id int) error {
	return &IdentifierCollisionError{ID: id}
}

// MalformedMarkupError describes markup the package could not make sense
// of. Paragraph parsing never returns it; unrecognized elements are
// skipped with a log line instead, so documents from other tools and
// future format extensions stay readable. It surfaces only where the
// structure is unusable outright, such as a document part with no body.
type MalformedMarkupError struct {
	Element string
	Reason  string
}

func (e *MalformedMarkupError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("malformed markup in <%s>: %s", e.Element, e.Reason)
	}
	return fmt.Sprintf("malformed markup: %s", e.Reason)
}

// NewMalformedMarkupError creates a MalformedMarkupError.
func NewMalformedMarkupError(element, reason string) error {
	return &MalformedMarkupError{Element: element, Reason: reason}
}
