// Package redline reads and writes track-changes (revision) markup in
// WordprocessingML paragraphs.
//
// A tracked document interleaves plain runs (w:r) with insertion wrappers
// (w:ins) and deletion wrappers (w:del); each wrapper carries author, date,
// and a document-unique revision id. redline parses that markup into an
// ordered span view, computes the accepted text (insertions kept, deletions
// dropped), enumerates revision records, and performs new tracked edits,
// splitting runs at character offsets and splicing in fresh wrappers so the
// result is indistinguishable from revisions made in a word processor.
//
// # Reading
//
//	doc, err := redline.OpenDocument("tracked.docx")
//	p := doc.Paragraphs()[0]
//	text := p.AcceptedText()
//	for _, rev := range p.Revisions() {
//	    fmt.Printf("%s %q by %s\n", rev.Type, rev.Text, rev.Author)
//	}
//
// # Editing
//
//	err := p.InsertTracked(" there", 5, "Editor")
//	err = p.DeleteTracked(0, 5, "Editor")
//	err = p.ReplaceTracked(6, 11, "universe", "Editor")
//	doc.Save("reviewed.docx")
//
// Offsets are rune offsets into the accepted text. Every edit validates its
// offsets before touching the paragraph; on a RangeError the markup is left
// byte-for-byte unchanged. All operations are synchronous and assume the
// caller owns the paragraph for the duration of the call.
//
// The package never parses the whole OOXML schema. Unrecognized paragraph
// children are skipped when building the span view and preserved untouched
// in the tree, so documents produced by other tools round-trip safely.
package redline
