// Command redline inspects and edits tracked changes in DOCX documents.
package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/benjaminschreck/go-redline/pkg/redline"
)

const version = "0.1.0"

// CLI defines the command-line interface for redline.
var CLI struct {
	Accept    AcceptCmd    `cmd:"" help:"Print the document text with all tracked changes accepted"`
	Revisions RevisionsCmd `cmd:"" help:"List the tracked changes in a document"`
	Insert    InsertCmd    `cmd:"" help:"Insert text as a tracked change"`
	Delete    DeleteCmd    `cmd:"" help:"Delete a text range as a tracked change"`
	Replace   ReplaceCmd   `cmd:"" help:"Replace text as a tracked change"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// AcceptCmd prints the accepted text of a document.
type AcceptCmd struct {
	File string `arg:"" help:"Path to DOCX file" type:"existingfile"`
	Para int    `name:"para" short:"p" default:"-1" help:"Limit output to one paragraph (0-based index)"`
}

func (c *AcceptCmd) Run() error {
	doc, err := redline.OpenDocument(c.File)
	if err != nil {
		return err
	}
	if c.Para >= 0 {
		p, err := doc.ParagraphAt(c.Para)
		if err != nil {
			return err
		}
		fmt.Println(p.AcceptedText())
		return nil
	}
	fmt.Println(doc.AcceptedText())
	return nil
}

// RevisionsCmd lists every tracked change in a document.
type RevisionsCmd struct {
	File string `arg:"" help:"Path to DOCX file" type:"existingfile"`
	Para int    `name:"para" short:"p" default:"-1" help:"Limit listing to one paragraph (0-based index)"`
}

func (c *RevisionsCmd) Run() error {
	doc, err := redline.OpenDocument(c.File)
	if err != nil {
		return err
	}
	var revs []redline.Revision
	if c.Para >= 0 {
		p, err := doc.ParagraphAt(c.Para)
		if err != nil {
			return err
		}
		revs = p.Revisions()
	} else {
		revs = doc.Revisions()
	}
	if len(revs) == 0 {
		fmt.Println("no tracked changes")
		return nil
	}
	for _, rev := range revs {
		date := ""
		if rev.Date != nil {
			date = " " + rev.Date.Format(time.RFC3339)
		}
		meta := fmt.Sprintf("[%d] %s%s", rev.ID, rev.Author, date)
		switch rev.Type {
		case redline.Insertion:
			color.Green("+ %q %s", rev.Text, meta)
		case redline.Deletion:
			color.Red("- %q %s", rev.Text, meta)
		}
	}
	return nil
}

// InsertCmd inserts text into a paragraph as a tracked change.
type InsertCmd struct {
	File   string `arg:"" help:"Path to DOCX file" type:"existingfile"`
	Text   string `arg:"" help:"Text to insert"`
	Para   int    `name:"para" short:"p" default:"0" help:"Paragraph to edit (0-based index)"`
	Offset int    `name:"offset" default:"-1" help:"Rune offset to insert at (default: end of paragraph)"`
	Author string `name:"author" short:"a" help:"Revision author (default: REDLINE_AUTHOR or built-in)"`
	Output string `name:"output" short:"o" help:"Output path (default: <file>.redline.docx)" type:"path"`
}

func (c *InsertCmd) Run() error {
	return editDocument(c.File, c.Output, func(doc *redline.Document) error {
		p, err := doc.ParagraphAt(c.Para)
		if err != nil {
			return err
		}
		offset := c.Offset
		if offset < 0 {
			offset = redline.OffsetEnd
		}
		return p.InsertTracked(c.Text, offset, c.Author, redline.WithIDSource(doc.IDSource()))
	})
}

// DeleteCmd marks a text range in a paragraph as deleted.
type DeleteCmd struct {
	File   string `arg:"" help:"Path to DOCX file" type:"existingfile"`
	Para   int    `name:"para" short:"p" default:"0" help:"Paragraph to edit (0-based index)"`
	Start  int    `name:"start" required:"" help:"Start of the range (rune offset, inclusive)"`
	End    int    `name:"end" required:"" help:"End of the range (rune offset, exclusive)"`
	Author string `name:"author" short:"a" help:"Revision author (default: REDLINE_AUTHOR or built-in)"`
	Output string `name:"output" short:"o" help:"Output path (default: <file>.redline.docx)" type:"path"`
}

func (c *DeleteCmd) Run() error {
	return editDocument(c.File, c.Output, func(doc *redline.Document) error {
		p, err := doc.ParagraphAt(c.Para)
		if err != nil {
			return err
		}
		return p.DeleteTracked(c.Start, c.End, c.Author, redline.WithIDSource(doc.IDSource()))
	})
}

// ReplaceCmd replaces text as a paired tracked deletion and insertion.
// Either give --old to replace the first occurrence of a string, or
// --start/--end to replace an explicit range.
type ReplaceCmd struct {
	File   string `arg:"" help:"Path to DOCX file" type:"existingfile"`
	Old    string `name:"old" help:"Text to search for (first occurrence)"`
	New    string `name:"new" required:"" help:"Replacement text"`
	Para   int    `name:"para" short:"p" default:"0" help:"Paragraph to edit (0-based index)"`
	Start  int    `name:"start" default:"-1" help:"Start of the range to replace (rune offset, inclusive)"`
	End    int    `name:"end" default:"-1" help:"End of the range to replace (rune offset, exclusive)"`
	Author string `name:"author" short:"a" help:"Revision author (default: REDLINE_AUTHOR or built-in)"`
	Output string `name:"output" short:"o" help:"Output path (default: <file>.redline.docx)" type:"path"`
}

func (c *ReplaceCmd) Run() error {
	if c.Old == "" && (c.Start < 0 || c.End < 0) {
		return fmt.Errorf("either --old or both --start and --end are required")
	}
	return editDocument(c.File, c.Output, func(doc *redline.Document) error {
		p, err := doc.ParagraphAt(c.Para)
		if err != nil {
			return err
		}
		if c.Old != "" {
			found, err := p.ReplaceText(c.Old, c.New, c.Author)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("text %q not found in paragraph %d", c.Old, c.Para)
			}
			return nil
		}
		return p.ReplaceTracked(c.Start, c.End, c.New, c.Author, redline.WithIDSource(doc.IDSource()))
	})
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("redline version %s\n", version)
	return nil
}

// editDocument opens path, applies edit, and writes the result next to
// the input. Writing over the input is refused so the original survives
// a bad edit.
func editDocument(path, output string, edit func(*redline.Document) error) error {
	if output == "" {
		output = defaultOutputPath(path)
	}
	inAbs, err1 := filepath.Abs(path)
	outAbs, err2 := filepath.Abs(output)
	if err1 == nil && err2 == nil && inAbs == outAbs {
		return fmt.Errorf("refusing to overwrite input file %s, pass -o with a different path", path)
	}

	doc, err := redline.OpenDocument(path)
	if err != nil {
		return err
	}
	if err := edit(doc); err != nil {
		return err
	}
	if err := doc.Save(output); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func defaultOutputPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + ".redline" + ext
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("redline"),
		kong.Description("Tracked-change editing for DOCX documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
