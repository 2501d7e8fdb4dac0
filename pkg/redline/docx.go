package redline

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// documentPartName is the package part holding the main document body.
const documentPartName = "word/document.xml"

// PackageReader handles reading a DOCX package (an OPC zip archive).
type PackageReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// NewPackageReader creates a reader over an in-memory DOCX package.
func NewPackageReader(r io.ReaderAt, size int64) (*PackageReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	pr := &PackageReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}

	// Index all parts by name
	for _, file := range zipReader.File {
		pr.Parts[file.Name] = file
	}

	if _, ok := pr.Parts[documentPartName]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", documentPartName)
	}

	return pr, nil
}

// PackageReaderFromFile creates a PackageReader from a file path.
func PackageReaderFromFile(path string) (*PackageReader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	reader := bytes.NewReader(content)
	return NewPackageReader(reader, int64(len(content)))
}

// DocumentXML retrieves the content of word/document.xml.
func (pr *PackageReader) DocumentXML() ([]byte, error) {
	return pr.Part(documentPartName)
}

// Part retrieves the content of a specific package part.
func (pr *PackageReader) Part(partName string) ([]byte, error) {
	file, ok := pr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}

	return content, nil
}

// PartNames returns the names of all parts in the package.
func (pr *PackageReader) PartNames() []string {
	parts := make([]string, 0, len(pr.Parts))
	for name := range pr.Parts {
		parts = append(parts, name)
	}
	return parts
}

// RewriteDocument writes a copy of the package to w with
// word/document.xml replaced by documentXML. Every other part is copied
// through byte-for-byte, so styles, numbering, media, and settings are
// untouched by an edit session.
func (pr *PackageReader) RewriteDocument(w io.Writer, documentXML []byte) error {
	zw := zip.NewWriter(w)

	for _, file := range pr.reader.File {
		fw, err := zw.Create(file.Name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", file.Name, err)
		}

		if file.Name == documentPartName {
			if _, err := fw.Write(documentXML); err != nil {
				return fmt.Errorf("failed to write %s: %w", file.Name, err)
			}
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", file.Name, err)
		}
		if _, err := io.Copy(fw, rc); err != nil {
			rc.Close()
			return fmt.Errorf("failed to copy %s: %w", file.Name, err)
		}
		rc.Close()
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize package: %w", err)
	}
	return nil
}
