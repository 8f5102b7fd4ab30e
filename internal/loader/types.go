package loader

import (
	"errors"
	"fmt"
)

// ErrNoDocuments is returned when the documents directory holds no PDF files.
var ErrNoDocuments = errors.New("no PDF documents found")

// ScannedFile is a PDF found in the documents directory.
type ScannedFile struct {
	Name    string // File name, e.g. "contract.pdf"
	AbsPath string
	Size    int64
}

// Page is the extracted text of one PDF page.
type Page struct {
	Number int // 1-based
	Text   string
}

// Document is one loaded PDF with its pages in order.
type Document struct {
	Path  string
	Name  string
	Hash  string // hex SHA-256 of the file contents
	Pages []Page
}

// TextLength returns the total number of bytes of extracted text.
func (d *Document) TextLength() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Text)
	}
	return n
}

// ParseError reports a PDF that could not be opened or read.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
