package loader

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chatpdf/internal/contextutil"

	"github.com/ledongthuc/pdf"
)

// Scanner finds and reads the PDF files of a single directory.
type Scanner struct {
	dir string
}

// NewScanner creates a scanner rooted at dir. The directory does not need to
// exist yet; Scan creates it.
func NewScanner(dir string) *Scanner {
	return &Scanner{dir: dir}
}

// Dir returns the scanned directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// Scan lists the PDF files directly inside the directory, sorted by name.
// Subdirectories are not descended into.
func (s *Scanner) Scan(ctx context.Context) ([]ScannedFile, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create documents directory %s: %w", s.dir, err)
	}

	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve documents directory %s: %w", s.dir, err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory %s: %w", s.dir, err)
	}

	var files []ScannedFile
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, ScannedFile{
			Name:    entry.Name(),
			AbsPath: filepath.Join(absDir, entry.Name()),
			Size:    info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Load extracts the text of every page of file.
func (s *Scanner) Load(ctx context.Context, file ScannedFile) (*Document, error) {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, &ParseError{Path: file.AbsPath, Err: err}
	}

	pages, err := extractPages(data)
	if err != nil {
		return nil, &ParseError{Path: file.AbsPath, Err: err}
	}

	sum := sha256.Sum256(data)
	doc := &Document{
		Path:  file.AbsPath,
		Name:  file.Name,
		Hash:  hex.EncodeToString(sum[:]),
		Pages: pages,
	}

	contextutil.LoggerFromContext(ctx).Debug("loaded document",
		"name", doc.Name,
		"pages", len(doc.Pages),
		"text_bytes", doc.TextLength(),
	)
	return doc, nil
}

// LoadAll scans the directory and loads every PDF in name order.
// It stops at the first file that fails to load.
func (s *Scanner) LoadAll(ctx context.Context) ([]*Document, error) {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("no PDF documents found", "dir", s.dir)
		return nil, ErrNoDocuments
	}

	docs := make([]*Document, 0, len(files))
	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		doc, err := s.Load(ctx, f)
		if err != nil {
			logger.Error("failed to load document", "name", f.Name, "error", err)
			return nil, err
		}
		docs = append(docs, doc)
	}

	logger.Info("loaded documents", "dir", s.dir, "count", len(docs))
	return docs, nil
}

// extractPages reads the plain text of each page. The pdf package panics on
// some malformed inputs, so panics are reported as errors.
func extractPages(data []byte) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	pages = make([]Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			slog.Debug("skipping null page", "page", i)
			pages = append(pages, Page{Number: i})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, Page{Number: i, Text: text})
	}
	return pages, nil
}
