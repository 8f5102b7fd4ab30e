package indexer

import (
	"context"
	"errors"
	"time"

	"chatpdf/internal/loader"
)

// ErrEmptyIndex is returned when the documents yield no text to index.
var ErrEmptyIndex = errors.New("documents contain no extractable text")

// DocumentSource loads every document to index.
type DocumentSource interface {
	LoadAll(ctx context.Context) ([]*loader.Document, error)
}

// Embedder turns segment texts into vectors, one per text, in order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// BuildResult describes a finished index build.
type BuildResult struct {
	Documents []string // Document names in load order
	Segments  int
	Dimension int
	Duration  time.Duration
	Stats     *BuildStats
}
