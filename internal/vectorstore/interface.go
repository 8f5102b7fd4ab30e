package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks chatpdf/internal/vectorstore VectorStore

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrCollectionNotFound is returned when a collection has not been created by Reset.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrDimensionMismatch is returned when a vector does not match the collection size.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Seq  int // Insertion order, used to break score ties
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Seq     int
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Reset drops the collection if it exists and creates it empty.
	Reset(ctx context.Context, collection string, vectorSize int) error

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the min(k, n) points most similar to query, best first.
	// Equal scores are ordered by ascending Seq.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// CollectionExists reports whether the collection has been created.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

// sortResults orders results best first, breaking ties by insertion order.
func sortResults(results []SearchResult) {
	slices.SortStableFunc(results, func(a, b SearchResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return a.Seq - b.Seq
	})
}
