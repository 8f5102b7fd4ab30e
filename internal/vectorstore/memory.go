package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sync"

	"chatpdf/internal/contextutil"
)

// MemoryStore is an exact, in-process VectorStore using cosine similarity.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	dim    int
	points []Point
	index  map[string]int // point ID -> position in points
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) Reset(ctx context.Context, collection string, vectorSize int) error {
	if vectorSize <= 0 {
		return fmt.Errorf("vector size must be greater than 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = &memoryCollection{
		dim:   vectorSize,
		index: make(map[string]int),
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "collection reset", "collection", collection, "vector_size", vectorSize)
	return nil
}

// Upsert stores copies of points. Re-upserting an ID replaces the point in
// place and keeps its original position.
func (s *MemoryStore) Upsert(ctx context.Context, collection string, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}

	for _, p := range points {
		if len(p.Vec) != c.dim {
			return fmt.Errorf("%w: point %s has %d dimensions, collection has %d", ErrDimensionMismatch, p.ID, len(p.Vec), c.dim)
		}
	}

	for _, p := range points {
		stored := Point{
			ID:   p.ID,
			Seq:  p.Seq,
			Vec:  append([]float32(nil), p.Vec...),
			Meta: p.Meta,
		}
		if i, exists := c.index[p.ID]; exists {
			c.points[i] = stored
			continue
		}
		c.index[p.ID] = len(c.points)
		c.points = append(c.points, stored)
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	if len(query) != c.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection has %d", ErrDimensionMismatch, len(query), c.dim)
	}

	results := make([]SearchResult, 0, len(c.points))
	for _, p := range c.points {
		results = append(results, SearchResult{
			PointID: p.ID,
			Score:   cosine(query, p.Vec),
			Seq:     p.Seq,
			Meta:    p.Meta,
		})
	}
	sortResults(results)

	if k < len(results) {
		results = results[:k]
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

func (s *MemoryStore) CollectionExists(_ context.Context, collection string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[collection]
	return ok, nil
}

// Count returns the number of points in collection.
func (s *MemoryStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.collections[collection]; ok {
		return len(c.points)
	}
	return 0
}

// cosine returns the cosine similarity of a and b, or 0 if either is a zero vector.
func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
