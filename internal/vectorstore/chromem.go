package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"

	"chatpdf/internal/contextutil"
)

const seqKey = "seq"

// ChromemStore implements VectorStore on an in-memory chromem-go database.
// Metadata values are stored as strings.
type ChromemStore struct {
	db   *chromem.DB
	mu   sync.Mutex
	dims map[string]int
}

// NewChromemStore creates a ChromemStore with an empty in-memory database.
func NewChromemStore() *ChromemStore {
	return &ChromemStore{
		db:   chromem.NewDB(),
		dims: make(map[string]int),
	}
}

// Vectors are always supplied by the caller; chromem must never embed text itself.
func noEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New("chromem store does not compute embeddings")
}

func (s *ChromemStore) Reset(ctx context.Context, collection string, vectorSize int) error {
	if vectorSize <= 0 {
		return fmt.Errorf("vector size must be greater than 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(collection); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	if _, err := s.db.CreateCollection(collection, nil, noEmbedding); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	s.dims[collection] = vectorSize

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "collection reset", "collection", collection, "vector_size", vectorSize)
	return nil
}

func (s *ChromemStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	c, dim, err := s.collection(collection)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, 0, len(points))
	for _, p := range points {
		if len(p.Vec) != dim {
			return fmt.Errorf("%w: point %s has %d dimensions, collection has %d", ErrDimensionMismatch, p.ID, len(p.Vec), dim)
		}
		meta := make(map[string]string, len(p.Meta)+1)
		for k, v := range p.Meta {
			meta[k] = fmt.Sprint(v)
		}
		meta[seqKey] = strconv.Itoa(p.Seq)

		docs = append(docs, chromem.Document{
			ID:        p.ID,
			Metadata:  meta,
			Embedding: append([]float32(nil), p.Vec...),
		})
	}

	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search ranks every document in the collection so ties at the k boundary
// resolve by insertion order.
func (s *ChromemStore) Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	c, dim, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	if len(query) != dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection has %d", ErrDimensionMismatch, len(query), dim)
	}

	n := c.Count()
	if n == 0 {
		return []SearchResult{}, nil
	}

	found, err := c.QueryEmbedding(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	results := make([]SearchResult, 0, len(found))
	for _, r := range found {
		seq, _ := strconv.Atoi(r.Metadata[seqKey])
		meta := make(map[string]any, len(r.Metadata))
		for key, v := range r.Metadata {
			if key != seqKey {
				meta[key] = v
			}
		}
		results = append(results, SearchResult{
			PointID: r.ID,
			Score:   r.Similarity,
			Seq:     seq,
			Meta:    meta,
		})
	}
	sortResults(results)

	if k < len(results) {
		results = results[:k]
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

func (s *ChromemStore) CollectionExists(_ context.Context, collection string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dims[collection]
	return ok, nil
}

func (s *ChromemStore) collection(name string) (*chromem.Collection, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dim, ok := s.dims[name]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	c := s.db.GetCollection(name, noEmbedding)
	if c == nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	return c, dim, nil
}
