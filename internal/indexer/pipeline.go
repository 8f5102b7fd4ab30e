package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"chatpdf/internal/contextutil"
	"chatpdf/internal/loader"
	"chatpdf/internal/storage"
	"chatpdf/internal/vectorstore"
)

// Pipeline builds the searchable index: load, chunk, embed, store.
type Pipeline struct {
	source      DocumentSource
	docRepo     storage.DocumentStore
	segmentRepo storage.SegmentStore
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	chunker     *Chunker
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(
	source DocumentSource,
	docRepo storage.DocumentStore,
	segmentRepo storage.SegmentStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunker *Chunker,
) *Pipeline {
	return &Pipeline{
		source:      source,
		docRepo:     docRepo,
		segmentRepo: segmentRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		chunker:     chunker,
	}
}

// Collection returns the vector store collection the pipeline writes to.
func (p *Pipeline) Collection() string {
	return p.collection
}

// pendingDoc is a loaded document with its segments and vectors, ready to store.
type pendingDoc struct {
	doc      *loader.Document
	id       string
	segments []*storage.SegmentRecord
	vectors  [][]float32
}

// Build loads every document and replaces the stores' contents with a fresh
// index. Nothing is written until all documents are loaded and embedded.
//
// Returns loader.ErrNoDocuments when there are no PDFs, a *loader.ParseError
// for unreadable files and ErrEmptyIndex when no page has text.
func (p *Pipeline) Build(ctx context.Context) (*BuildResult, error) {
	logger := contextutil.LoggerFromContext(ctx)
	started := time.Now()

	docs, err := p.source.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]*pendingDoc, 0, len(docs))
	spansByDoc := make(map[string][]Span, len(docs))
	seq := 0
	for _, doc := range docs {
		pd := &pendingDoc{doc: doc, id: uuid.New().String()}
		for _, page := range doc.Pages {
			if isBlank(page.Text) {
				continue
			}
			spans := p.chunker.Split(page.Text)
			spansByDoc[doc.Path] = append(spansByDoc[doc.Path], spans...)
			for i, span := range spans {
				pd.segments = append(pd.segments, &storage.SegmentRecord{
					ID:         uuid.New().String(),
					DocumentID: pd.id,
					Source:     doc.Name,
					Page:       page.Number,
					ChunkIndex: i,
					Seq:        seq,
					Start:      span.Start,
					End:        span.End,
					Overlap:    span.Overlap,
					Text:       span.Text,
				})
				seq++
			}
		}
		if len(pd.segments) == 0 {
			logger.WarnContext(ctx, "document has no extractable text", "name", doc.Name, "pages", len(doc.Pages))
		}
		pending = append(pending, pd)
	}

	if seq == 0 {
		return nil, ErrEmptyIndex
	}

	dim, err := p.embedAll(ctx, logger, pending)
	if err != nil {
		return nil, err
	}

	if err := p.store(ctx, pending, dim); err != nil {
		return nil, err
	}

	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
	}
	result := &BuildResult{
		Documents: names,
		Segments:  seq,
		Dimension: dim,
		Duration:  time.Since(started),
		Stats:     computeBuildStats(docs, spansByDoc, p.chunker),
	}

	logger.InfoContext(ctx, "index built",
		"documents", len(docs),
		"segments", result.Segments,
		"dimension", dim,
		"empty_pages", result.Stats.EmptyPages,
		"duration", result.Duration,
	)
	return result, nil
}

// embedAll embeds each document's segments in one call and checks that every
// vector has the same dimension.
func (p *Pipeline) embedAll(ctx context.Context, logger *slog.Logger, pending []*pendingDoc) (int, error) {
	dim := 0
	for _, pd := range pending {
		if len(pd.segments) == 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		texts := make([]string, len(pd.segments))
		for i, s := range pd.segments {
			texts[i] = s.Text
		}

		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("failed to embed %s: %w", pd.doc.Name, err)
		}
		if len(vectors) != len(texts) {
			return 0, fmt.Errorf("embedding count mismatch for %s: expected %d, got %d", pd.doc.Name, len(texts), len(vectors))
		}
		for _, v := range vectors {
			if dim == 0 {
				dim = len(v)
			}
			if len(v) == 0 || len(v) != dim {
				return 0, fmt.Errorf("inconsistent embedding dimension for %s: expected %d, got %d", pd.doc.Name, dim, len(v))
			}
		}
		pd.vectors = vectors

		logger.DebugContext(ctx, "embedded document", "name", pd.doc.Name, "segments", len(texts))
	}
	return dim, nil
}

func (p *Pipeline) store(ctx context.Context, pending []*pendingDoc, dim int) error {
	if err := p.segmentRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear segments: %w", err)
	}
	if err := p.docRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	if err := p.vectorStore.Reset(ctx, p.collection, dim); err != nil {
		return fmt.Errorf("failed to reset vector collection: %w", err)
	}

	for _, pd := range pending {
		err := p.docRepo.Insert(ctx, &storage.DocumentRecord{
			ID:    pd.id,
			Name:  pd.doc.Name,
			Path:  pd.doc.Path,
			Hash:  pd.doc.Hash,
			Pages: len(pd.doc.Pages),
		})
		if err != nil {
			return fmt.Errorf("failed to store document %s: %w", pd.doc.Name, err)
		}
		if len(pd.segments) == 0 {
			continue
		}

		if err := p.segmentRepo.InsertBatch(ctx, pd.segments); err != nil {
			return fmt.Errorf("failed to store segments of %s: %w", pd.doc.Name, err)
		}

		points := make([]vectorstore.Point, len(pd.segments))
		for i, s := range pd.segments {
			points[i] = vectorstore.Point{
				ID:  s.ID,
				Seq: s.Seq,
				Vec: pd.vectors[i],
				Meta: map[string]any{
					"document_id": pd.id,
					"source":      s.Source,
					"page":        s.Page,
					"chunk_index": s.ChunkIndex,
				},
			}
		}
		if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
			return fmt.Errorf("failed to upsert vectors of %s: %w", pd.doc.Name, err)
		}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
