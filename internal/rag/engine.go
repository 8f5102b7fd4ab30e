package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chatpdf/internal/contextutil"
	"chatpdf/internal/llm"
	"chatpdf/internal/storage"
	"chatpdf/internal/vectorstore"
)

// DefaultK is the number of segments retrieved per question.
const DefaultK = 4

const systemPromptTemplate = "Use the following pieces of context to answer the user's question. \n" +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n" +
	"----------------\n" +
	"%s"

// Engine provides RAG (Retrieval-Augmented Generation) functionality.
type Engine interface {
	// Ask answers a question by retrieving relevant segments and generating an answer.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	segments    storage.SegmentStore
	generator   Generator
	k           int
}

// NewEngine creates a new RAG engine. A k of zero or less selects DefaultK.
func NewEngine(
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	segments storage.SegmentStore,
	generator Generator,
	k int,
) Engine {
	if k <= 0 {
		k = DefaultK
	}
	return &ragEngine{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		segments:    segments,
		generator:   generator,
		k:           k,
	}
}

// Ask answers a question using RAG.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return AskResponse{}, ErrEmptyQuestion
	}

	k := req.K
	if k <= 0 {
		k = e.k
	}

	logger.InfoContext(ctx, "RAG query started", "question_length", len(question), "k", k)

	queryVector, err := e.embedder.EmbedQuery(ctx, question)
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed question", "error", err)
		return AskResponse{}, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := e.vectorStore.Search(ctx, e.collection, queryVector, k)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search vector store", "error", err)
		return AskResponse{}, fmt.Errorf("failed to search vector store: %w", err)
	}
	logger.InfoContext(ctx, "vector search completed", "results_count", len(results), "k_requested", k)

	sources := e.resolve(ctx, logger, results)
	if len(sources) == 0 {
		logger.InfoContext(ctx, "no search results found")
		return AskResponse{Answer: NoRelevantContentAnswer, Sources: []Source{}}, nil
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: buildSystemPrompt(sources)},
		{Role: llm.RoleUser, Content: question},
	}
	logger.DebugContext(ctx, "LLM messages", "system_prompt", messages[0].Content)

	answer, err := e.generator.ChatWithMessages(ctx, messages, llm.ChatParams{Temperature: 0})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return AskResponse{}, fmt.Errorf("failed to get LLM response: %w", err)
	}

	logger.InfoContext(ctx, "RAG query completed", "segments_used", len(sources), "answer_length", len(answer))

	return AskResponse{Answer: answer, Sources: sources}, nil
}

// resolve loads the stored segment for each hit, keeping rank order.
func (e *ragEngine) resolve(ctx context.Context, logger *slog.Logger, results []vectorstore.SearchResult) []Source {
	sources := make([]Source, 0, len(results))
	for i, result := range results {
		seg, err := e.segments.GetByID(ctx, result.PointID)
		if err != nil {
			logger.WarnContext(ctx, "failed to fetch segment", "segment_id", result.PointID, "error", err)
			continue
		}
		sources = append(sources, Source{
			SegmentID:  seg.ID,
			Source:     seg.Source,
			Page:       seg.Page,
			ChunkIndex: seg.ChunkIndex,
			Text:       seg.Text,
			Score:      result.Score,
		})
		logger.DebugContext(ctx, "retrieved segment",
			"rank", i+1,
			"score", result.Score,
			"source", seg.Source,
			"page", seg.Page,
			"chunk_index", seg.ChunkIndex,
		)
	}
	return sources
}

func buildSystemPrompt(sources []Source) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = strings.TrimSpace(s.Text)
	}
	return fmt.Sprintf(systemPromptTemplate, strings.Join(parts, "\n\n"))
}
