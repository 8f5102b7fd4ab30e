package rag

import (
	"context"
	"errors"

	"chatpdf/internal/llm"
)

// ErrEmptyQuestion is returned when the question is blank after trimming.
var ErrEmptyQuestion = errors.New("question is empty")

// NoRelevantContentAnswer is returned without calling the model when retrieval finds nothing.
const NoRelevantContentAnswer = "I couldn't find any relevant content in the documents to answer this question."

//go:generate mockgen -destination=mocks/mock_rag.go -package=mocks chatpdf/internal/rag Embedder,Generator

// Embedder maps a question to a vector with the model used at build time.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator produces the answer from a prepared conversation.
type Generator interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// AskRequest represents a RAG query request.
type AskRequest struct {
	// Question is the user's question to answer.
	Question string `json:"question"`
	// K is the number of segments to retrieve. Zero or less uses the engine default.
	K int `json:"k,omitempty"`
}

// Source is one retrieved segment supplied to the model as evidence.
type Source struct {
	SegmentID  string  `json:"segment_id"`
	Source     string  `json:"source"`
	Page       int     `json:"page"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

// AskResponse represents the response from a RAG query.
type AskResponse struct {
	// Answer is the generated answer from the LLM.
	Answer string `json:"answer"`
	// Sources are exactly the segments given to the model, best match first.
	Sources []Source `json:"sources"`
}
