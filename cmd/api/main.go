package main

import (
	"fmt"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"chatpdf/internal/config"
	"chatpdf/internal/http"
	"chatpdf/internal/indexer"
	"chatpdf/internal/llm"
	"chatpdf/internal/loader"
	"chatpdf/internal/rag"
	"chatpdf/internal/service"
	"chatpdf/internal/storage"
	"chatpdf/internal/vectorstore"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// Question answering over the PDF documents in the docs directory.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: chatpdf API
//   description: |
//     Ask questions about a fixed set of PDF documents. Answers are generated
//     by a language model from the most similar document segments.
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	documentRepo := storage.NewDocumentRepo(db)
	segmentRepo := storage.NewSegmentRepo(db)

	vectorStore, closeStore, err := newVectorStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create vector store: %v", err)
	}
	defer closeStore()
	slog.Info("Vector store ready", "backend", cfg.VectorStore, "collection", cfg.QdrantCollection)

	embedder, err := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingDim)
	if err != nil {
		log.Fatalf("Failed to create embeddings client: %v", err)
	}
	llmClient, err := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	chunker, err := indexer.NewChunker(cfg.ChunkSeparator, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunker settings: %v", err)
	}

	pipeline := indexer.NewPipeline(
		loader.NewScanner(cfg.DocsDir),
		documentRepo,
		segmentRepo,
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		chunker,
	)

	ragEngine := rag.NewEngine(
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		segmentRepo,
		llmClient,
		cfg.RetrievalK,
	)

	controller := service.NewController(
		service.Credentials{Username: cfg.AppUser, Password: cfg.AppPass},
		pipeline,
		ragEngine,
	)

	router := http.NewRouter(&http.Deps{
		Controller:  controller,
		VectorStore: vectorStore,
		Collection:  cfg.QdrantCollection,
		Title:       cfg.AppTitle,
		DocsDir:     cfg.DocsDir,
	})

	// The index is built by the first logged-in request, not at startup.
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr, "docs_dir", cfg.DocsDir)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName, "embedding_model", cfg.EmbeddingModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

// newVectorStore creates the configured backend and a function releasing it.
func newVectorStore(cfg *config.Config) (vectorstore.VectorStore, func(), error) {
	switch cfg.VectorStore {
	case config.VectorStoreMemory:
		return vectorstore.NewMemoryStore(), func() {}, nil
	case config.VectorStoreChromem:
		return vectorstore.NewChromemStore(), func() {}, nil
	case config.VectorStoreQdrant:
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			_ = store.Close()
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown vector store %q", cfg.VectorStore)
	}
}
