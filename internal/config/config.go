package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Vector store backends accepted by VECTOR_STORE.
const (
	VectorStoreMemory  = "memory"
	VectorStoreChromem = "chromem"
	VectorStoreQdrant  = "qdrant"
)

// Config holds all configuration for the application.
type Config struct {
	AppUser  string
	AppPass  string
	AppTitle string
	DocsDir  string

	LLMBaseURL         string
	LLMAPIKey          string
	LLMModelName       string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingDim       int

	ChunkSize      int
	ChunkOverlap   int
	ChunkSeparator string
	RetrievalK     int

	VectorStore      string
	QdrantURL        string
	QdrantCollection string
	DBPath           string

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// fileConfig mirrors the environment variables for the optional CONFIG_FILE.
// Unset keys fall through to the built-in defaults.
type fileConfig struct {
	AppUser            string `yaml:"app_user"`
	AppPass            string `yaml:"app_pass"`
	AppTitle           string `yaml:"app_title"`
	DocsDir            string `yaml:"docs_dir"`
	LLMBaseURL         string `yaml:"openai_base_url"`
	LLMModelName       string `yaml:"llm_model"`
	EmbeddingBaseURL   string `yaml:"embedding_base_url"`
	EmbeddingModelName string `yaml:"embedding_model"`
	EmbeddingDim       string `yaml:"embedding_dim"`
	ChunkSize          string `yaml:"chunk_size"`
	ChunkOverlap       string `yaml:"chunk_overlap"`
	ChunkSeparator     string `yaml:"chunk_separator"`
	RetrievalK         string `yaml:"retrieval_k"`
	VectorStore        string `yaml:"vector_store"`
	QdrantURL          string `yaml:"qdrant_url"`
	QdrantCollection   string `yaml:"qdrant_collection"`
	DBPath             string `yaml:"db_path"`
	APIPort            string `yaml:"api_port"`
	LogLevel           string `yaml:"log_level"`
	LogFormat          string `yaml:"log_format"`
}

// Load reads configuration from environment variables and returns a Config struct.
// Values come from, in increasing precedence: built-in defaults, the YAML file
// named by CONFIG_FILE, a .env file, and the process environment.
// The .env file is looked up in the current directory and up to five parents;
// variables already set in the environment are never overwritten by it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	var fc fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		fc = *loaded
	}

	llmBaseURL := getEnv("OPENAI_BASE_URL", or(fc.LLMBaseURL, "https://api.openai.com/v1"))

	cfg := &Config{
		AppUser:            getEnv("APP_USER", or(fc.AppUser, "admin")),
		AppPass:            getEnv("APP_PASS", or(fc.AppPass, "1234")),
		AppTitle:           getEnv("APP_TITLE", or(fc.AppTitle, "Chat de auxílio jurídico")),
		DocsDir:            getEnv("DOCS_DIR", or(fc.DocsDir, "docs")),
		LLMBaseURL:         llmBaseURL,
		LLMAPIKey:          os.Getenv("OPENAI_API_KEY"),
		LLMModelName:       getEnv("LLM_MODEL", or(fc.LLMModelName, "gpt-3.5-turbo")),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", or(fc.EmbeddingBaseURL, llmBaseURL)),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL", or(fc.EmbeddingModelName, "text-embedding-ada-002")),
		ChunkSeparator:     unescape(getEnv("CHUNK_SEPARATOR", or(fc.ChunkSeparator, "\n"))),
		VectorStore:        strings.ToLower(getEnv("VECTOR_STORE", or(fc.VectorStore, VectorStoreMemory))),
		QdrantURL:          getEnv("QDRANT_URL", or(fc.QdrantURL, "http://localhost:6333")),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", or(fc.QdrantCollection, "chatpdf_segments")),
		DBPath:             getEnv("DB_PATH", or(fc.DBPath, ":memory:")),
		APIPort:            getEnv("API_PORT", or(fc.APIPort, "8501")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", or(fc.LogFormat, "text"))),
	}

	ints := []struct {
		key  string
		file string
		def  string
		dst  *int
	}{
		{"EMBEDDING_DIM", fc.EmbeddingDim, "0", &cfg.EmbeddingDim},
		{"CHUNK_SIZE", fc.ChunkSize, "1000", &cfg.ChunkSize},
		{"CHUNK_OVERLAP", fc.ChunkOverlap, "100", &cfg.ChunkOverlap},
		{"RETRIEVAL_K", fc.RetrievalK, "4", &cfg.RetrievalK},
	}
	for _, iv := range ints {
		n, err := strconv.Atoi(getEnv(iv.key, or(iv.file, iv.def)))
		if err != nil {
			return nil, fmt.Errorf("%s must be a valid integer: %w", iv.key, err)
		}
		*iv.dst = n
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", or(fc.LogLevel, "info")))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// Validate checks field combinations Load cannot express through defaults.
func (c *Config) Validate() error {
	if c.LLMAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be between 0 and CHUNK_SIZE-1")
	}
	if c.RetrievalK <= 0 {
		return fmt.Errorf("RETRIEVAL_K must be greater than 0")
	}
	if c.EmbeddingDim < 0 {
		return fmt.Errorf("EMBEDDING_DIM must not be negative")
	}
	switch c.VectorStore {
	case VectorStoreMemory, VectorStoreChromem, VectorStoreQdrant:
	default:
		return fmt.Errorf("VECTOR_STORE must be one of %s, %s, %s", VectorStoreMemory, VectorStoreChromem, VectorStoreQdrant)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json")
	}
	return nil
}

func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// unescape turns "\n"-style escapes written in env files into the characters
// they name. Strings that are not valid Go escapes are returned unchanged.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return s
}
