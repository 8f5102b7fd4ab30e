package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

var configEnvVars = []string{
	"APP_USER", "APP_PASS", "APP_TITLE", "DOCS_DIR",
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "LLM_MODEL",
	"EMBEDDING_BASE_URL", "EMBEDDING_MODEL", "EMBEDDING_DIM",
	"CHUNK_SIZE", "CHUNK_OVERLAP", "CHUNK_SEPARATOR", "RETRIEVAL_K",
	"VECTOR_STORE", "QDRANT_URL", "QDRANT_COLLECTION", "DB_PATH",
	"API_PORT", "LOG_LEVEL", "LOG_FORMAT", "CONFIG_FILE",
}

// clearEnv blanks every variable Load reads and moves into an empty directory
// so no stray .env file is picked up.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				if cfg.AppUser != "admin" || cfg.AppPass != "1234" {
					t.Errorf("credentials = %q/%q, want admin/1234", cfg.AppUser, cfg.AppPass)
				}
				if cfg.DocsDir != "docs" {
					t.Errorf("DocsDir = %q, want docs", cfg.DocsDir)
				}
				if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 100 || cfg.ChunkSeparator != "\n" {
					t.Errorf("chunking = %d/%d/%q, want 1000/100/\\n", cfg.ChunkSize, cfg.ChunkOverlap, cfg.ChunkSeparator)
				}
				if cfg.RetrievalK != 4 {
					t.Errorf("RetrievalK = %d, want 4", cfg.RetrievalK)
				}
				if cfg.LLMModelName != "gpt-3.5-turbo" {
					t.Errorf("LLMModelName = %q, want gpt-3.5-turbo", cfg.LLMModelName)
				}
				if cfg.EmbeddingBaseURL != cfg.LLMBaseURL {
					t.Errorf("EmbeddingBaseURL = %q, want %q", cfg.EmbeddingBaseURL, cfg.LLMBaseURL)
				}
				if cfg.VectorStore != VectorStoreMemory {
					t.Errorf("VectorStore = %q, want memory", cfg.VectorStore)
				}
				if cfg.DBPath != ":memory:" {
					t.Errorf("DBPath = %q, want :memory:", cfg.DBPath)
				}
				if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "text" {
					t.Errorf("logging = %v/%q, want INFO/text", cfg.LogLevel, cfg.LogFormat)
				}
			},
		},
		{
			name:     "missing OPENAI_API_KEY",
			setupEnv: func(t *testing.T) {},
			wantErr:  true,
		},
		{
			name: "overrides from environment",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("APP_USER", "alice")
				t.Setenv("APP_PASS", "secret")
				t.Setenv("CHUNK_SIZE", "500")
				t.Setenv("CHUNK_OVERLAP", "50")
				t.Setenv("CHUNK_SEPARATOR", `\n\n`)
				t.Setenv("RETRIEVAL_K", "6")
				t.Setenv("VECTOR_STORE", "Chromem")
				t.Setenv("LOG_LEVEL", "debug")
				t.Setenv("LOG_FORMAT", "json")
				t.Setenv("EMBEDDING_BASE_URL", "http://localhost:8081/v1")
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				if cfg.AppUser != "alice" || cfg.AppPass != "secret" {
					t.Errorf("credentials = %q/%q, want alice/secret", cfg.AppUser, cfg.AppPass)
				}
				if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 {
					t.Errorf("chunking = %d/%d, want 500/50", cfg.ChunkSize, cfg.ChunkOverlap)
				}
				if cfg.ChunkSeparator != "\n\n" {
					t.Errorf("ChunkSeparator = %q, want %q", cfg.ChunkSeparator, "\n\n")
				}
				if cfg.RetrievalK != 6 {
					t.Errorf("RetrievalK = %d, want 6", cfg.RetrievalK)
				}
				if cfg.VectorStore != VectorStoreChromem {
					t.Errorf("VectorStore = %q, want chromem", cfg.VectorStore)
				}
				if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
					t.Errorf("logging = %v/%q, want DEBUG/json", cfg.LogLevel, cfg.LogFormat)
				}
				if cfg.EmbeddingBaseURL != "http://localhost:8081/v1" {
					t.Errorf("EmbeddingBaseURL = %q", cfg.EmbeddingBaseURL)
				}
			},
		},
		{
			name: "invalid CHUNK_SIZE",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("CHUNK_SIZE", "big")
			},
			wantErr: true,
		},
		{
			name: "overlap not smaller than size",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("CHUNK_SIZE", "100")
				t.Setenv("CHUNK_OVERLAP", "100")
			},
			wantErr: true,
		},
		{
			name: "zero RETRIEVAL_K",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("RETRIEVAL_K", "0")
			},
			wantErr: true,
		},
		{
			name: "unknown VECTOR_STORE",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("VECTOR_STORE", "faiss")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_LEVEL",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("LOG_LEVEL", "loud")
			},
			wantErr: true,
		},
		{
			name: "loads .env from working directory",
			setupEnv: func(t *testing.T) {
				// godotenv never overrides variables that exist, even empty ones.
				_ = os.Unsetenv("OPENAI_API_KEY")
				_ = os.Unsetenv("APP_USER")
				if err := os.WriteFile(".env", []byte("OPENAI_API_KEY=sk-from-file\nAPP_USER=dotenv\n"), 0644); err != nil {
					t.Fatalf("write .env: %v", err)
				}
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				if cfg.LLMAPIKey != "sk-from-file" {
					t.Errorf("LLMAPIKey = %q, want sk-from-file", cfg.LLMAPIKey)
				}
				if cfg.AppUser != "dotenv" {
					t.Errorf("AppUser = %q, want dotenv", cfg.AppUser)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.checkConfig != nil {
				tt.checkConfig(t, cfg)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "chatpdf.yaml")
	content := "app_user: yamluser\nchunk_size: 800\nchunk_overlap: 80\nvector_store: qdrant\nqdrant_collection: contracts\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CHUNK_OVERLAP", "40")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AppUser != "yamluser" {
		t.Errorf("AppUser = %q, want yamluser", cfg.AppUser)
	}
	if cfg.ChunkSize != 800 {
		t.Errorf("ChunkSize = %d, want 800", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 40 {
		t.Errorf("ChunkOverlap = %d, want 40 (env wins over file)", cfg.ChunkOverlap)
	}
	if cfg.VectorStore != VectorStoreQdrant || cfg.QdrantCollection != "contracts" {
		t.Errorf("vector store = %q/%q, want qdrant/contracts", cfg.VectorStore, cfg.QdrantCollection)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for missing config file")
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	dbPath := filepath.Join(t.TempDir(), "nested", "data", "chatpdf.db")
	t.Setenv("DB_PATH", dbPath)

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		defaultValue string
		want         string
	}{
		{"uses value when set", "CHATPDF_TEST_VAR", "value", "default", "value"},
		{"uses default when empty", "CHATPDF_TEST_VAR", "", "default", "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`\n`, "\n"},
		{`\n\n`, "\n\n"},
		{". ", ". "},
		{"\n", "\n"},
		{`\q`, `\q`},
	}
	for _, tt := range tests {
		if got := unescape(tt.in); got != tt.want {
			t.Errorf("unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
