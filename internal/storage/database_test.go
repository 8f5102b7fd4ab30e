package storage

import (
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	tests := []struct {
		name         string
		path         string
		wantErr      bool
		wantMaxConns int
	}{
		{
			name:         "file path",
			path:         dbPath,
			wantMaxConns: 25,
		},
		{
			name:         "in memory",
			path:         MemoryPath,
			wantMaxConns: 1,
		},
		{
			name:    "invalid path",
			path:    "/invalid/path/to/db.db",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := New(tt.path)

			if tt.wantErr {
				if err == nil {
					t.Errorf("New() expected error, got nil")
				}
				if db != nil {
					_ = db.Close()
				}
				return
			}

			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			defer func() {
				_ = db.Close()
			}()

			if got := db.Stats().MaxOpenConnections; got != tt.wantMaxConns {
				t.Errorf("New() MaxOpenConnections = %v, want %v", got, tt.wantMaxConns)
			}
		})
	}
}

func TestNew_MemoryDatabasesAreIsolated(t *testing.T) {
	a := newTestDB(t)
	b := newTestDB(t)

	if _, err := a.Exec("INSERT INTO documents (id, name, path, hash, pages) VALUES ('d1', 'a.pdf', '/a.pdf', 'h', 1)"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var n int
	if err := b.QueryRow("SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("second memory database sees %d documents, want 0", n)
	}
}

func TestMigrate(t *testing.T) {
	db := newTestDB(t)

	// Running twice must be harmless.
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() second run error = %v", err)
	}

	for _, table := range []string{"documents", "segments"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}
