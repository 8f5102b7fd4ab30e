package storage

import "time"

// DocumentRecord is a loaded PDF file.
type DocumentRecord struct {
	ID        string // UUID
	Name      string // File name
	Path      string // Absolute path
	Hash      string // SHA256 hex string of file content
	Pages     int
	CreatedAt time.Time
}

// SegmentRecord is one indexed slice of a page, addressable by the vector
// store point with the same ID.
type SegmentRecord struct {
	ID         string // UUID (same as vector point ID)
	DocumentID string
	Source     string // Document name, filled on reads
	Page       int    // 1-based
	ChunkIndex int    // Index within the page
	Seq        int    // Global insertion order
	Start      int    // Byte offset in page text
	End        int
	Overlap    int // Bytes shared with the previous segment of the page
	Text       string
}
