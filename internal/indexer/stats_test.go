package indexer

import (
	"testing"

	"chatpdf/internal/loader"
)

func TestComputeLengthStats(t *testing.T) {
	tests := []struct {
		name    string
		lengths []int
		want    LengthStats
	}{
		{
			name:    "empty",
			lengths: nil,
			want:    LengthStats{},
		},
		{
			name:    "single",
			lengths: []int{42},
			want:    LengthStats{Min: 42, Max: 42, Mean: 42, P95: 42},
		},
		{
			name:    "unsorted",
			lengths: []int{30, 10, 20},
			want:    LengthStats{Min: 10, Max: 30, Mean: 20, P95: 30},
		},
		{
			name:    "twenty values",
			lengths: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 100},
			want:    LengthStats{Min: 1, Max: 100, Mean: 14.5, P95: 19},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeLengthStats(tt.lengths); got != tt.want {
				t.Errorf("computeLengthStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeBuildStats(t *testing.T) {
	c := mustChunker(t, "\n", 10, 0)
	docs := []*loader.Document{
		{Path: "/docs/a.pdf", Name: "a.pdf", Hash: "h1", Pages: []loader.Page{
			{Number: 1, Text: "aaaa\nbbbb\n"},
			{Number: 2, Text: "   \n"},
		}},
		{Path: "/docs/b.pdf", Name: "b.pdf", Hash: "h2", Pages: []loader.Page{
			{Number: 1, Text: ""},
		}},
	}
	spans := map[string][]Span{
		"/docs/a.pdf": c.Split(docs[0].Pages[0].Text),
	}

	stats := computeBuildStats(docs, spans, c)

	if stats.DocsProcessed != 2 {
		t.Errorf("DocsProcessed = %d, want 2", stats.DocsProcessed)
	}
	if stats.DocsWith0Segments != 1 {
		t.Errorf("DocsWith0Segments = %d, want 1", stats.DocsWith0Segments)
	}
	if stats.Pages != 3 || stats.EmptyPages != 2 {
		t.Errorf("Pages/EmptyPages = %d/%d, want 3/2", stats.Pages, stats.EmptyPages)
	}
	if stats.Segments != 1 {
		t.Errorf("Segments = %d, want 1", stats.Segments)
	}
	if stats.ChunkerVersion != ChunkerVersion {
		t.Errorf("ChunkerVersion = %q, want %q", stats.ChunkerVersion, ChunkerVersion)
	}
	if len(stats.IndexVersion) != 16 {
		t.Errorf("IndexVersion = %q, want 16 hex chars", stats.IndexVersion)
	}

	// Same inputs give the same version; a changed document does not.
	again := computeBuildStats(docs, spans, c)
	if again.IndexVersion != stats.IndexVersion {
		t.Errorf("IndexVersion not stable: %q vs %q", again.IndexVersion, stats.IndexVersion)
	}
	docs[1].Hash = "h3"
	if changed := computeBuildStats(docs, spans, c); changed.IndexVersion == stats.IndexVersion {
		t.Error("IndexVersion unchanged after document hash changed")
	}
}
