package indexer

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"
)

func mustChunker(t *testing.T, sep string, size, overlap int) *Chunker {
	t.Helper()
	c, err := NewChunker(sep, size, overlap)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}
	return c
}

func TestNewChunker(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{"defaults", DefaultChunkSize, DefaultChunkOverlap, false},
		{"no overlap", 10, 0, false},
		{"zero size", 0, 0, true},
		{"overlap equals size", 10, 10, true},
		{"negative overlap", 10, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker("\n", tt.size, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewChunker() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestChunker_Split(t *testing.T) {
	tests := []struct {
		name    string
		sep     string
		size    int
		overlap int
		text    string
		want    []Span
	}{
		{
			name: "empty text",
			sep:  "\n", size: 10, overlap: 4,
			text: "",
			want: nil,
		},
		{
			name: "fits in one span",
			sep:  "\n", size: 1000, overlap: 100,
			text: "Clause 1. Payment due in 30 days.\nClause 2. Termination requires 60 days notice.",
			want: []Span{
				{Text: "Clause 1. Payment due in 30 days.\nClause 2. Termination requires 60 days notice.", Start: 0, End: 80},
			},
		},
		{
			name: "overlapping lines",
			sep:  "\n", size: 10, overlap: 4,
			text: "aaa\nbbb\nccc\nddd",
			want: []Span{
				{Text: "aaa\nbbb\n", Start: 0, End: 8},
				{Text: "bbb\nccc\n", Start: 4, End: 12, Overlap: 4},
				{Text: "ccc\nddd", Start: 8, End: 15, Overlap: 4},
			},
		},
		{
			name: "oversized unit kept whole",
			sep:  " ", size: 5, overlap: 2,
			text: "ab toolongword cd",
			want: []Span{
				{Text: "ab ", Start: 0, End: 3},
				{Text: "toolongword ", Start: 3, End: 15},
				{Text: "cd", Start: 15, End: 17},
			},
		},
		{
			name: "empty separator splits runes",
			sep:  "", size: 4, overlap: 1,
			text: "abcdef",
			want: []Span{
				{Text: "abcd", Start: 0, End: 4},
				{Text: "def", Start: 3, End: 6, Overlap: 1},
			},
		},
		{
			name: "no overlap",
			sep:  "\n", size: 8, overlap: 0,
			text: "aaa\nbbb\nccc\n",
			want: []Span{
				{Text: "aaa\nbbb\n", Start: 0, End: 8},
				{Text: "ccc\n", Start: 8, End: 12},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustChunker(t, tt.sep, tt.size, tt.overlap).Split(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Split() returned %d spans %q, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Split()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// randomText builds lines of random words; some lines are much longer than
// any chunk size used below.
func randomText(r *rand.Rand, lines int) string {
	words := []string{"clause", "payment", "notice", "days", "termination", "contrato", "rescisão", "prazo", "§", "30", "60"}
	var b strings.Builder
	for i := 0; i < lines; i++ {
		n := 1 + r.Intn(12)
		if r.Intn(15) == 0 {
			n = 80
		}
		for j := 0; j < n; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(words[r.Intn(len(words))])
		}
		if r.Intn(10) == 0 {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func TestChunker_SplitProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	configs := []struct {
		sep           string
		size, overlap int
	}{
		{"\n", 1000, 100},
		{"\n", 120, 30},
		{"\n", 50, 49},
		{" ", 40, 10},
		{"", 25, 5},
	}

	for _, cfg := range configs {
		c := mustChunker(t, cfg.sep, cfg.size, cfg.overlap)
		for trial := 0; trial < 25; trial++ {
			text := randomText(r, 1+r.Intn(60))
			spans := c.Split(text)

			var rebuilt strings.Builder
			for i, s := range spans {
				if text[s.Start:s.End] != s.Text {
					t.Fatalf("span %d text does not match offsets", i)
				}
				rebuilt.WriteString(s.Body())

				if n := utf8.RuneCountInString(s.Text); n > cfg.size {
					// Only a single unit may exceed the limit.
					idx := strings.Index(s.Text, cfg.sep)
					single := s.Overlap == 0 && cfg.sep != "" && (idx < 0 || idx == len(s.Text)-len(cfg.sep))
					if !single {
						t.Fatalf("sep=%q size=%d: span %d has %d runes and is not a single unit: %q", cfg.sep, cfg.size, i, n, s.Text)
					}
				}

				if i == 0 {
					if s.Overlap != 0 || s.Start != 0 {
						t.Fatalf("first span starts at %d with overlap %d", s.Start, s.Overlap)
					}
					continue
				}
				prev := spans[i-1]
				if utf8.RuneCountInString(s.Text[:s.Overlap]) > cfg.overlap {
					t.Fatalf("span %d overlap %q longer than %d runes", i, s.Text[:s.Overlap], cfg.overlap)
				}
				if prev.End != s.Start+s.Overlap {
					t.Fatalf("span %d body does not follow span %d: prev.End=%d start+overlap=%d", i, i-1, prev.End, s.Start+s.Overlap)
				}
				// The overlap lies inside the previous span's own body, so no
				// byte is shared by more than two spans.
				if s.Start < prev.Start+prev.Overlap {
					t.Fatalf("span %d overlap reaches into span %d overlap", i, i-1)
				}
			}

			if rebuilt.String() != text {
				t.Fatalf("sep=%q size=%d overlap=%d: bodies do not reconstruct the text", cfg.sep, cfg.size, cfg.overlap)
			}
		}
	}
}

func TestChunker_SplitDeterministic(t *testing.T) {
	text := randomText(rand.New(rand.NewSource(7)), 40)
	c := mustChunker(t, "\n", 200, 40)

	a, b := c.Split(text), c.Split(text)
	if len(a) != len(b) {
		t.Fatalf("Split() lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Split()[%d] differs between runs", i)
		}
	}
}
