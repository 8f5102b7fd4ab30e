package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"chatpdf/internal/loader"
)

// ChunkerVersion identifies the chunking rules. Update this when Split changes.
const ChunkerVersion = "v2.0"

// BuildStats contains statistics about an index build.
type BuildStats struct {
	// DocsProcessed is the number of PDF files loaded.
	DocsProcessed int `json:"docs_processed"`
	// DocsWith0Segments counts documents with no extractable text.
	DocsWith0Segments int `json:"docs_with_0_segments"`
	// Pages is the total page count across documents.
	Pages int `json:"pages"`
	// EmptyPages counts pages whose text is blank, typically scanned images.
	EmptyPages int `json:"empty_pages"`
	// Segments is the number of segments indexed.
	Segments int `json:"segments"`
	// OversizedSegments counts single units kept whole despite exceeding the size limit.
	OversizedSegments int `json:"oversized_segments"`
	// SegmentLength summarises segment lengths in runes.
	SegmentLength LengthStats `json:"segment_length"`
	// ChunkerVersion is the version of the chunker used.
	ChunkerVersion string `json:"chunker_version"`
	// IndexVersion is a hash of the chunker parameters and document contents;
	// equal versions mean equal segment sets.
	IndexVersion string `json:"index_version"`
}

// LengthStats contains min, max, mean and 95th percentile of a set of lengths.
type LengthStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

func computeBuildStats(docs []*loader.Document, perDoc map[string][]Span, c *Chunker) *BuildStats {
	stats := &BuildStats{
		DocsProcessed:  len(docs),
		ChunkerVersion: ChunkerVersion,
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s|sep=%q|size=%d|overlap=%d", ChunkerVersion, c.separator, c.size, c.overlap)

	var lengths []int
	for _, doc := range docs {
		fmt.Fprintf(h, "|%s:%s", doc.Name, doc.Hash)
		stats.Pages += len(doc.Pages)
		for _, p := range doc.Pages {
			if isBlank(p.Text) {
				stats.EmptyPages++
			}
		}

		spans := perDoc[doc.Path]
		if len(spans) == 0 {
			stats.DocsWith0Segments++
		}
		for _, s := range spans {
			n := utf8.RuneCountInString(s.Text)
			if n > c.size {
				stats.OversizedSegments++
			}
			lengths = append(lengths, n)
		}
	}

	stats.Segments = len(lengths)
	stats.SegmentLength = computeLengthStats(lengths)
	stats.IndexVersion = hex.EncodeToString(h.Sum(nil))[:16]
	return stats
}

// computeLengthStats computes min, max, mean, and p95 from lengths.
func computeLengthStats(lengths []int) LengthStats {
	if len(lengths) == 0 {
		return LengthStats{}
	}

	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)

	sum := 0
	for _, n := range lengths {
		sum += n
	}
	mean := float64(sum) / float64(len(lengths))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return LengthStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
