package testutil

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// HashEmbedder is a deterministic bag-of-words embedder for tests. Each
// lower-cased word is hashed into one of Dim buckets, so texts sharing words
// have a high cosine similarity.
type HashEmbedder struct {
	Dim   int
	Calls int // number of EmbedTexts/EmbedQuery calls
	Err   error
}

// EmbedTexts embeds each text.
func (e *HashEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.Calls++
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

// EmbedQuery embeds a single question.
func (e *HashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.Calls++
	if e.Err != nil {
		return nil, e.Err
	}
	return e.vector(text), nil
}

func (e *HashEmbedder) vector(text string) []float32 {
	dim := e.Dim
	if dim <= 0 {
		dim = 64
	}
	v := make([]float32, dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%uint32(dim)]++
	}
	// Keep empty texts off the zero vector.
	v[0] += 0.01
	return v
}
