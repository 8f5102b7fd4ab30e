package indexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize      = 1000
	DefaultChunkOverlap   = 100
	DefaultChunkSeparator = "\n"
)

// Span is one segment of a text: Text == text[Start:End]. The first Overlap
// bytes of Text repeat the end of the previous span.
type Span struct {
	Text    string
	Start   int
	End     int
	Overlap int
}

// Body returns the part of the span not shared with its predecessor.
// Concatenating the bodies of all spans of a text yields the text.
func (s Span) Body() string {
	return s.Text[s.Overlap:]
}

// Chunker splits text into overlapping segments of bounded length.
// Lengths are counted in runes.
type Chunker struct {
	separator string
	size      int
	overlap   int
}

// NewChunker creates a chunker. The separator marks the boundaries segments
// may be cut at; an empty separator allows cuts between any two runes.
func NewChunker(separator string, size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than 0")
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be between 0 and %d, got %d", size-1, overlap)
	}
	return &Chunker{separator: separator, size: size, overlap: overlap}, nil
}

// unit is a run of text between two cut points, separator included.
type unit struct {
	start, end int
	runes      int
}

func (c *Chunker) units(text string) []unit {
	var units []unit
	if c.separator == "" {
		for i, r := range text {
			units = append(units, unit{start: i, end: i + utf8.RuneLen(r), runes: 1})
		}
		return units
	}

	pos := 0
	for pos < len(text) {
		end := len(text)
		if i := strings.Index(text[pos:], c.separator); i >= 0 {
			end = pos + i + len(c.separator)
		}
		units = append(units, unit{start: pos, end: end, runes: utf8.RuneCountInString(text[pos:end])})
		pos = end
	}
	return units
}

// Split cuts text into spans. Units are packed greedily up to the size
// limit; each new span then starts with the trailing units of the previous
// one, up to the overlap limit. A unit longer than the size limit becomes a
// span of its own. Overlaps never extend into an earlier overlap, so every
// overlapped byte appears in exactly two spans.
func (c *Chunker) Split(text string) []Span {
	units := c.units(text)
	if len(units) == 0 {
		return nil
	}

	var spans []Span
	first := 0  // first unit of the current span
	fresh := 0  // first unit not yet emitted; units[first:fresh] are the overlap
	length := 0 // runes in units[first:i]

	emit := func(last int) {
		spans = append(spans, Span{
			Text:    text[units[first].start:units[last-1].end],
			Start:   units[first].start,
			End:     units[last-1].end,
			Overlap: units[fresh].start - units[first].start,
		})
	}

	for i, u := range units {
		if i > fresh && length+u.runes > c.size {
			emit(i)

			// Walk back from i collecting whole units for the next overlap.
			j, carry := i, 0
			for j-1 >= fresh {
				prev := units[j-1].runes
				if carry+prev > c.overlap || carry+prev+u.runes > c.size {
					break
				}
				carry += prev
				j--
			}
			first, fresh, length = j, i, carry
		}
		length += u.runes
	}
	emit(len(units))

	return spans
}
