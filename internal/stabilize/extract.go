package stabilize

import (
	"regexp"
	"strings"
)

// tokenPair matches two non-whitespace runs separated by whitespace.
var tokenPair = regexp.MustCompile(`\S+\s+\S+`)

// Match is the result of extracting a number from one line of text.
type Match struct {
	// Start and End are byte offsets of the token pair in the original text.
	Start int `json:"start"`
	End   int `json:"end"`

	// Value is built from the whole text, not just the span: every character
	// is normalized and only digits and spaces are kept.
	Value string `json:"value"`
}

// Span returns the matched substring of text.
func (m Match) Span(text string) string {
	return text[m.Start:m.End]
}

// CoversWhole reports whether the span is the entire text.
func (m Match) CoversWhole(text string) bool {
	return m.Start == 0 && m.End == len(text)
}

// Extractor pulls digit strings out of recognized text.
type Extractor struct {
	normalizer *Normalizer
	allowed    Alphabet
}

// NewExtractor returns an Extractor normalizing into DigitsAndSpace.
func NewExtractor(normalizer *Normalizer) *Extractor {
	if normalizer == nil {
		normalizer = NewNormalizer(DefaultMaxHops)
	}
	return &Extractor{normalizer: normalizer, allowed: DigitsAndSpace}
}

// Extract finds a number in text.
//
// Text without a token pair yields false, as does text where no character
// survives normalization. The returned span locates the first token pair in
// the original text and is meant for bounding-box lookup only; the value is
// sanitized from the entire text.
func (e *Extractor) Extract(text string) (Match, bool) {
	loc := tokenPair.FindStringIndex(text)
	if loc == nil {
		return Match{}, false
	}

	var b strings.Builder
	for _, r := range text {
		r = e.normalizer.Normalize(r, e.allowed)
		if e.allowed.Contains(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return Match{}, false
	}

	return Match{Start: loc[0], End: loc[1], Value: b.String()}, true
}
