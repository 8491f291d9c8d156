// Package grapheme segments and compares user-perceived characters.
//
// Every grid cell in this system holds one grapheme cluster, never one code
// unit and never one rune in isolation — a Devanagari consonant+nukta+matra
// sequence is one cell, just like a single Latin letter is.
package grapheme

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidAnswer is returned when an answer's graphemes contain a brace
// character, which would corrupt the {…} multi-codepoint encoding.
var ErrInvalidAnswer = errors.New("grapheme: answer contains a brace character")

// zeroWidth lists the zero-width code points stripped by CleanAnswerText:
// U+200B (zero width space), U+200C (ZWNJ), U+200D (ZWJ), U+FEFF (BOM).
var zeroWidth = []rune{'\u200B', '\u200C', '\u200D', '\uFEFF'}

// punctuation is the answer-cleaning punctuation set from spec.md §4.1.
const punctuation = `.,!?;:'"()[]{}-–—`

// ToGraphemes NFC-normalizes text and segments it into grapheme clusters.
// The locale parameter is accepted for interface fidelity with callers that
// carry a BCP-47 tag end to end; grapheme-cluster breaking per Unicode
// Annex #29 is not locale-tailored in this implementation (uniseg applies
// the default, locale-independent algorithm). On top of uniseg's clusters,
// a cluster ending in the Devanagari virama is joined with a following
// Devanagari consonant, so a conjunct such as "क्र" is one grapheme.
func ToGraphemes(text, locale string) []string {
	normalized := norm.NFC.String(text)
	if normalized == "" {
		return nil
	}

	graphemes := make([]string, 0, utf8.RuneCountInString(normalized))
	g := uniseg.NewGraphemes(normalized)
	for g.Next() {
		cluster := g.Str()
		if n := len(graphemes); n > 0 {
			last, _ := utf8.DecodeLastRuneInString(strings.TrimSuffix(graphemes[n-1], "‍"))
			first, _ := utf8.DecodeRuneInString(cluster)
			isConsonant := (first >= 0x0915 && first <= 0x0939) || (first >= 0x0958 && first <= 0x095F) || (first >= 0x0978 && first <= 0x097F)
			if last == '्' && isConsonant {
				graphemes[n-1] += cluster
				continue
			}
		}
		graphemes = append(graphemes, cluster)
	}
	return graphemes
}

// GraphemeLength returns the number of grapheme clusters in text.
func GraphemeLength(text, locale string) int {
	return len(ToGraphemes(text, locale))
}

// GraphemeAt returns the grapheme cluster at index i, or "" and false if i
// is out of range.
func GraphemeAt(text string, i int, locale string) (string, bool) {
	graphemes := ToGraphemes(text, locale)
	if i < 0 || i >= len(graphemes) {
		return "", false
	}
	return graphemes[i], true
}

// CodepointCount returns the number of Unicode code points in a grapheme.
func CodepointCount(g string) int {
	return utf8.RuneCountInString(g)
}

// IsMultiCodepoint reports whether g is composed of more than one code
// point.
func IsMultiCodepoint(g string) bool {
	return CodepointCount(g) > 1
}

// EncodeGrapheme returns g unchanged when it is a single code point, or
// wrapped in braces ("{"+g+"}") when it is multi-codepoint, so the editor
// export alphabet can tell cell boundaries apart from code-point
// boundaries.
func EncodeGrapheme(g string) string {
	if IsMultiCodepoint(g) {
		return "{" + g + "}"
	}
	return g
}

// EncodeAnswer NFC-normalizes, segments, and encodes every grapheme of
// text in order.
func EncodeAnswer(text, locale string) string {
	var b strings.Builder
	for _, g := range ToGraphemes(text, locale) {
		b.WriteString(EncodeGrapheme(g))
	}
	return b.String()
}

// ValidateGraphemes rejects answers whose graphemes contain a brace
// character — those would be indistinguishable from the {…} wrapper that
// marks multi-codepoint graphemes in the export alphabet (spec.md §9 open
// question).
func ValidateGraphemes(graphemes []string) error {
	for _, g := range graphemes {
		if strings.ContainsAny(g, "{}") {
			return ErrInvalidAnswer
		}
	}
	return nil
}

// DecodeAnswer reverses EncodeGrapheme/EncodeAnswer: it unwraps {…} regions
// and splits the remainder into individual graphemes, recovering the
// sequence ToGraphemes(text, locale) would have produced.
func DecodeAnswer(encoded string) []string {
	var graphemes []string
	runes := []rune(encoded)
	for i := 0; i < len(runes); {
		if runes[i] == '{' {
			j := i + 1
			for j < len(runes) && runes[j] != '}' {
				j++
			}
			if j < len(runes) {
				graphemes = append(graphemes, string(runes[i+1:j]))
				i = j + 1
				continue
			}
		}
		graphemes = append(graphemes, string(runes[i]))
		i++
	}
	return graphemes
}

// CompareGraphemes reports whether a and b are the same grapheme after NFC
// normalization.
func CompareGraphemes(a, b string) bool {
	return norm.NFC.String(a) == norm.NFC.String(b)
}

// Pair is an index pair returned by FindCommonGraphemes.
type Pair struct {
	I, J int
}

// FindCommonGraphemes returns every (i,j) such that A[i] and B[j] compare
// equal, ordered by i ascending then j ascending.
func FindCommonGraphemes(a, b []string) []Pair {
	var pairs []Pair
	for i, ga := range a {
		for j, gb := range b {
			if CompareGraphemes(ga, gb) {
				pairs = append(pairs, Pair{I: i, J: j})
			}
		}
	}
	return pairs
}

// NFC normalizes free-form text (e.g. clue strings) without stripping
// whitespace or punctuation — unlike CleanAnswerText, which is answer-only.
func NFC(text string) string {
	return norm.NFC.String(text)
}

// CleanAnswerText strips ASCII whitespace, zero-width characters, and the
// standard punctuation set from text, then NFC-normalizes the remainder.
func CleanAnswerText(text string) string {
	var b strings.Builder
	for _, r := range text {
		if isZeroWidth(r) || strings.ContainsRune(punctuation, r) {
			continue
		}
		if r <= 0x7f && isASCIISpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

func isZeroWidth(r rune) bool {
	for _, z := range zeroWidth {
		if r == z {
			return true
		}
	}
	return false
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}
