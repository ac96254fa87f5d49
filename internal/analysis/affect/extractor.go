// Package affect derives a coarse intensity signal from free chat text via
// lexical matching. It is a heuristic, not a diagnostic: ties resolve to
// neutral, and every input maps to a valid intensity.
package affect

import (
	"strings"
	"unicode"
)

// Intensity bounds and the neutral resting point.
const (
	MinIntensity     = 1
	MaxIntensity     = 10
	NeutralIntensity = 5

	positiveFloor = 7
)

// Lexicon is a pair of closed vocabularies matched against message tokens.
// Sets are order-insensitive and compared case-insensitively.
type Lexicon struct {
	Positive []string
	Negative []string
}

// DefaultLexicon is the stock affect vocabulary.
var DefaultLexicon = Lexicon{
	Positive: []string{"happy", "good", "great", "excited", "confident", "hopeful"},
	Negative: []string{"sad", "depressed", "anxious", "worried", "stressed", "overwhelmed"},
}

// Intensity estimates emotional intensity in [1,10] for the given text.
// Matching is pure: the same text always yields the same intensity, and no
// input (including the empty string) produces an error or an out-of-range
// value.
func (l Lexicon) Intensity(text string) int {
	tokens := tokenize(text)
	positive := countMatches(tokens, l.Positive)
	negative := countMatches(tokens, l.Negative)

	switch {
	case positive > negative:
		return min(MaxIntensity, positiveFloor+positive)
	case negative > positive:
		return max(MinIntensity, NeutralIntensity-negative)
	default:
		return NeutralIntensity
	}
}

// tokenize lowercases and splits on anything that is not a letter or digit,
// so punctuation adjacent to a term still matches.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func countMatches(tokens, terms []string) int {
	set := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		set[strings.ToLower(term)] = struct{}{}
	}

	count := 0
	for _, token := range tokens {
		if _, ok := set[token]; ok {
			count++
		}
	}
	return count
}
