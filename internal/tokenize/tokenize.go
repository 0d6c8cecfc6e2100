// Package tokenize splits snippet text into words and reduces words to
// their English stems. Everything here is stateless.
package tokenize

import (
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"
)

const punctuation = `.,!?"[]()`

// SplitWords trims text, splits it on runs of whitespace and strips
// punctuation from each piece. Blank input yields a single empty token.
func SplitWords(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []string{""}
	}
	pieces := strings.Fields(trimmed)
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		out = append(out, StripPunctuation(piece))
	}
	return out
}

// StripPunctuation removes at most one punctuation character from each
// end of word.
func StripPunctuation(word string) string {
	if r, size := utf8.DecodeRuneInString(word); size > 0 && strings.ContainsRune(punctuation, r) {
		word = word[size:]
	}
	if r, size := utf8.DecodeLastRuneInString(word); size > 0 && strings.ContainsRune(punctuation, r) {
		word = word[:len(word)-size]
	}
	return word
}

// Stem lower-cases word and applies the Snowball English stemmer.
func Stem(word string) string {
	return english.Stem(strings.ToLower(word), true)
}

// Terms returns the distinct non-empty stems of text in first-seen order.
func Terms(text string) []string {
	words := SplitWords(text)
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		term := Stem(word)
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
