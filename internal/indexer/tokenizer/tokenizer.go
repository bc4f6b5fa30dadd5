// Package tokenizer turns raw text into index terms. Text is split on
// anything that is not an ASCII letter or digit, lower-cased, stripped of
// stop-words and reduced to its Snowball English stem.
package tokenizer

import (
	"iter"
	"strings"
)

// Tokens returns a lazy sequence over the lower-cased ASCII alphanumeric
// runs of text. Every other byte, including all bytes of multi-byte UTF-8
// characters, is a delimiter. The sequence can be ranged over any number of
// times.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		for i := 0; i < len(text); i++ {
			if isAlnum(text[i]) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(strings.ToLower(text[start:i])) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(strings.ToLower(text[start:]))
		}
	}
}

// Tokenize collects Tokens into a slice.
func Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/6)
	for tok := range Tokens(text) {
		tokens = append(tokens, tok)
	}
	return tokens
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
