package tokenizer

import (
	"iter"

	"github.com/kljensen/snowball/english"
)

// Stem reduces token to its Snowball English stem. The token must already
// be lower-case. Snowball's own stop-word list is ignored: which words are
// dropped is decided by StopWords alone.
func Stem(token string) string {
	stemmed := english.Stem(token, true)
	if stemmed == "" {
		return token
	}
	return stemmed
}

// StemAll maps Stem over tokens.
func StemAll(tokens iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for tok := range tokens {
			if !yield(Stem(tok)) {
				return
			}
		}
	}
}
