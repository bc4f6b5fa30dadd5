package tokenizer

import "iter"

// StopWords is a set of tokens dropped before stemming.
type StopWords map[string]struct{}

// DefaultStopWords returns the ten high-frequency English words removed
// from both documents and queries.
func DefaultStopWords() StopWords {
	return NewStopWords("a", "and", "be", "have", "i", "in", "of", "that", "the", "to")
}

// NewStopWords builds a StopWords set from words. Words are expected to be
// lower-case already.
func NewStopWords(words ...string) StopWords {
	sw := make(StopWords, len(words))
	for _, w := range words {
		sw[w] = struct{}{}
	}
	return sw
}

// Contains reports whether token is a stop-word.
func (sw StopWords) Contains(token string) bool {
	_, ok := sw[token]
	return ok
}

// Filter drops stop-words from tokens, preserving order and duplicates.
func (sw StopWords) Filter(tokens iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for tok := range tokens {
			if sw.Contains(tok) {
				continue
			}
			if !yield(tok) {
				return
			}
		}
	}
}
