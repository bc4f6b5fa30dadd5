package tokenizer

import "iter"

// Analyzer is the single text-to-terms pipeline shared by indexing and
// querying: Tokens, then StopWords.Filter, then Stem. Filtering runs before
// stemming so a stop-word cannot change shape and slip through.
type Analyzer struct {
	stopWords StopWords
}

// NewAnalyzer returns an Analyzer that drops stopWords. A nil set falls back
// to DefaultStopWords.
func NewAnalyzer(stopWords StopWords) *Analyzer {
	if stopWords == nil {
		stopWords = DefaultStopWords()
	}
	return &Analyzer{stopWords: stopWords}
}

// Terms returns the lazy stem sequence for text.
func (a *Analyzer) Terms(text string) iter.Seq[string] {
	return StemAll(a.stopWords.Filter(Tokens(text)))
}

// Analyze collects Terms into a slice. The result is never nil.
func (a *Analyzer) Analyze(text string) []string {
	terms := make([]string, 0, 8)
	for term := range a.Terms(text) {
		terms = append(terms, term)
	}
	return terms
}
