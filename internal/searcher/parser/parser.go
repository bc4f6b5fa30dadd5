package parser

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer/tokenizer"
)

// QueryPlan is an analyzed query. Stems keeps first-occurrence order with
// duplicates removed; a repeated word cannot change an intersection.
type QueryPlan struct {
	Stems    []string
	RawQuery string
}

// Parse runs query through analyzer, the same pipeline the index was built
// with. A query that is blank or made only of stop-words yields a plan with
// no stems.
func Parse(query string, analyzer *tokenizer.Analyzer) *QueryPlan {
	plan := &QueryPlan{
		Stems:    make([]string, 0),
		RawQuery: query,
	}
	if strings.TrimSpace(query) == "" {
		return plan
	}
	seen := make(map[string]struct{})
	for stem := range analyzer.Terms(query) {
		if _, dup := seen[stem]; dup {
			continue
		}
		seen[stem] = struct{}{}
		plan.Stems = append(plan.Stems, stem)
	}
	return plan
}

// Empty reports whether the query analyzed to no stems.
func (p *QueryPlan) Empty() bool {
	return len(p.Stems) == 0
}
