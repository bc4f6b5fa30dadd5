package parser

import (
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer/tokenizer"
)

func TestParse(t *testing.T) {
	analyzer := tokenizer.NewAnalyzer(nil)
	tests := []struct {
		query string
		want  []string
	}{
		{"cat", []string{"cat"}},
		{"Cats", []string{"cat"}},
		{"cat dog", []string{"cat", "dog"}},
		{"dogs, cats & the dog", []string{"dog", "cat"}},
		{"the", []string{}},
		{"to be and have", []string{}},
		{"", []string{}},
		{"   \t ", []string{}},
		{"xyz", []string{"xyz"}},
	}
	for _, tt := range tests {
		plan := Parse(tt.query, analyzer)
		if !reflect.DeepEqual(plan.Stems, tt.want) {
			t.Errorf("Parse(%q).Stems = %#v; want %#v", tt.query, plan.Stems, tt.want)
		}
		if plan.RawQuery != tt.query {
			t.Errorf("Parse(%q).RawQuery = %q", tt.query, plan.RawQuery)
		}
		if plan.Empty() != (len(tt.want) == 0) {
			t.Errorf("Parse(%q).Empty() = %v", tt.query, plan.Empty())
		}
	}
}

func TestParseMatchesIndexAnalysis(t *testing.T) {
	analyzer := tokenizer.NewAnalyzer(nil)
	text := "Running connections of the ponies"
	plan := Parse(text, analyzer)
	if want := analyzer.Analyze(text); !reflect.DeepEqual(plan.Stems, want) {
		t.Fatalf("Parse stems %v differ from Analyze %v", plan.Stems, want)
	}
}
