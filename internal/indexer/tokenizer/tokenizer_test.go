package tokenizer

import (
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"only delimiters", " ,.;--  \t\n", []string{}},
		{"lowercases", "The Cat SAT", []string{"the", "cat", "sat"}},
		{"collapses delimiters", "cat,,,  dog--ran", []string{"cat", "dog", "ran"}},
		{"leading and trailing", "...cat!", []string{"cat"}},
		{"digits kept", "route 66 and A1", []string{"route", "66", "and", "a1"}},
		{"non-ascii letters split", "café naïve", []string{"caf", "na", "ve"}},
		{"other scripts dropped", "日本語 text", []string{"text"}},
		{"apostrophe splits", "don't", []string{"don", "t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokenize(%q) = %#v; want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokensAreNormalized(t *testing.T) {
	inputs := []string{
		"Hello, World! 42 times",
		"a b—c",
		"MiXeD-CaSe_and.Dots",
		strings.Repeat("x ", 100),
		"\xff\xfe broken utf8 \xc3",
	}
	for _, in := range inputs {
		for tok := range Tokens(in) {
			if tok == "" {
				t.Fatalf("Tokens(%q) produced an empty token", in)
			}
			for i := 0; i < len(tok); i++ {
				c := tok[i]
				if !(('a' <= c && c <= 'z') || ('0' <= c && c <= '9')) {
					t.Fatalf("Tokens(%q) produced %q with byte %q", in, tok, c)
				}
			}
		}
	}
}

func TestTokensRestartable(t *testing.T) {
	seq := Tokens("one two three")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second pass = %v; want %v", second, first)
	}
}

func TestTokensEarlyStop(t *testing.T) {
	var got []string
	for tok := range Tokens("one two three") {
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}
	if want := []string{"one", "two"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestStopWordsFilter(t *testing.T) {
	sw := DefaultStopWords()
	tokens := []string{"the", "cat", "and", "the", "hat", "cat", "i", "to"}
	got := slices.Collect(sw.Filter(slices.Values(tokens)))
	want := []string{"cat", "hat", "cat"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter = %v; want %v", got, want)
	}

	again := slices.Collect(sw.Filter(slices.Values(got)))
	if !reflect.DeepEqual(again, got) {
		t.Fatalf("Filter is not idempotent: %v then %v", got, again)
	}
}

func TestDefaultStopWords(t *testing.T) {
	want := []string{"a", "and", "be", "have", "i", "in", "of", "that", "the", "to"}
	sw := DefaultStopWords()
	if len(sw) != len(want) {
		t.Fatalf("len(DefaultStopWords()) = %d; want %d", len(sw), len(want))
	}
	for _, w := range want {
		if !sw.Contains(w) {
			t.Errorf("DefaultStopWords() missing %q", w)
		}
	}
	for _, w := range []string{"an", "is", "was", "cat"} {
		if sw.Contains(w) {
			t.Errorf("DefaultStopWords() unexpectedly contains %q", w)
		}
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"cat":        "cat",
		"cats":       "cat",
		"dogs":       "dog",
		"running":    "run",
		"connection": "connect",
		"ponies":     "poni",
		"42":         "42",
	}
	for in, want := range tests {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(nil)
	tests := []struct {
		text string
		want []string
	}{
		{"The Cat sat", []string{"cat", "sat"}},
		{"A dog ran", []string{"dog", "ran"}},
		{"Cats and dogs", []string{"cat", "dog"}},
		{"the", []string{}},
		{"", []string{}},
		{"To be, or not to be", []string{"or", "not"}},
	}
	for _, tt := range tests {
		got := a.Analyze(tt.text)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Analyze(%q) = %#v; want %#v", tt.text, got, tt.want)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := NewAnalyzer(nil)
	text := "Distributed search engines process queries across multiple shards."
	first := a.Analyze(text)
	for i := 0; i < 5; i++ {
		if got := a.Analyze(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Analyze = %v; want %v", i, got, first)
		}
	}
}

func TestAnalyzerCustomStopWords(t *testing.T) {
	a := NewAnalyzer(NewStopWords("cat"))
	got := a.Analyze("the cat sat")
	want := []string{"the", "sat"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Analyze = %v; want %v", got, want)
	}
}
