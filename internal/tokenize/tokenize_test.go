package tokenize

import (
	"reflect"
	"testing"
)

func TestSplitWordsMultiline(t *testing.T) {
	input := `Lorem ipsum (dolor) sit amet, consectetur
second line?

that was an [empty] line.
`
	want := []string{
		"Lorem", "ipsum", "dolor", "sit", "amet", "consectetur",
		"second", "line",
		"that", "was", "an", "empty", "line",
	}
	if got := SplitWords(input); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSplitWordsEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{""}},
		{name: "only whitespace", input: " \t\n ", want: []string{""}},
		{name: "clean text", input: "alpha beta gamma", want: []string{"alpha", "beta", "gamma"}},
		{name: "surrounding whitespace", input: "\n  alpha   beta\t", want: []string{"alpha", "beta"}},
		{name: "single strip per side", input: "((x)) ?!?", want: []string{"(x)", "!"}},
		{name: "punctuation only token", input: "a . b", want: []string{"a", "", "b"}},
		{name: "inner punctuation kept", input: "e.g. don't", want: []string{"e.g", "don't"}},
		{name: "quotes", input: `"quoted"`, want: []string{"quoted"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitWords(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitWords(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripPunctuation(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"word":     "word",
		"word,":    "word",
		"(word)":   "word",
		"((word))": "(word)",
		"[a]!":     "a]",
		"?":        "",
		"..":       "",
		"-dash-":   "-dash-",
		"überall.": "überall",
	}
	for input, want := range tests {
		if got := StripPunctuation(input); got != want {
			t.Fatalf("StripPunctuation(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"running":    "run",
		"Running":    "run",
		"cats":       "cat",
		"jumped":     "jump",
		"CONNECTION": "connect",
	}
	for input, want := range tests {
		if got := Stem(input); got != want {
			t.Fatalf("Stem(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTerms(t *testing.T) {
	got := Terms("Cats, running! cats (running) . dogs")
	want := []string{"cat", "run", "dog"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := Terms("   "); len(got) != 0 {
		t.Fatalf("expected no terms for blank input, got %q", got)
	}
}
