package tokenizer

import (
	"slices"
	"testing"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "two words", text: "hello world", want: []string{"hello ", "world"}},
		{name: "single word", text: "aaaa", want: []string{"aaaa"}},
		{name: "empty", text: "", want: []string{}},
		{name: "repeated spaces are dropped", text: "a  b", want: []string{"a ", "b"}},
		{name: "leading space is dropped", text: " a", want: []string{"a"}},
		{name: "trailing space stays on last word", text: "a b ", want: []string{"a ", "b "}},
		{name: "newline splits a piece", text: "a\nb c", want: []string{"a\n", "b ", "c"}},
		{name: "blank line joins previous word", text: "a\n\nb", want: []string{"a\n\n", "b"}},
		{name: "newline after space joins previous word", text: "a \nb", want: []string{"a \n", "b"}},
		{name: "leading newline stays alone", text: "\nb", want: []string{"\n", "b"}},
		{name: "crlf is one break", text: "a\r\nb", want: []string{"a\r\n", "b"}},
		{name: "trailing newline", text: "hi\n", want: []string{"hi\n"}},
		{name: "several blank lines", text: "x\n\n\n", want: []string{"x\n\n\n"}},
		{name: "unicode line separator", text: "a\u2028b", want: []string{"a\u2028", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.text)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Segment(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSymbolize(t *testing.T) {
	got := Symbolize("héllo ")
	want := []string{"h", "é", "l", "l", "o", " "}

	if !slices.Equal(got, want) {
		t.Fatalf("Symbolize = %q, want %q", got, want)
	}

	if n := len(Symbolize("")); n != 0 {
		t.Fatalf("Symbolize(\"\") has %d symbols, want 0", n)
	}
}

func TestAlphabet(t *testing.T) {
	got := Alphabet("banana split\n")
	want := []string{"\n", " ", "a", "b", "i", "l", "n", "p", "s", "t"}

	if !slices.Equal(got, want) {
		t.Fatalf("Alphabet = %q, want %q", got, want)
	}
}

func TestAlphabet_SortsByCodePoint(t *testing.T) {
	got := Alphabet("éaZ")
	want := []string{"Z", "a", "é"}

	if !slices.Equal(got, want) {
		t.Fatalf("Alphabet = %q, want %q", got, want)
	}
}
