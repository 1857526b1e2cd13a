package tokenizer

import (
	"errors"
	"slices"
	"testing"

	"github.com/example/go-subword/internal/corpus"
)

func mustLearn(t *testing.T, text string, merges int) *Model {
	t.Helper()

	m, err := learn(text, merges, quietLogger())
	if err != nil {
		t.Fatalf("learn(%q, %d): %v", text, merges, err)
	}

	return m
}

func TestEncode_ReplaysLearnedMerges(t *testing.T) {
	m := mustLearn(t, "aaaa", 1)

	ids, err := m.Encode("aaaa")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if !slices.Equal(ids, []int{1, 1}) {
		t.Fatalf("Encode(aaaa) = %v, want [1 1]", ids)
	}

	text, err := m.Decode([]int{1, 1})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if text != "aaaa" {
		t.Fatalf("Decode([1 1]) = %q, want %q", text, "aaaa")
	}

	ids, _ = m.Encode("aaa")
	if !slices.Equal(ids, []int{1, 0}) {
		t.Fatalf("Encode(aaa) = %v, want [1 0]", ids)
	}
}

func TestEncode_Table(t *testing.T) {
	m := mustLearn(t, "ab ab", 2)

	tests := []struct {
		text   string
		ids    []int
		pieces []string
	}{
		{text: "ab ab", ids: []int{4, 3}, pieces: []string{"ab ", "ab"}},
		{text: "ba", ids: []int{2, 1}, pieces: []string{"b", "a"}},
		{text: "abab", ids: []int{3, 3}, pieces: []string{"ab", "ab"}},
		{text: "", ids: []int{}, pieces: nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ids, err := m.Encode(tt.text)
			if err != nil {
				t.Fatalf("Encode(%q): %v", tt.text, err)
			}

			if !slices.Equal(ids, tt.ids) {
				t.Fatalf("Encode(%q) = %v, want %v", tt.text, ids, tt.ids)
			}

			if got := m.Pieces(tt.text); !slices.Equal(got, tt.pieces) {
				t.Fatalf("Pieces(%q) = %q, want %q", tt.text, got, tt.pieces)
			}
		})
	}
}

func TestEncodePieces_AgreesWithEncodeAndPieces(t *testing.T) {
	m := mustLearn(t, sampleCorpus, 10)

	for _, text := range []string{"the cat sat", "mat on the log", "", "that"} {
		ids, pieces, err := m.EncodePieces(text)
		if err != nil {
			t.Fatalf("EncodePieces(%q): %v", text, err)
		}

		want, _ := m.Encode(text)
		if !slices.Equal(ids, want) {
			t.Errorf("EncodePieces(%q) ids = %v, want %v", text, ids, want)
		}

		if !slices.Equal(pieces, m.Pieces(text)) {
			t.Errorf("EncodePieces(%q) pieces = %q, want %q", text, pieces, m.Pieces(text))
		}

		if len(ids) != len(pieces) {
			t.Errorf("EncodePieces(%q): %d ids for %d pieces", text, len(ids), len(pieces))
		}
	}

	if _, _, err := m.EncodePieces("zebra"); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("got %v, want ErrUnknownSymbol", err)
	}
}

func TestModel_WithNormalization(t *testing.T) {
	base := mustLearn(t, "caf\u00e9 caf\u00e9", 2)
	if base.Normalization() != "none" {
		t.Fatalf("Normalization() = %q, want none", base.Normalization())
	}

	// Unnormalized, the decomposed accent is not in the vocabulary.
	if _, err := base.Encode("cafe\u0301"); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("got %v, want ErrUnknownSymbol", err)
	}

	m, err := base.WithNormalization(" NFC ")
	if err != nil {
		t.Fatalf("WithNormalization: %v", err)
	}
	if m.Normalization() != "nfc" {
		t.Fatalf("Normalization() = %q, want nfc", m.Normalization())
	}
	if base.Normalization() != "none" {
		t.Fatal("WithNormalization modified the receiver")
	}

	want, _ := m.Encode("caf\u00e9")
	got, err := m.Encode("cafe\u0301")
	if err != nil {
		t.Fatalf("Encode decomposed: %v", err)
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Encode decomposed = %v, want %v", got, want)
	}

	off, err := m.WithNormalization("none")
	if err != nil || off.Normalization() != "none" {
		t.Fatalf("WithNormalization(none) = %v, %v", off.Normalization(), err)
	}

	if _, err := base.WithNormalization("title"); !errors.Is(err, corpus.ErrUnknownForm) {
		t.Fatalf("got %v, want ErrUnknownForm", err)
	}
}

func TestEncode_UnknownSymbol(t *testing.T) {
	m := mustLearn(t, "aaaa", 1)

	_, err := m.Encode("ab")
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("got %v, want ErrUnknownSymbol", err)
	}
}

func TestDecode_UnknownID(t *testing.T) {
	m := mustLearn(t, "aaaa", 1)

	for _, ids := range [][]int{{2}, {-1}, {0, 99}} {
		_, err := m.Decode(ids)
		if !errors.Is(err, ErrUnknownID) {
			t.Errorf("Decode(%v): got %v, want ErrUnknownID", ids, err)
		}
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	m := mustLearn(t, sampleCorpus, 20)

	texts := []string{
		sampleCorpus,
		"the cat",
		"that dog sat on that log\n",
		"a",
		"hot\n\ntea",
		"",
	}

	for _, text := range texts {
		ids, err := m.Encode(text)
		if err != nil {
			t.Fatalf("Encode(%q): %v", text, err)
		}

		got, err := m.Decode(ids)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}

		if got != text {
			t.Errorf("round trip of %q gave %q", text, got)
		}
	}
}

func TestEncode_MatchesTrainingRewrite(t *testing.T) {
	tr := newTrainer(sampleCorpus, quietLogger())
	for i := 1; i <= 15; i++ {
		if err := tr.step(i); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	m, err := newModel(tr.vocab, tr.merges, tr.alphabetSize)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}

	for _, w := range tr.words {
		text := ""
		for _, s := range w.symbols {
			text += s
		}

		if got := m.replay(Symbolize(text)); !slices.Equal(got, w.symbols) {
			t.Errorf("replay(%q) = %q, training produced %q", text, got, w.symbols)
		}
	}
}

func TestNewModel_Validation(t *testing.T) {
	_, err := NewModel([]string{"a", "a"}, nil)
	if !errors.Is(err, ErrMalformedModel) {
		t.Fatalf("duplicate vocab: got %v, want ErrMalformedModel", err)
	}

	_, err = NewModel([]string{"a"}, []Pair{{"a", "a"}, {"aa", "a"}})
	if !errors.Is(err, ErrMalformedModel) {
		t.Fatalf("too many merges: got %v, want ErrMalformedModel", err)
	}

	m, err := NewModel([]string{"a", "aa"}, []Pair{{"a", "a"}})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	if m.AlphabetSize() != 1 {
		t.Fatalf("AlphabetSize = %d, want 1", m.AlphabetSize())
	}

	id, err := m.ID("aa")
	if err != nil || id != 1 {
		t.Fatalf("ID(aa) = %d, %v; want 1", id, err)
	}

	sym, err := m.Symbol(0)
	if err != nil || sym != "a" {
		t.Fatalf("Symbol(0) = %q, %v; want a", sym, err)
	}
}
