package tokenizer

import (
	"fmt"
	"strings"

	"github.com/example/go-subword/internal/corpus"
)

// Model is a trained vocabulary together with its merge rules in learned
// order. A Model never changes after construction and is safe for
// concurrent use.
type Model struct {
	vocab        []string
	merges       []Pair
	fused        []string
	index        *Index
	alphabetSize int

	// form is the Unicode normalization applied to text before encoding;
	// empty means none.
	form      string
	normalize func(string) string
}

// NewModel builds a Model from a vocabulary and merge rules, for example
// when loading a persisted model. The vocabulary must be free of duplicates
// and hold at least one entry per merge; ids follow vocabulary order.
func NewModel(vocab []string, merges []Pair) (*Model, error) {
	if len(merges) > len(vocab) {
		return nil, fmt.Errorf("%w: %d merges but only %d vocabulary entries",
			ErrMalformedModel, len(merges), len(vocab))
	}

	return newModel(vocab, merges, len(vocab)-len(merges))
}

func newModel(vocab []string, merges []Pair, alphabetSize int) (*Model, error) {
	idx, err := NewIndex(vocab)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedModel, err)
	}

	m := &Model{
		vocab:        idx.symbols,
		merges:       append([]Pair(nil), merges...),
		fused:        make([]string, len(merges)),
		index:        idx,
		alphabetSize: alphabetSize,
	}
	for i, p := range m.merges {
		m.fused[i] = p.Fused()
	}

	return m, nil
}

// Vocab returns a copy of the vocabulary; position is id.
func (m *Model) Vocab() []string { return append([]string(nil), m.vocab...) }

// Merges returns a copy of the merge rules in learned order.
func (m *Model) Merges() []Pair { return append([]Pair(nil), m.merges...) }

// VocabSize returns the number of vocabulary entries.
func (m *Model) VocabSize() int { return len(m.vocab) }

// AlphabetSize returns the number of vocabulary entries that precede the
// first merge result.
func (m *Model) AlphabetSize() int { return m.alphabetSize }

// ID returns the id of sym.
func (m *Model) ID(sym string) (int, error) { return m.index.ID(sym) }

// Symbol returns the vocabulary entry for id.
func (m *Model) Symbol(id int) (string, error) { return m.index.Symbol(id) }

// Normalization returns the Unicode normalization form the model was
// trained with, "none" if it applies none.
func (m *Model) Normalization() string {
	if m.form == "" {
		return "none"
	}

	return m.form
}

// WithNormalization returns a copy of m that normalizes text with form
// before encoding. The copy shares the vocabulary and merges with m.
func (m *Model) WithNormalization(form string) (*Model, error) {
	form = strings.ToLower(strings.TrimSpace(form))
	if form == "none" {
		form = ""
	}

	fn, err := corpus.Normalizer(form)
	if err != nil {
		return nil, err
	}

	cp := *m
	cp.form = form
	cp.normalize = fn
	if form == "" {
		cp.normalize = nil
	}

	return &cp, nil
}
