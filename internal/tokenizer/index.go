package tokenizer

import (
	"errors"
	"fmt"
)

var errDuplicateSymbol = errors.New("duplicate vocabulary symbol")

// Index is the bijection between vocabulary symbols and ids. An id is the
// symbol's position in the vocabulary.
type Index struct {
	ids     map[string]int
	symbols []string
}

// NewIndex derives an Index from vocabulary order. Duplicate symbols are
// rejected.
func NewIndex(vocab []string) (*Index, error) {
	idx := &Index{
		ids:     make(map[string]int, len(vocab)),
		symbols: append([]string(nil), vocab...),
	}

	for id, sym := range idx.symbols {
		if prev, ok := idx.ids[sym]; ok {
			return nil, fmt.Errorf("%w %q at ids %d and %d", errDuplicateSymbol, sym, prev, id)
		}

		idx.ids[sym] = id
	}

	return idx, nil
}

// ID returns the id of sym.
func (idx *Index) ID(sym string) (int, error) {
	id, ok := idx.ids[sym]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownSymbol, sym)
	}

	return id, nil
}

// Symbol returns the symbol with the given id.
func (idx *Index) Symbol(id int) (string, error) {
	if id < 0 || id >= len(idx.symbols) {
		return "", fmt.Errorf("%w %d (vocabulary size %d)", ErrUnknownID, id, len(idx.symbols))
	}

	return idx.symbols[id], nil
}

// Len returns the number of symbols.
func (idx *Index) Len() int { return len(idx.symbols) }
