package model

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/example/go-subword/internal/tokenizer"
)

// Verify checks the invariants a trained model satisfies: every alphabet
// entry is one character, and merge i produced vocabulary entry
// alphabet+i from two symbols that already existed.
func Verify(m *tokenizer.Model) error {
	vocab := m.Vocab()
	base := m.AlphabetSize()

	for id := 0; id < base; id++ {
		if utf8.RuneCountInString(vocab[id]) != 1 {
			return fmt.Errorf("%w: alphabet entry %d (%q) is not a single character",
				tokenizer.ErrMalformedModel, id, vocab[id])
		}
	}

	for i, p := range m.Merges() {
		id := base + i

		if vocab[id] != p.Fused() {
			return fmt.Errorf("%w: merge %d (%q, %q) does not produce vocabulary entry %d (%q)",
				tokenizer.ErrMalformedModel, i, p.Left, p.Right, id, vocab[id])
		}

		for _, sym := range []string{p.Left, p.Right} {
			symID, err := m.ID(sym)
			if err != nil || symID >= id {
				return fmt.Errorf("%w: merge %d uses %q before it exists",
					tokenizer.ErrMalformedModel, i, sym)
			}
		}
	}

	return nil
}

// VerifyOptions configures VerifyFile.
type VerifyOptions struct {
	File   *File
	Stdout io.Writer
}

// VerifyFile loads the model file, checks it, and reports each step to
// Stdout.
func VerifyFile(opts VerifyOptions) (*tokenizer.Model, error) {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}

	ok, err := opts.File.Exists()
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("model file not found: %s", opts.File.Path())
	}

	_, _ = fmt.Fprintf(opts.Stdout, "  ✓ file exists: %s\n", opts.File.Path())

	m, err := opts.File.ReadModel()
	if err != nil {
		return nil, err
	}

	_, _ = fmt.Fprintf(opts.Stdout, "  ✓ document parses (%d symbols, %d merges)\n", m.VocabSize(), len(m.Merges()))

	if err := Verify(m); err != nil {
		return nil, err
	}

	_, _ = fmt.Fprintf(opts.Stdout, "  ✓ merges line up with vocabulary (alphabet %d)\n", m.AlphabetSize())

	return m, nil
}
