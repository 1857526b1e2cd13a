// Package model persists trained tokenizer models.
//
// A model document has two fields: "vocab", an array of strings whose index
// is the token id, and "merges", an array of two-string arrays in the order
// the merges were learned. An optional "normalize" field names the Unicode
// normalization form applied before encoding. Documents are stored as JSON, or as YAML when the
// file name ends in .yaml or .yml.
package model

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/example/go-subword/internal/tokenizer"
	"gopkg.in/yaml.v3"
)

// Format is a model document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the document format from a file name.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is the persisted shape of a model.
type Document struct {
	Vocab     []string   `json:"vocab" yaml:"vocab"`
	Merges    [][]string `json:"merges" yaml:"merges"`
	Normalize string     `json:"normalize,omitempty" yaml:"normalize,omitempty"`
}

// FromModel converts a model into its document.
func FromModel(m *tokenizer.Model) Document {
	merges := m.Merges()

	doc := Document{
		Vocab:  m.Vocab(),
		Merges: make([][]string, len(merges)),
	}
	for i, p := range merges {
		doc.Merges[i] = []string{p.Left, p.Right}
	}
	if form := m.Normalization(); form != "none" {
		doc.Normalize = form
	}

	return doc
}

// Model validates the document and builds a model from it. Ids come from
// the order of Vocab only.
func (d Document) Model() (*tokenizer.Model, error) {
	if d.Vocab == nil {
		return nil, fmt.Errorf("%w: missing %q field", tokenizer.ErrMalformedModel, "vocab")
	}

	if d.Merges == nil {
		return nil, fmt.Errorf("%w: missing %q field", tokenizer.ErrMalformedModel, "merges")
	}

	merges := make([]tokenizer.Pair, len(d.Merges))
	for i, pair := range d.Merges {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: merge %d has %d elements, want 2", tokenizer.ErrMalformedModel, i, len(pair))
		}

		merges[i] = tokenizer.Pair{Left: pair[0], Right: pair[1]}
	}

	m, err := tokenizer.NewModel(d.Vocab, merges)
	if err != nil {
		return nil, err
	}

	if d.Normalize == "" {
		return m, nil
	}

	m, err = m.WithNormalization(d.Normalize)
	if err != nil {
		return nil, fmt.Errorf("%w: field %q: %w", tokenizer.ErrMalformedModel, "normalize", err)
	}

	return m, nil
}

// Encode writes m to w in the given format.
func Encode(w io.Writer, m *tokenizer.Model, format Format) error {
	doc := FromModel(m)

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml model: %w", err)
		}

		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json model: %w", err)
		}

		return nil
	}
}

// Decode reads a model document from r and builds the model.
func Decode(r io.Reader, format Format) (*tokenizer.Model, error) {
	var doc Document

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", tokenizer.ErrMalformedModel, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", tokenizer.ErrMalformedModel, err)
		}
	}

	return doc.Model()
}
