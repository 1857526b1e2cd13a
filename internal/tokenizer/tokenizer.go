// Package tokenizer learns a subword vocabulary from a text corpus with Byte
// Pair Encoding and uses it to convert text to token ids and back.
//
// Training and encoding share the same segmentation: text is split into
// words on spaces and line breaks, and merges never cross a word boundary.
// Encoding replays the learned merge rules in the order they were learned.
package tokenizer

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/iter"

	"github.com/example/go-subword/internal/corpus"
)

// ModelWriter persists a trained model.
type ModelWriter interface {
	WriteModel(m *Model) error
}

// ModelReader restores a persisted model.
type ModelReader interface {
	ReadModel() (*Model, error)
}

// Tokenizer holds the current model, if any. Encode and decode read an
// immutable snapshot and never block; Train and Load are serialized and
// replace the snapshot as a whole.
type Tokenizer struct {
	mu    sync.Mutex
	model atomic.Pointer[Model]
	log   *slog.Logger
	form  string
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithLogger sets the logger used for training progress.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tokenizer) { t.log = l }
}

// WithNormalization sets the Unicode normalization form Train applies to
// the corpus and records on the trained model, so encoding normalizes input
// the same way.
func WithNormalization(form string) Option {
	return func(t *Tokenizer) { t.form = form }
}

// New returns an untrained Tokenizer.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{log: slog.Default()}
	for _, fn := range opts {
		fn(t)
	}

	return t
}

// Trained reports whether a model has been trained or loaded.
func (t *Tokenizer) Trained() bool { return t.model.Load() != nil }

// Model returns the current model snapshot.
func (t *Tokenizer) Model() (*Model, error) {
	m := t.model.Load()
	if m == nil {
		return nil, ErrNotTrained
	}

	return m, nil
}

// Train learns a new model from text. When a model is already present
// and force is false, Train does nothing and returns ErrAlreadyTrained. On
// any failure the previous model is kept.
func (t *Tokenizer) Train(text string, numMerges int, force bool) (*Model, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Trained() && !force {
		return nil, ErrAlreadyTrained
	}

	normalize, err := corpus.Normalizer(t.form)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	m, err := learn(normalize(text), numMerges, t.log)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	m, err = m.WithNormalization(t.form)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	t.model.Store(m)

	return m, nil
}

// Load replaces the model with one read from src, under the same force rule
// as Train. A failed read leaves the previous model in place.
func (t *Tokenizer) Load(src ModelReader, force bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Trained() && !force {
		return ErrAlreadyTrained
	}

	m, err := src.ReadModel()
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	t.model.Store(m)
	t.log.Info("model loaded",
		slog.Int("vocab_size", m.VocabSize()),
		slog.Int("merges", len(m.merges)),
	)

	return nil
}

// Save writes the current model to dst.
func (t *Tokenizer) Save(dst ModelWriter) error {
	m, err := t.Model()
	if err != nil {
		return err
	}

	if err := dst.WriteModel(m); err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	return nil
}

// Tokenize converts text to token ids.
func (t *Tokenizer) Tokenize(text string) ([]int, error) {
	m, err := t.Model()
	if err != nil {
		return nil, err
	}

	return m.Encode(text)
}

// Decode converts token ids back to text.
func (t *Tokenizer) Decode(ids []int) (string, error) {
	m, err := t.Model()
	if err != nil {
		return "", err
	}

	return m.Decode(ids)
}

// EncodeBatch tokenizes independent texts concurrently against one model
// snapshot. Results are in input order.
func (t *Tokenizer) EncodeBatch(texts []string) ([][]int, error) {
	m, err := t.Model()
	if err != nil {
		return nil, err
	}

	return iter.MapErr(texts, func(text *string) ([]int, error) {
		return m.Encode(*text)
	})
}

// Encoding is the ids of one text and the symbol behind each id.
type Encoding struct {
	IDs    []int
	Pieces []string
}

// EncodeBatchPieces is EncodeBatch that also keeps the symbols of each text.
func (t *Tokenizer) EncodeBatchPieces(texts []string) ([]Encoding, error) {
	m, err := t.Model()
	if err != nil {
		return nil, err
	}

	return iter.MapErr(texts, func(text *string) (Encoding, error) {
		ids, pieces, err := m.EncodePieces(*text)
		if err != nil {
			return Encoding{}, err
		}

		return Encoding{IDs: ids, Pieces: pieces}, nil
	})
}
