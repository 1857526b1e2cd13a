package tokenizer

import (
	"fmt"
	"log/slog"
	"time"
)

// Learn trains a model on corpus with exactly numMerges merges.
//
// Each iteration recounts adjacent pairs over the current corpus state,
// picks the most frequent pair (first seen wins a tie), appends the fused
// symbol to the vocabulary and rewrites every word. A pair whose fused
// symbol is already in the vocabulary is never picked. If no pair is left
// before numMerges iterations, Learn fails with ErrNoMergeableBigram.
func Learn(corpus string, numMerges int) (*Model, error) {
	return learn(corpus, numMerges, slog.Default())
}

func learn(corpus string, numMerges int, log *slog.Logger) (*Model, error) {
	if numMerges < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMergeCount, numMerges)
	}

	start := time.Now()
	tr := newTrainer(corpus, log)

	for i := 1; i <= numMerges; i++ {
		if err := tr.step(i); err != nil {
			return nil, fmt.Errorf("merge %d of %d: %w", i, numMerges, err)
		}
	}

	m, err := newModel(tr.vocab, tr.merges, tr.alphabetSize)
	if err != nil {
		return nil, err
	}

	log.Info("training complete",
		slog.Int("vocab_size", m.VocabSize()),
		slog.Int("merges", len(tr.merges)),
		slog.Duration("duration", time.Since(start)),
	)

	return m, nil
}

// word is one distinct word of the corpus with its number of occurrences.
// Identical words stay identical under every merge, so they are rewritten
// once and weighted when counting.
type word struct {
	symbols []string
	freq    int
}

type trainer struct {
	words        []word
	vocab        []string
	known        map[string]struct{}
	merges       []Pair
	alphabetSize int
	log          *slog.Logger
}

func newTrainer(corpus string, log *slog.Logger) *trainer {
	tr := &trainer{
		vocab: Alphabet(corpus),
		log:   log,
	}
	tr.alphabetSize = len(tr.vocab)

	tr.known = make(map[string]struct{}, len(tr.vocab))
	for _, s := range tr.vocab {
		tr.known[s] = struct{}{}
	}

	// Words are kept in order of first occurrence, which preserves the
	// first-seen order of pairs used to break ties.
	slot := make(map[string]int)
	for _, w := range Segment(corpus) {
		if i, ok := slot[w]; ok {
			tr.words[i].freq++
			continue
		}

		slot[w] = len(tr.words)
		tr.words = append(tr.words, word{symbols: Symbolize(w), freq: 1})
	}

	return tr
}

func (tr *trainer) counts() *PairCounts {
	pc := newPairCounts()
	for _, w := range tr.words {
		pc.addWord(w.symbols, w.freq)
	}

	return pc
}

func (tr *trainer) step(iteration int) error {
	best, freq, ok := tr.counts().Best(func(p Pair) bool {
		_, dup := tr.known[p.Fused()]
		return dup
	})
	if !ok {
		return ErrNoMergeableBigram
	}

	fused := best.Fused()
	tr.vocab = append(tr.vocab, fused)
	tr.known[fused] = struct{}{}
	tr.merges = append(tr.merges, best)

	for i := range tr.words {
		tr.words[i].symbols = applyMerge(tr.words[i].symbols, best, fused)
	}

	tr.log.Debug("merge learned",
		slog.Int("merge", iteration),
		slog.String("token", fused),
		slog.Int("frequency", freq),
	)

	return nil
}
