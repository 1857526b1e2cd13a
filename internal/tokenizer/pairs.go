package tokenizer

// Pair is an ordered pair of adjacent symbols. A learned merge rule is a
// Pair: wherever Left is directly followed by Right inside one word, the two
// are fused into Left+Right.
type Pair struct {
	Left  string
	Right string
}

// Fused returns the symbol produced by merging the pair.
func (p Pair) Fused() string { return p.Left + p.Right }

// PairCounts holds adjacent pair frequencies together with the order in
// which each distinct pair was first seen.
type PairCounts struct {
	counts map[Pair]int
	order  []Pair
}

func newPairCounts() *PairCounts {
	return &PairCounts{counts: make(map[Pair]int)}
}

// CountPairs counts every adjacent symbol pair within each word. Pairs never
// span two words. Overlapping occurrences each count.
func CountPairs(words [][]string) *PairCounts {
	pc := newPairCounts()
	for _, w := range words {
		pc.addWord(w, 1)
	}

	return pc
}

func (pc *PairCounts) addWord(symbols []string, weight int) {
	for i := 0; i+1 < len(symbols); i++ {
		p := Pair{Left: symbols[i], Right: symbols[i+1]}
		if _, ok := pc.counts[p]; !ok {
			pc.order = append(pc.order, p)
		}
		pc.counts[p] += weight
	}
}

// Count returns the frequency of p.
func (pc *PairCounts) Count(p Pair) int { return pc.counts[p] }

// Len returns the number of distinct pairs.
func (pc *PairCounts) Len() int { return len(pc.order) }

// Pairs returns the distinct pairs in first-seen order.
func (pc *PairCounts) Pairs() []Pair { return append([]Pair(nil), pc.order...) }

// Best returns the most frequent pair. Ties go to the pair seen first.
// Pairs for which skip reports true are never chosen; skip may be nil.
func (pc *PairCounts) Best(skip func(Pair) bool) (Pair, int, bool) {
	var (
		best  Pair
		count int
		found bool
	)

	for _, p := range pc.order {
		c := pc.counts[p]
		if found && c <= count {
			continue
		}

		if skip != nil && skip(p) {
			continue
		}

		best, count, found = p, c, true
	}

	return best, count, found
}

// applyMerge fuses every non-overlapping occurrence of p in one left to right
// pass. A fused symbol is not compared again within the same pass. The input
// slice is reused for the result.
func applyMerge(symbols []string, p Pair, fused string) []string {
	if len(symbols) < 2 {
		return symbols
	}

	out := symbols[:0]
	for i := 0; i < len(symbols); i++ {
		if i+1 < len(symbols) && symbols[i] == p.Left && symbols[i+1] == p.Right {
			out = append(out, fused)
			i++

			continue
		}

		out = append(out, symbols[i])
	}

	return out
}
