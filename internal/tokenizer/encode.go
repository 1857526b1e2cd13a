package tokenizer

import "strings"

// Encode segments text, replays every merge rule in learned order and maps
// the resulting symbols to ids. It fails with ErrUnknownSymbol when a symbol
// is not in the vocabulary.
func (m *Model) Encode(text string) ([]int, error) {
	ids, _, err := m.EncodePieces(text)
	return ids, err
}

// EncodePieces is Encode that also returns the symbol behind each id.
func (m *Model) EncodePieces(text string) ([]int, []string, error) {
	pieces := m.Pieces(text)

	ids := make([]int, 0, len(pieces))
	for _, sym := range pieces {
		id, err := m.index.ID(sym)
		if err != nil {
			return nil, nil, err
		}

		ids = append(ids, id)
	}

	return ids, pieces, nil
}

// Pieces returns the symbols text encodes to, in order, without mapping them
// to ids. The model's normalization form is applied first.
func (m *Model) Pieces(text string) []string {
	if m.normalize != nil {
		text = m.normalize(text)
	}

	words := Segment(text)
	seen := make(map[string][]string, len(words))

	var pieces []string
	for _, w := range words {
		symbols, ok := seen[w]
		if !ok {
			symbols = m.replay(Symbolize(w))
			seen[w] = symbols
		}

		pieces = append(pieces, symbols...)
	}

	return pieces
}

// replay applies each merge once, in learned order, to one word. Words are
// independent, so this equals applying each rule across all words in turn.
func (m *Model) replay(symbols []string) []string {
	for i, p := range m.merges {
		if len(symbols) < 2 {
			break
		}

		symbols = applyMerge(symbols, p, m.fused[i])
	}

	return symbols
}

// Decode maps ids to symbols and concatenates them. It fails with
// ErrUnknownID for an id outside the vocabulary. Text comes back in the
// model's normalization form.
func (m *Model) Decode(ids []int) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		sym, err := m.index.Symbol(id)
		if err != nil {
			return "", err
		}

		sb.WriteString(sym)
	}

	return sb.String(), nil
}
