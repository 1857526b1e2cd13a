package tokenizer

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Segment splits text into the words that bound merges.
//
// The text is split on single ASCII spaces and the space is kept at the end
// of the word it follows. Empty and lone-space pieces are dropped. Each piece
// is then split after every line break, and units made only of line breaks
// are appended to the unit before them.
func Segment(text string) []string {
	pieces := strings.Split(text, " ")
	words := make([]string, 0, len(pieces))

	for i, piece := range pieces {
		if i < len(pieces)-1 {
			piece += " "
		}

		if piece == "" || piece == " " {
			continue
		}

		for _, unit := range splitLines(piece) {
			if len(words) > 0 && onlyLineBreaks(unit) {
				words[len(words)-1] += unit
				continue
			}

			words = append(words, unit)
		}
	}

	return words
}

// Symbolize splits a word into single-character symbols.
func Symbolize(word string) []string {
	symbols := make([]string, 0, utf8.RuneCountInString(word))
	for _, r := range word {
		symbols = append(symbols, string(r))
	}

	return symbols
}

// Alphabet returns the distinct characters of corpus in ascending code point
// order.
func Alphabet(corpus string) []string {
	seen := make(map[rune]struct{})
	for _, r := range corpus {
		seen[r] = struct{}{}
	}

	runes := make([]rune, 0, len(seen))
	for r := range seen {
		runes = append(runes, r)
	}

	slices.Sort(runes)

	alphabet := make([]string, len(runes))
	for i, r := range runes {
		alphabet[i] = string(r)
	}

	return alphabet
}

// splitLines splits s after each line break, keeping the break with the line
// it ends. "\r\n" counts as a single break.
func splitLines(s string) []string {
	var lines []string

	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}

		end := i + size
		if r == '\r' && end < len(s) && s[end] == '\n' {
			end++
		}

		lines = append(lines, s[start:end])
		start, i = end, end
	}

	if start < len(s) {
		lines = append(lines, s[start:])
	}

	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}

func onlyLineBreaks(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !isLineBreak(r) {
			return false
		}
	}

	return true
}
