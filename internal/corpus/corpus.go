// Package corpus loads and describes training text.
package corpus

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrNoInput     = errors.New("no corpus paths given")
	ErrInvalidUTF8 = errors.New("corpus is not valid UTF-8")
	ErrUnknownForm = errors.New("unknown normalization form")
)

// Read concatenates the files at paths in order and applies the
// normalization form. A nil fs reads from the OS filesystem.
func Read(fs afero.Fs, form string, paths ...string) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoInput
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}

	var b strings.Builder
	for _, p := range paths {
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			return "", fmt.Errorf("read corpus %q: %w", p, err)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s", ErrInvalidUTF8, p)
		}
		b.Write(data)
	}

	return Normalize(b.String(), form)
}

// Normalize applies a Unicode normalization form. "" and "none" return
// the text unchanged.
func Normalize(text, form string) (string, error) {
	fn, err := Normalizer(form)
	if err != nil {
		return "", err
	}

	return fn(text), nil
}

// Normalizer returns the function that applies form. "" and "none" yield
// the identity.
func Normalizer(form string) (func(string) string, error) {
	switch strings.ToLower(form) {
	case "", "none":
		return func(s string) string { return s }, nil
	case "nfc":
		return norm.NFC.String, nil
	case "nfd":
		return norm.NFD.String, nil
	case "nfkc":
		return norm.NFKC.String, nil
	case "nfkd":
		return norm.NFKD.String, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, form)
	}
}

// Stats summarizes a corpus before training.
type Stats struct {
	Chars       int
	Words       int
	UniqueWords int
}

// Describe counts characters and space-separated words. Words is an
// approximation: consecutive spaces yield empty words.
func Describe(text string) Stats {
	words := strings.Split(text, " ")
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}

	return Stats{
		Chars:       utf8.RuneCountInString(text),
		Words:       len(words),
		UniqueWords: len(unique),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d characters, ~%d words, %d unique", s.Chars, s.Words, s.UniqueWords)
}
