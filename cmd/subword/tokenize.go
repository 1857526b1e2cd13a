package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/example/go-subword/internal/tokenizer"
)

func newTokenizeCmd() *cobra.Command {
	var files []string
	var pieces bool

	cmd := &cobra.Command{
		Use:   "tokenize [text...]",
		Short: "Encode text to token ids",
		Long: "Encode the arguments (joined by spaces), each --file, or stdin. " +
			"Prints one line of space-separated ids per input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			tok, err := loadTokenizer(cfg.Paths.ModelPath)
			if err != nil {
				return err
			}

			texts, err := readTokenizeInputs(args, files, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return writeEncodings(cmd.OutOrStdout(), tok, texts, pieces)
		},
	}

	cmd.Flags().StringArrayVar(&files, "file", nil, "File to encode (repeatable; each file is one input)")
	cmd.Flags().BoolVar(&pieces, "pieces", false, "Also print the symbol each id stands for")

	return cmd
}

// readTokenizeInputs picks the inputs in order of precedence: files, then
// arguments, then stdin. One trailing line break is dropped from stdin.
func readTokenizeInputs(args, files []string, stdin io.Reader) ([]string, error) {
	if len(files) > 0 {
		texts := make([]string, len(files))
		for i, path := range files {
			b, err := afero.ReadFile(appFS, path)
			if err != nil {
				return nil, fmt.Errorf("read %q: %w", path, err)
			}
			texts[i] = string(b)
		}
		return texts, nil
	}

	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSuffix(strings.TrimSuffix(string(b), "\n"), "\r")
	if input == "" {
		return nil, fmt.Errorf("either pass text, use --file, or pipe text on stdin")
	}
	return []string{input}, nil
}

func writeEncodings(w io.Writer, tok *tokenizer.Tokenizer, texts []string, withPieces bool) error {
	encoded, err := tok.EncodeBatchPieces(texts)
	if err != nil {
		return err
	}

	for _, enc := range encoded {
		if _, err := fmt.Fprintln(w, formatIDs(enc.IDs)); err != nil {
			return err
		}
		if withPieces {
			if _, err := fmt.Fprintln(w, formatPieces(enc.Pieces)); err != nil {
				return err
			}
		}
	}

	return nil
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}

func formatPieces(pieces []string) string {
	parts := make([]string, len(pieces))
	for i, p := range pieces {
		parts[i] = strconv.Quote(p)
	}
	return strings.Join(parts, " ")
}
