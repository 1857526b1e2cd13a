package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/go-subword/internal/model"
	"github.com/example/go-subword/internal/tokenizer"
)

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Model verification and introspection commands",
	}

	cmd.AddCommand(newModelVerifyCmd())
	cmd.AddCommand(newModelInspectCmd())
	return cmd
}

func newModelVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the model file loads and its merges line up with the vocabulary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			f, err := model.NewFile(appFS, cfg.Paths.ModelPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "verifying model: %s\n", f.Path()); err != nil {
				return fmt.Errorf("write status: %w", err)
			}

			if _, err := model.VerifyFile(model.VerifyOptions{File: f, Stdout: out}); err != nil {
				return fmt.Errorf("model verify failed: %w", err)
			}

			_, err = fmt.Fprintln(out, "model verification passed")
			return err
		},
	}

	return cmd
}

func newModelInspectCmd() *cobra.Command {
	var limit int
	var symbols []string
	var ids []int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print model sizes, the first merges and symbol/id lookups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			tok, err := loadTokenizer(cfg.Paths.ModelPath)
			if err != nil {
				return err
			}

			m, err := tok.Model()
			if err != nil {
				return err
			}

			return inspectModel(cmd.OutOrStdout(), m, limit, symbols, ids)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of merges to list (negative lists all)")
	cmd.Flags().StringArrayVar(&symbols, "symbol", nil, "Look up the id of a symbol (repeatable)")
	cmd.Flags().IntSliceVar(&ids, "id", nil, "Look up the symbol of an id (repeatable)")

	return cmd
}

func inspectModel(w io.Writer, m *tokenizer.Model, limit int, symbols []string, ids []int) error {
	merges := m.Merges()
	base := m.AlphabetSize()

	fmt.Fprintf(w, "vocabulary: %d symbols\n", m.VocabSize())
	fmt.Fprintf(w, "alphabet:   %d symbols\n", base)
	fmt.Fprintf(w, "merges:     %d\n", len(merges))
	fmt.Fprintf(w, "normalize:  %s\n", m.Normalization())

	if limit < 0 || limit > len(merges) {
		limit = len(merges)
	}
	for i, p := range merges[:limit] {
		fmt.Fprintf(w, "%6d  %s + %s -> %s\n", base+i,
			strconv.Quote(p.Left), strconv.Quote(p.Right), strconv.Quote(p.Fused()))
	}
	if limit < len(merges) {
		fmt.Fprintf(w, "  ... %d more\n", len(merges)-limit)
	}

	for _, sym := range symbols {
		id, err := m.ID(sym)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "symbol %s = %d\n", strconv.Quote(sym), id)
	}

	for _, id := range ids {
		sym, err := m.Symbol(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "id %d = %s\n", id, strconv.Quote(sym))
	}

	return nil
}
