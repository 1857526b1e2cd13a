package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/go-subword/internal/corpus"
	"github.com/example/go-subword/internal/model"
	"github.com/example/go-subword/internal/tokenizer"
)

func newTrainCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "train [corpus...]",
		Short: "Learn merges from a corpus and save the model",
		Long: "Learn merges from one or more corpus files (default: paths.corpus_path) " +
			"and write the model to paths.model_path. An existing model file is only " +
			"replaced after confirmation or with --force.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 && cfg.Paths.CorpusPath != "" {
				paths = []string{cfg.Paths.CorpusPath}
			}

			return runTrain(trainOptions{
				CorpusPaths: paths,
				ModelPath:   cfg.Paths.ModelPath,
				NumMerges:   cfg.Train.NumMerges,
				Normalize:   cfg.Train.Normalize,
				Force:       force,
				Stdin:       cmd.InOrStdin(),
				Stdout:      cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing model file without asking")

	return cmd
}

type trainOptions struct {
	CorpusPaths []string
	ModelPath   string
	NumMerges   int
	Normalize   string
	Force       bool
	Stdin       io.Reader
	Stdout      io.Writer
}

func runTrain(opts trainOptions) error {
	if len(opts.CorpusPaths) == 0 {
		return fmt.Errorf("no corpus given: pass a path or set --corpus")
	}

	dst, err := model.NewFile(appFS, opts.ModelPath)
	if err != nil {
		return err
	}

	if !opts.Force {
		exists, err := dst.Exists()
		if err != nil {
			return err
		}
		if exists {
			ok, err := confirm(bufio.NewReader(opts.Stdin), opts.Stdout,
				fmt.Sprintf("model %s already exists; overwrite it?", dst.Path()))
			if err != nil {
				return err
			}
			if !ok {
				_, err = fmt.Fprintln(opts.Stdout, "kept existing model")
				return err
			}
		}
	}

	text, err := corpus.Read(appFS, opts.Normalize, opts.CorpusPaths...)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(opts.Stdout, "corpus: %s\n", corpus.Describe(text)); err != nil {
		return fmt.Errorf("write status: %w", err)
	}

	tok := tokenizer.New(
		tokenizer.WithLogger(slog.Default()),
		tokenizer.WithNormalization(opts.Normalize),
	)

	m, err := tok.Train(text, opts.NumMerges, false)
	if err != nil {
		return err
	}

	if err := tok.Save(dst); err != nil {
		return err
	}

	_, err = fmt.Fprintf(opts.Stdout, "learned %d merges, %d symbols (alphabet %d) -> %s\n",
		len(m.Merges()), m.VocabSize(), m.AlphabetSize(), dst.Path())
	return err
}

// confirm asks a yes/no question and reads one answer line. Only y or yes
// (any case) counts as yes; end of input counts as no.
func confirm(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/n] ", question); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
