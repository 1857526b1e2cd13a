package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/go-subword/internal/corpus"
	"github.com/example/go-subword/internal/model"
	"github.com/example/go-subword/internal/tokenizer"
)

const replHelp = `Enter text to tokenize it. Commands:
  :load <path>             load a model file
  :train <path> <merges>   train on a corpus file
  :save <path>             save the current model
  :help                    show this help
  :quit                    leave
  ::text                   tokenize text that starts with ":"`

func newREPLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Tokenize lines interactively",
		Long: "Load the configured model (if present) and print the integer and text " +
			"tokens of every line entered.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			tok := tokenizer.New(
				tokenizer.WithLogger(slog.Default()),
				tokenizer.WithNormalization(cfg.Train.Normalize),
			)
			r := &repl{
				in:        bufio.NewReader(cmd.InOrStdin()),
				out:       cmd.OutOrStdout(),
				tok:       tok,
				normalize: cfg.Train.Normalize,
			}

			f, err := model.NewFile(appFS, cfg.Paths.ModelPath)
			if err != nil {
				return err
			}
			if exists, _ := f.Exists(); exists {
				if err := r.tok.Load(f, false); err != nil {
					return err
				}
				r.printf("loaded %s\n", f.Path())
			} else {
				r.printf("no model at %s; use :load or :train\n", f.Path())
			}

			return r.run()
		},
	}

	return cmd
}

type repl struct {
	in        *bufio.Reader
	out       io.Writer
	tok       *tokenizer.Tokenizer
	normalize string
}

func (r *repl) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// run reads lines until end of input or :quit.
func (r *repl) run() error {
	for {
		r.printf("> ")

		line, err := r.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		atEOF := err != nil

		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			if quit := r.handle(line); quit {
				return nil
			}
		}

		if atEOF {
			r.printf("\n")
			return nil
		}
	}
}

// handle runs one input line and reports whether the session should end.
func (r *repl) handle(line string) bool {
	if !strings.HasPrefix(line, ":") {
		r.tokenize(line)
		return false
	}

	// A doubled colon escapes the command prefix.
	if strings.HasPrefix(line, "::") {
		r.tokenize(line[1:])
		return false
	}

	fields := strings.Fields(line)
	var err error

	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		r.printf("%s\n", replHelp)
	case ":load":
		err = r.load(fields[1:])
	case ":train":
		err = r.train(fields[1:])
	case ":save":
		err = r.save(fields[1:])
	default:
		err = fmt.Errorf("unknown command %s (try :help)", fields[0])
	}

	if err != nil {
		r.printf("error: %v\n", err)
	}
	return false
}

func (r *repl) tokenize(line string) {
	m, err := r.tok.Model()
	if err != nil {
		r.printf("error: %v\n", err)
		return
	}

	ids, pieces, err := m.EncodePieces(line)
	if err != nil {
		r.printf("error: %v\n", err)
		return
	}

	r.printf("Integer Tokens: %v\n", ids)
	r.printf("Text Tokens: %s\n", formatPieces(pieces))
}

// confirmReplace asks before a trained model is replaced. It returns the
// force flag to pass on and whether to go ahead at all.
func (r *repl) confirmReplace() (force, proceed bool, err error) {
	if !r.tok.Trained() {
		return false, true, nil
	}

	ok, err := confirm(r.in, r.out, "a model is already loaded; replace it?")
	if err != nil {
		return false, false, err
	}
	if !ok {
		r.printf("kept current model\n")
	}
	return ok, ok, nil
}

func (r *repl) load(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: :load <path>")
	}

	f, err := model.NewFile(appFS, args[0])
	if err != nil {
		return err
	}

	force, proceed, err := r.confirmReplace()
	if err != nil || !proceed {
		return err
	}

	if err := r.tok.Load(f, force); err != nil {
		return err
	}

	r.printf("loaded %s\n", f.Path())
	return nil
}

func (r *repl) train(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: :train <path> <merges>")
	}

	numMerges, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid merge count %q", args[1])
	}

	text, err := corpus.Read(appFS, r.normalize, args[0])
	if err != nil {
		return err
	}

	force, proceed, err := r.confirmReplace()
	if err != nil || !proceed {
		return err
	}

	m, err := r.tok.Train(text, numMerges, force)
	if err != nil {
		return err
	}

	r.printf("corpus: %s\n", corpus.Describe(text))
	r.printf("learned %d merges, %d symbols\n", len(m.Merges()), m.VocabSize())
	return nil
}

func (r *repl) save(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: :save <path>")
	}

	f, err := model.NewFile(appFS, args[0])
	if err != nil {
		return err
	}

	if err := r.tok.Save(f); err != nil {
		return err
	}

	r.printf("saved %s\n", f.Path())
	return nil
}
