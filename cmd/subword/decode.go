package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [id...]",
		Short: "Decode token ids back to text",
		Long:  "Decode the ids given as arguments, or whitespace-separated ids read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			ids, err := readIDs(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			tok, err := loadTokenizer(cfg.Paths.ModelPath)
			if err != nil {
				return err
			}

			text, err := tok.Decode(ids)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	return cmd
}

func readIDs(args []string, stdin io.Reader) ([]int, error) {
	fields := args
	if len(fields) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		fields = strings.Fields(string(b))
	}

	return parseIDs(fields)
}

func parseIDs(fields []string) ([]int, error) {
	ids := make([]int, len(fields))
	for i, f := range fields {
		id, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid token id %q", f)
		}
		ids[i] = id
	}
	return ids, nil
}
