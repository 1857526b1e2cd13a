package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/go-subword/internal/bench"
)

func newBenchCmd() *cobra.Command {
	var (
		text   string
		runs   int
		format string
		floor  float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark encoding latency and throughput",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			tok, err := loadTokenizer(cfg.Paths.ModelPath)
			if err != nil {
				return err
			}

			input := text
			if input == "" {
				texts, err := readTokenizeInputs(nil, nil, cmd.InOrStdin())
				if err != nil {
					return err
				}
				input = texts[0]
			}

			results, err := bench.Run(tok.Tokenize, input, runs)
			if err != nil {
				return err
			}

			durations := make([]time.Duration, len(results))
			for i, r := range results {
				durations[i] = r.Duration
			}
			stats := bench.ComputeStats(durations)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				bench.FormatJSON(results, stats, out)
			default:
				bench.FormatTable(results, stats, out)
			}

			return bench.CheckThroughputFloor(bench.MeanThroughput(results), floor)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to encode for each run (if empty, read from stdin)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of encode runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&floor, "min-tokens-per-sec", 0, "Exit non-zero if mean throughput is below this value (0 = disabled)")

	return cmd
}
