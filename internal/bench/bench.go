// Package bench provides benchmarking primitives for the subword bench command.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and size metadata for a single encode run.
type RunResult struct {
	Index        int
	Cold         bool // true for the first run
	Duration     time.Duration
	Bytes        int
	Tokens       int
	TokensPerSec float64
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// An empty slice yields zero Stats.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// ---------------------------------------------------------------------------
// Running
// ---------------------------------------------------------------------------

// EncodeFunc encodes one text into token ids.
type EncodeFunc func(text string) ([]int, error)

// Run encodes text runs times and records each run. The first run is
// marked cold.
func Run(encode EncodeFunc, text string, runs int) ([]RunResult, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	results := make([]RunResult, 0, runs)
	for i := 0; i < runs; i++ {
		start := time.Now()
		ids, err := encode(text)
		if err != nil {
			return nil, fmt.Errorf("run %d failed: %w", i+1, err)
		}
		dur := time.Since(start)

		results = append(results, RunResult{
			Index:        i,
			Cold:         i == 0,
			Duration:     dur,
			Bytes:        len(text),
			Tokens:       len(ids),
			TokensPerSec: CalcThroughput(len(ids), dur),
		})
	}

	return results, nil
}

// CalcThroughput returns tokens per second.
// Returns 0 if d is zero to avoid division by zero.
func CalcThroughput(tokens int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(tokens) / d.Seconds()
}

// MeanThroughput averages TokensPerSec over runs.
func MeanThroughput(runs []RunResult) float64 {
	if len(runs) == 0 {
		return 0
	}
	var total float64
	for _, r := range runs {
		total += r.TokensPerSec
	}
	return total / float64(len(runs))
}

// ---------------------------------------------------------------------------
// Throughput floor gate
// ---------------------------------------------------------------------------

// CheckThroughputFloor returns an error if mean < floor.
// A floor of 0 disables the gate.
func CheckThroughputFloor(mean, floor float64) error {
	if floor <= 0 {
		return nil
	}
	if mean < floor {
		return fmt.Errorf("mean throughput %.0f tokens/s is below floor %.0f", mean, floor)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %8s  %12s\n", "Run", "Cold", "MS", "Tokens", "Tokens/s")
	fmt.Fprintln(sb, strings.Repeat("-", 48))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.3f  %8d  %12.0f\n",
			r.Index+1,
			cold,
			ms(r.Duration),
			r.Tokens,
			r.TokensPerSec,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 48))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (min)\n", "", "", ms(stats.Min))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (mean)\n", "", "", ms(stats.Mean))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (max)\n", "", "", ms(stats.Max))

	fmt.Fprint(w, sb.String())
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index        int     `json:"index"`
	Cold         bool    `json:"cold"`
	DurationMS   float64 `json:"duration_ms"`
	Bytes        int     `json:"bytes"`
	Tokens       int     `json:"tokens"`
	TokensPerSec float64 `json:"tokens_per_sec"`
}

type jsonStats struct {
	MinMS  float64 `json:"min_ms"`
	MeanMS float64 `json:"mean_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:  ms(stats.Min),
			MeanMS: ms(stats.Mean),
			MaxMS:  ms(stats.Max),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:        r.Index,
			Cold:         r.Cold,
			DurationMS:   ms(r.Duration),
			Bytes:        r.Bytes,
			Tokens:       r.Tokens,
			TokensPerSec: r.TokensPerSec,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}
