package bench_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/go-subword/internal/bench"
)

// ---------------------------------------------------------------------------
// Aggregation (min/max/mean)
// ---------------------------------------------------------------------------

func TestStats_MinMaxMean(t *testing.T) {
	durations := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
	}
	s := bench.ComputeStats(durations)

	if s.Min != 100*time.Millisecond {
		t.Errorf("want min=100ms, got %v", s.Min)
	}

	if s.Max != 300*time.Millisecond {
		t.Errorf("want max=300ms, got %v", s.Max)
	}

	if s.Mean != 200*time.Millisecond {
		t.Errorf("want mean=200ms, got %v", s.Mean)
	}
}

func TestStats_SingleRun(t *testing.T) {
	s := bench.ComputeStats([]time.Duration{150 * time.Millisecond})
	if s.Min != s.Max || s.Min != s.Mean {
		t.Errorf("single run: min/max/mean should all be equal, got min=%v max=%v mean=%v", s.Min, s.Max, s.Mean)
	}
}

func TestStats_Empty(t *testing.T) {
	if s := bench.ComputeStats(nil); s != (bench.Stats{}) {
		t.Errorf("want zero stats, got %+v", s)
	}
}

// ---------------------------------------------------------------------------
// Running
// ---------------------------------------------------------------------------

func TestRun_RecordsEachRun(t *testing.T) {
	calls := 0
	encode := func(text string) ([]int, error) {
		calls++
		return make([]int, len(text)), nil
	}

	runs, err := bench.Run(encode, "hello", 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if calls != 3 || len(runs) != 3 {
		t.Fatalf("want 3 runs, got %d results from %d calls", len(runs), calls)
	}

	for i, r := range runs {
		if r.Index != i || r.Cold != (i == 0) {
			t.Errorf("run %d: index=%d cold=%v", i, r.Index, r.Cold)
		}
		if r.Tokens != 5 || r.Bytes != 5 {
			t.Errorf("run %d: tokens=%d bytes=%d; want 5/5", i, r.Tokens, r.Bytes)
		}
	}
}

func TestRun_StopsOnEncodeError(t *testing.T) {
	errBoom := errors.New("boom")
	encode := func(string) ([]int, error) { return nil, errBoom }

	_, err := bench.Run(encode, "x", 2)
	if !errors.Is(err, errBoom) {
		t.Fatalf("want wrapped encode error, got %v", err)
	}
	if !strings.Contains(err.Error(), "run 1") {
		t.Errorf("want run number in error, got %q", err)
	}
}

func TestRun_RejectsZeroRuns(t *testing.T) {
	_, err := bench.Run(func(string) ([]int, error) { return nil, nil }, "x", 0)
	if err == nil {
		t.Error("want error for zero runs")
	}
}

// ---------------------------------------------------------------------------
// Throughput
// ---------------------------------------------------------------------------

func TestThroughput_Calculation(t *testing.T) {
	// 500 tokens in 250ms → 2000 tokens/s
	got := bench.CalcThroughput(500, 250*time.Millisecond)
	if got < 1999.9 || got > 2000.1 {
		t.Errorf("want ≈2000 tokens/s, got %.4f", got)
	}
}

func TestThroughput_ZeroDuration(t *testing.T) {
	if got := bench.CalcThroughput(10, 0); got != 0 {
		t.Errorf("want 0 for zero duration, got %.4f", got)
	}
}

func TestMeanThroughput(t *testing.T) {
	runs := []bench.RunResult{{TokensPerSec: 100}, {TokensPerSec: 300}}
	if got := bench.MeanThroughput(runs); got != 200 {
		t.Errorf("want 200, got %v", got)
	}
	if got := bench.MeanThroughput(nil); got != 0 {
		t.Errorf("want 0 for no runs, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Throughput floor gate
// ---------------------------------------------------------------------------

func TestThroughputFloor(t *testing.T) {
	tests := []struct {
		name    string
		mean    float64
		floor   float64
		wantErr bool
	}{
		{"below floor", 900, 1000, true},
		{"above floor", 1100, 1000, false},
		{"exactly at floor", 1000, 1000, false},
		{"disabled when zero", 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bench.CheckThroughputFloor(tt.mean, tt.floor)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckThroughputFloor(%v, %v) = %v; wantErr=%v", tt.mean, tt.floor, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Output formatting
// ---------------------------------------------------------------------------

func TestFormatTable_ContainsHeaders(t *testing.T) {
	runs := []bench.RunResult{
		{Index: 0, Cold: true, Duration: 8 * time.Millisecond, Tokens: 40, TokensPerSec: 5000},
		{Index: 1, Cold: false, Duration: 5 * time.Millisecond, Tokens: 40, TokensPerSec: 8000},
	}
	stats := bench.ComputeStats([]time.Duration{8 * time.Millisecond, 5 * time.Millisecond})

	var buf strings.Builder
	bench.FormatTable(runs, stats, &buf)
	out := buf.String()

	for _, want := range []string{"run", "cold", "ms", "tokens/s", "(mean)", "8000"} {
		if !strings.Contains(strings.ToLower(out), want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON_IsValidJSON(t *testing.T) {
	runs := []bench.RunResult{
		{Index: 0, Cold: true, Duration: 8 * time.Millisecond, Bytes: 12, Tokens: 4, TokensPerSec: 500},
	}
	stats := bench.ComputeStats([]time.Duration{8 * time.Millisecond})

	var buf bytes.Buffer
	bench.FormatJSON(runs, stats, &buf)

	var out struct {
		Runs []struct {
			Tokens     int     `json:"tokens"`
			DurationMS float64 `json:"duration_ms"`
		} `json:"runs"`
		Stats struct {
			MeanMS float64 `json:"mean_ms"`
		} `json:"stats"`
	}

	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v\n%s", err, buf.String())
	}

	if len(out.Runs) != 1 || out.Runs[0].Tokens != 4 || out.Runs[0].DurationMS != 8 {
		t.Errorf("unexpected runs: %+v", out.Runs)
	}
	if out.Stats.MeanMS != 8 {
		t.Errorf("mean_ms = %v; want 8", out.Stats.MeanMS)
	}
}
