package model

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/example/go-subword/internal/tokenizer"
)

func TestVerify_TrainedModelPasses(t *testing.T) {
	if err := Verify(trainedModel(t)); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerify_RejectsInconsistentModels(t *testing.T) {
	tests := []struct {
		name   string
		vocab  []string
		merges []tokenizer.Pair
	}{
		{
			name:   "merge result out of place",
			vocab:  []string{"a", "b", "ba"},
			merges: []tokenizer.Pair{{Left: "a", Right: "b"}},
		},
		{
			name:   "multi-character alphabet entry",
			vocab:  []string{"ab", "c", "abc"},
			merges: []tokenizer.Pair{{Left: "ab", Right: "c"}},
		},
		{
			name:   "merge uses a symbol before it exists",
			vocab:  []string{"ab"},
			merges: []tokenizer.Pair{{Left: "a", Right: "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tokenizer.NewModel(tt.vocab, tt.merges)
			if err != nil {
				t.Fatalf("NewModel: %v", err)
			}

			if err := Verify(m); !errors.Is(err, tokenizer.ErrMalformedModel) {
				t.Fatalf("Verify: got %v, want ErrMalformedModel", err)
			}
		})
	}
}

func TestVerifyFile(t *testing.T) {
	f, _ := newMemFile(t, "tok.json")
	if err := f.WriteModel(trainedModel(t)); err != nil {
		t.Fatalf("WriteModel: %v", err)
	}

	var out bytes.Buffer

	m, err := VerifyFile(VerifyOptions{File: f, Stdout: &out})
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}

	if m == nil {
		t.Fatal("expected the verified model")
	}

	if n := strings.Count(out.String(), "✓"); n != 3 {
		t.Fatalf("expected 3 passing checks, got %d:\n%s", n, out.String())
	}
}

func TestVerifyFile_Missing(t *testing.T) {
	f, _ := newMemFile(t, "missing.json")

	if _, err := VerifyFile(VerifyOptions{File: f}); err == nil {
		t.Fatal("expected error for missing model file")
	}
}
