// Package doctor provides environment preflight checks for subword.
package doctor

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/example/go-subword/internal/corpus"
	"github.com/example/go-subword/internal/model"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// minGoMinor is the oldest Go 1.x release the tool is supported on.
const minGoMinor = 22

// VersionFunc returns a version string or an error if the component is unavailable.
type VersionFunc func() (string, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// FS is the filesystem corpus and model paths resolve against. Nil
	// means the OS filesystem.
	FS afero.Fs
	// GoVersion returns the runtime version (e.g. "go1.25.0"). Nil skips the check.
	GoVersion VersionFunc
	// CorpusPaths are training corpora that must be readable UTF-8.
	CorpusPaths []string
	// Normalize is the normalization form applied when reading corpora.
	Normalize string
	// ModelPath is a model document that must load and verify. Empty skips it.
	ModelPath string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	fs := cfg.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	// ---- Go runtime -------------------------------------------------------
	if cfg.GoVersion == nil {
		fmt.Fprintf(w, "%s go version: skipped\n", PassMark)
	} else {
		ver, err := cfg.GoVersion()
		if err != nil {
			res.fail(fmt.Sprintf("go version: %v", err))
			fmt.Fprintf(w, "%s go version: unavailable (%v)\n", FailMark, err)
		} else if goErr := checkGoVersion(ver); goErr != nil {
			res.fail(fmt.Sprintf("go version: %v", goErr))
			fmt.Fprintf(w, "%s go version %s: %v\n", FailMark, ver, goErr)
		} else {
			fmt.Fprintf(w, "%s go version: %s\n", PassMark, ver)
		}
	}

	// ---- corpus files -----------------------------------------------------
	for _, path := range cfg.CorpusPaths {
		text, err := corpus.Read(fs, cfg.Normalize, path)
		if err != nil {
			res.fail(fmt.Sprintf("corpus %q: %v", path, err))
			fmt.Fprintf(w, "%s corpus %s: %v\n", FailMark, path, err)
			continue
		}
		fmt.Fprintf(w, "%s corpus %s: %s\n", PassMark, path, corpus.Describe(text))
	}

	// ---- model document ---------------------------------------------------
	if cfg.ModelPath != "" {
		checkModel(fs, cfg.ModelPath, w, &res)
	}

	return res
}

func checkModel(fs afero.Fs, path string, w io.Writer, res *Result) {
	f, err := model.NewFile(fs, path)
	if err != nil {
		res.fail(fmt.Sprintf("model %q: %v", path, err))
		fmt.Fprintf(w, "%s model %s: %v\n", FailMark, path, err)
		return
	}

	m, err := f.ReadModel()
	if err != nil {
		res.fail(fmt.Sprintf("model %q: %v", path, err))
		fmt.Fprintf(w, "%s model %s: %v\n", FailMark, path, err)
		return
	}

	if err := model.Verify(m); err != nil {
		res.fail(fmt.Sprintf("model %q verification: %v", path, err))
		fmt.Fprintf(w, "%s model %s verification: %v\n", FailMark, path, err)
		return
	}

	fmt.Fprintf(w, "%s model %s: %d symbols, %d merges\n",
		PassMark, path, m.VocabSize(), len(m.Merges()))
}

// checkGoVersion returns an error if ver is older than go1.22.
// ver is expected to be a string like "go1.25.0" or "1.25".
func checkGoVersion(ver string) error {
	major, minor, err := parseMajorMinor(strings.TrimPrefix(ver, "go"))
	if err != nil {
		return fmt.Errorf("cannot parse %q: %w", ver, err)
	}
	if major != 1 {
		return fmt.Errorf("requires Go 1, got %d", major)
	}
	if minor < minGoMinor {
		return fmt.Errorf("requires Go >=1.%d, got 1.%d", minGoMinor, minor)
	}
	return nil
}

func parseMajorMinor(ver string) (major, minor int, err error) {
	parts := strings.SplitN(ver, ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("unexpected version format %q", ver)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad major in %q: %w", ver, err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad minor in %q: %w", ver, err)
	}
	return major, minor, nil
}
