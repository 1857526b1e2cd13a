package model

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/example/go-subword/internal/tokenizer"
	"github.com/spf13/afero"
)

// ErrEmptyPath is returned when a File is created with an empty path.
var ErrEmptyPath = errors.New("model path must not be empty")

// File stores a model document at a path on a filesystem. It satisfies
// tokenizer.ModelReader and tokenizer.ModelWriter.
type File struct {
	fs     afero.Fs
	path   string
	format Format
}

// NewFile returns a File for path. A nil fs means the OS filesystem.
func NewFile(fs afero.Fs, path string) (*File, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &File{fs: fs, path: path, format: FormatFor(path)}, nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Exists reports whether the file is present.
func (f *File) Exists() (bool, error) {
	ok, err := afero.Exists(f.fs, f.path)
	if err != nil {
		return false, fmt.Errorf("stat model %q: %w", f.path, err)
	}

	return ok, nil
}

// ReadModel reads and validates the model document.
func (f *File) ReadModel() (*tokenizer.Model, error) {
	r, err := f.fs.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open model %q: %w", f.path, err)
	}

	defer func() { _ = r.Close() }()

	m, err := Decode(r, f.format)
	if err != nil {
		return nil, fmt.Errorf("read model %q: %w", f.path, err)
	}

	return m, nil
}

// WriteModel writes the document next to the target and renames it into
// place, so a failed write never leaves a truncated model behind.
func (f *File) WriteModel(m *tokenizer.Model) error {
	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	tmp, err := afero.TempFile(f.fs, dir, ".model-*")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}

	tmpPath := tmp.Name()
	defer func() { _ = f.fs.Remove(tmpPath) }() // no-op after a successful rename

	if err := Encode(tmp, m, f.format); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp model file: %w", err)
	}

	if err := f.fs.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod model: %w", err)
	}

	if err := f.fs.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("rename model into place: %w", err)
	}

	return nil
}
