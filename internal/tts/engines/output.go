package engines

import (
	"fmt"
	"os"
	"path/filepath"
)

// stagedOutput is a temporary file next to the final output path.
// Backends write into Path and then either Commit or Discard it, so the
// final path only ever holds a complete file.
type stagedOutput struct {
	Path  string
	final string
}

// stageOutput creates the temporary file in the output's directory so the
// final rename stays on one filesystem.
func stageOutput(final string) (*stagedOutput, error) {
	dir := filepath.Dir(final)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(final)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("close temporary file: %w", err)
	}

	return &stagedOutput{Path: f.Name(), final: final}, nil
}

// Commit moves the staged file into place. An empty or missing staged
// file is an error and is removed.
func (s *stagedOutput) Commit() (int64, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		s.Discard()
		return 0, fmt.Errorf("backend produced no output file: %w", err)
	}
	if info.Size() == 0 {
		s.Discard()
		return 0, fmt.Errorf("backend produced an empty output file")
	}
	if err := os.Rename(s.Path, s.final); err != nil {
		s.Discard()
		return 0, fmt.Errorf("move audio into place: %w", err)
	}
	return info.Size(), nil
}

// Discard removes the staged file. It is safe to call more than once.
func (s *stagedOutput) Discard() {
	_ = os.Remove(s.Path)
}
