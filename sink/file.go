package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// File writes lines to a temporary file next to path. The target is only
// replaced by Commit, so a failed run leaves the previous output in place.
type File struct {
	path  string
	f     *os.File
	lines *Lines
	done  bool
}

func CreateFile(path string) (*File, error) {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("file: create: %w", err)
	}
	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("file: chmod: %w", err)
	}
	return &File{path: path, f: f, lines: NewLines(f)}, nil
}

func (s *File) Write(ctx context.Context, emails []string) error {
	return s.lines.Write(ctx, emails)
}

// Commit closes the temporary file and renames it over the target.
func (s *File) Commit() error {
	if s.done {
		return nil
	}
	s.done = true
	tmp := s.f.Name()
	if err := s.f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file: close: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file: rename: %w", err)
	}
	return nil
}

// Abort drops the temporary file. It is a no-op after Commit.
func (s *File) Abort() {
	if s.done {
		return
	}
	s.done = true
	_ = s.f.Close()
	_ = os.Remove(s.f.Name())
}
