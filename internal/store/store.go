// Package store reads and writes documents through an afero filesystem.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FS is a document store rooted in an afero filesystem.
type FS struct {
	fs       afero.Fs
	permFile os.FileMode
}

// New returns a store over fs.
func New(fs afero.Fs) *FS {
	return &FS{fs: fs, permFile: 0o644}
}

// OS returns a store over the real filesystem.
func OS() *FS {
	return New(afero.NewOsFs())
}

// DryRun returns a store that reads from the real filesystem but keeps
// every write in memory. Reads see earlier writes.
func DryRun() *FS {
	base := afero.NewReadOnlyFs(afero.NewOsFs())
	return New(afero.NewCopyOnWriteFs(base, afero.NewMemMapFs()))
}

// List returns the regular files directly inside dir whose name ends in
// ext, sorted by name.
func (s *FS) List(dir, ext string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the content of path.
func (s *FS) Read(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write replaces the content of path atomically: the text goes to a
// temporary file in the same directory which is then renamed over path.
func (s *FS) Write(path, text string) error {
	perm := s.permFile
	if info, err := s.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := afero.TempFile(s.fs, dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = s.fs.Remove(tmpName) }
	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := s.fs.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
