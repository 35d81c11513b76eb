// Package atomicfile replaces files without leaving torn writes behind.
package atomicfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data to path by writing a sibling temp file and renaming
// it into place.
//
// If perm is 0 the existing file's mode is kept, falling back to 0644 for new
// files.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = existingMode(path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	// Some filesystems reject chmod on temp files; the rename still works.
	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Windows refuses to rename over an existing file.
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
	}

	committed = true
	return nil
}

// WriteFileIfChanged writes data only when it differs from the current
// contents of path. It reports whether a write happened.
func WriteFileIfChanged(path string, data []byte, perm os.FileMode) (bool, error) {
	current, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(current, data) {
			return false, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := WriteFile(path, data, perm); err != nil {
		return false, err
	}
	return true, nil
}

func existingMode(path string) os.FileMode {
	if st, err := os.Stat(path); err == nil {
		return st.Mode().Perm()
	}
	return 0o644
}
