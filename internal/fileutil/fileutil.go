package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteFile creates the parent directories of path and overwrites it with
// data using default permissions (0o644). The write always happens; changed
// reports whether the previous contents differed.
func WriteFile(path string, data []byte) (changed bool, err error) {
	return WriteFileMode(path, data, 0o644)
}

// WriteFileMode is WriteFile with an explicit file mode.
func WriteFileMode(path string, data []byte, mode os.FileMode) (bool, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create output directory: %w", err)
		}
	}

	previous, err := HashFile(path)
	changed := true
	switch {
	case err == nil:
		current := sha256.Sum256(data)
		changed = !bytes.Equal(previous, current[:])
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, fmt.Errorf("hash existing output: %w", err)
	}

	if err := os.WriteFile(path, data, mode); err != nil {
		return false, fmt.Errorf("write output: %w", err)
	}
	return changed, nil
}

// HashFile returns the SHA256 digest of the file at path.
func HashFile(path string) ([]byte, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, in); err != nil {
		return nil, err
	}
	return hasher.Sum(nil), nil
}
