package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lucasols/vindur-sub001/internal/diag"
)

// FileSystem is the file access collaborator. ReadFile must return an error
// wrapping diag.ErrFileNotFound (or fs.ErrNotExist) for missing files.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the host file system.
type OSFS struct{}

// ReadFile implements FileSystem
func (OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 - paths come from import resolution inside the project
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// MapFS is an in-memory FileSystem keyed by cleaned absolute path.
type MapFS map[string]string

// ReadFile implements FileSystem
func (m MapFS) ReadFile(path string) ([]byte, error) {
	src, ok := m[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
	}
	return []byte(src), nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, diag.ErrFileNotFound)
}
