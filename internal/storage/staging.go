package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Staging writes inbound files into a shared local staging directory.
// Names carry a timestamp plus a random component so concurrent writers
// cannot collide.
type Staging struct {
	dir string
}

// NewStaging creates a staging writer rooted at dir
func NewStaging(dir string) *Staging {
	return &Staging{dir: dir}
}

// Save writes the file into the staging directory and returns its path.
// The directory is created on first use.
func (s *Staging) Save(file io.Reader, name string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	staged := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Base(name))
	path := filepath.Join(s.dir, staged)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write staged file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close staged file: %w", err)
	}

	return path, nil
}
