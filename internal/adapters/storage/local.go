package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore stores resumes under a directory on the local filesystem.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create resume upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

var _ ResumeStore = (*LocalStore)(nil)

// Save writes the resume to disk under a collision-free name.
func (s *LocalStore) Save(_ context.Context, fileName, _ string, r io.Reader, _ int64) (string, error) {
	key := uniqueKey(fileName)
	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create resume file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write resume file: %w", err)
	}

	return key, nil
}

// Open returns a reader over the stored resume.
func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil {
		return nil, fmt.Errorf("open resume file: %w", err)
	}
	return f, nil
}

// Delete removes the stored resume; missing files are ignored.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete resume file: %w", err)
	}
	return nil
}

func uniqueKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	return base + "_" + uuid.NewString() + ext
}
