// Package storage provides a domain-agnostic blob store for resume files.
// Two backends are supported: a local directory for single-node deployments
// and an S3-compatible MinIO backend.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"recruiting_portal_backend/platform/apperr"
)

// ResumeStore defines the interface for resume blob operations.
// Keys returned by Save are opaque to callers and stored on the candidate.
type ResumeStore interface {
	// Save stores a resume and returns its blob key.
	Save(ctx context.Context, fileName, contentType string, r io.Reader, size int64) (string, error)

	// Open returns a reader for a stored resume.
	// The caller is responsible for closing the returned io.ReadCloser.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a stored resume. Missing blobs are not an error.
	Delete(ctx context.Context, key string) error
}

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
}

// ValidateUpload checks extension and size limits before a resume is stored.
// Legacy binary .doc files are rejected as unsupported.
func ValidateUpload(fileName string, size, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".doc" {
		return apperr.Validation("Legacy .doc format not supported. Please use .docx or .pdf")
	}
	if !allowedExtensions[ext] {
		return apperr.Validation(fmt.Sprintf("Unsupported file format: %s", fileName))
	}
	if maxSize > 0 && size > maxSize {
		return apperr.PayloadTooLarge(fmt.Sprintf("Resume exceeds the upload limit of %d bytes", maxSize))
	}
	return nil
}
