// Package storage provides local filesystem storage for uploaded receipt
// files, with path validation to keep writes inside the base directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LocalFileStorage stores uploads under a base directory
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalFileStorage creates a new local file storage rooted at baseDir
func NewLocalFileStorage(baseDir string, logger *zap.Logger) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalFileStorage{
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// SaveUpload writes an uploaded file under the base directory, prefixing
// the name with a timestamp to avoid collisions, and returns the stored
// path. The original name is sanitized to its base name first.
func (s *LocalFileStorage) SaveUpload(originalName string, content []byte) (string, error) {
	name := filepath.Base(strings.TrimSpace(originalName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid upload file name %q", originalName)
	}

	stored := fmt.Sprintf("%d_%s", time.Now().UnixNano(), name)
	fullPath := filepath.Join(s.baseDir, stored)

	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to store upload",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	s.logger.Debug("Upload stored",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))
	return fullPath, nil
}

// Exists reports whether a file exists at the given path
func (s *LocalFileStorage) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// validatePath rejects paths escaping the base directory
func (s *LocalFileStorage) validatePath(fullPath string) error {
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes storage directory", fullPath)
	}
	return nil
}
