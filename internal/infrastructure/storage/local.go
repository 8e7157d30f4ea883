package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"legal-literacy-portal/pkg/logger"
)

// LocalStore keeps query attachments under a directory on disk
type LocalStore struct {
	root   string
	logger *logger.Logger
}

// NewLocalStore creates root if needed
func NewLocalStore(root string, log *logger.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{root: root, logger: log.WithComponent("local-store")}, nil
}

// Put writes data to root/key and returns the file path
func (s *LocalStore) Put(_ context.Context, key string, data []byte) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create attachment directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}

	s.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("attachment stored")
	return path, nil
}

// Delete removes root/key and its query directory once empty. A missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove attachment: %w", err)
	}
	if dir := filepath.Dir(path); dir != filepath.Clean(s.root) {
		_ = os.Remove(dir)
	}

	s.logger.Debug().Str("path", path).Msg("attachment removed")
	return nil
}

func (s *LocalStore) pathFor(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(path, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid attachment key %q", key)
	}
	return path, nil
}
