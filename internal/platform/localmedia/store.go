package localmedia

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

// Store persists media objects (novel covers) on the local filesystem and
// hands out the public URLs the API serves them under. Object keys are
// slash-separated relative paths.
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type store struct {
	log     *logger.Logger
	baseDir string
	baseURL string
}

func NewStore(baseLog *logger.Logger, baseDir, baseURL string) (Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("media base dir is empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media base dir: %w", err)
	}
	return &store{
		log:     baseLog.With("platform", "localmedia"),
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *store) Save(ctx context.Context, key string, data []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write media object: %w", err)
	}
	s.log.Debug("Saved media object", "key", key, "bytes", len(data))
	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media object: %w", err)
	}
	return nil
}

func (s *store) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// resolve rejects keys that would escape the base dir.
func (s *store) resolve(key string) (string, error) {
	clean := filepath.Clean(strings.TrimLeft(key, "/"))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return filepath.Join(s.baseDir, clean), nil
}
