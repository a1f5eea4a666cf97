// internal/storage/local.go
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const defaultLocalURL = "/uploads"

// LocalStore keeps blobs under a directory that the router serves as static
// files. Signed URLs are plain public URLs with an expiry hint.
type LocalStore struct {
	baseDir   string
	publicURL string
}

func NewLocalStore(baseDir, publicURL string) (*LocalStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base dir required for local driver")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure base dir: %w", err)
	}
	if publicURL == "" {
		publicURL = defaultLocalURL
	}
	return &LocalStore{baseDir: baseDir, publicURL: publicURL}, nil
}

func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(SanitizeKey(key)))
}

func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (*Object, error) {
	key = SanitizeKey(key)
	dst := s.path(key)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &Object{
		Key:         key,
		URL:         joinURL(s.publicURL, key),
		Size:        n,
		ContentType: contentType,
	}, nil
}

func (s *LocalStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	key = SanitizeKey(key)
	if _, err := os.Stat(s.path(key)); err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", key, err)
	}

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
	return joinURL(s.publicURL, key) + "?" + q.Encode(), nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
