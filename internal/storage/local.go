package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// LocalStore is an ObjectStore that copies files under Root. Buckets become directories and
// presigned links are file:// URLs. It serves local runs without AWS access.
type LocalStore struct {
	Root string
}

var _ ObjectStore = (*LocalStore)(nil)

// NewLocalStore returns a LocalStore rooted at root.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

func (s *LocalStore) Upload(ctx context.Context, localPath, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return &UploadError{Message: "upload canceled", Bucket: bucket, Key: key, Cause: err}
	}

	src, err := os.Open(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &FileNotFoundError{Path: localPath, Cause: err}
		}
		return &UploadError{Message: "failed to open local file", Bucket: bucket, Key: key, Cause: err}
	}
	defer func() { _ = src.Close() }()

	dest := s.path(bucket, key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &UploadError{Message: "failed to create destination directory", Bucket: bucket, Key: key, Cause: err}
	}

	dst, err := os.Create(dest)
	if err != nil {
		return &UploadError{Message: "failed to create destination file", Bucket: bucket, Key: key, Cause: err}
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return &UploadError{Message: "failed to copy file", Bucket: bucket, Key: key, Cause: err}
	}
	if err := dst.Close(); err != nil {
		return &UploadError{Message: "failed to flush file", Bucket: bucket, Key: key, Cause: err}
	}
	return nil
}

func (s *LocalStore) PresignGet(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	dest := s.path(bucket, key)
	if _, err := os.Stat(dest); err != nil {
		return "", &UploadError{Message: "object does not exist", Bucket: bucket, Key: key, Cause: err}
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dest, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

func (s *LocalStore) path(bucket, key string) string {
	return filepath.Join(s.Root, bucket, filepath.FromSlash(key))
}
