package supabase

import (
	"context"
	"io"

	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"

	apperrors "coursehub-backend/pkg/errors"
)

// MediaStorage stores media binaries in a Supabase storage bucket
type MediaStorage struct {
	client *Client
	bucket string
	logger *zap.Logger
}

// NewMediaStorage creates a storage adapter over one bucket
func NewMediaStorage(client *Client, bucket string, logger *zap.Logger) *MediaStorage {
	return &MediaStorage{client: client, bucket: bucket, logger: logger}
}

// Upload stores the body under objectName and returns the stored path
func (s *MediaStorage) Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error) {
	type result struct {
		key string
		err error
	}

	done := make(chan result, 1)
	go func() {
		resp, err := s.client.sb.Storage.UploadFile(s.bucket, objectName, body, storage_go.FileOptions{
			ContentType: &contentType,
		})
		done <- result{key: resp.Key, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", apperrors.NewTimeoutError("media upload")
	case res := <-done:
		if res.err != nil {
			return "", apperrors.NewExternalError("supabase storage", res.err)
		}
		return objectName, nil
	}
}

// Remove deletes stored objects; absent paths are not an error
func (s *MediaStorage) Remove(ctx context.Context, paths []string) error {
	done := make(chan error, 1)
	go func() {
		_, err := s.client.sb.Storage.RemoveFile(s.bucket, paths)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return apperrors.NewTimeoutError("media remove")
	case err := <-done:
		if err != nil {
			return apperrors.NewExternalError("supabase storage", err)
		}
		return nil
	}
}

// PublicURL resolves the public URL for a stored path
func (s *MediaStorage) PublicURL(path string) string {
	return s.client.sb.Storage.GetPublicUrl(s.bucket, path).SignedURL
}
