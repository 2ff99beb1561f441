// Package media manages binary assets: bucket upload, metadata rows,
// and public URL resolution.
package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"coursehub-backend/application/ports"
	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	apperrors "coursehub-backend/pkg/errors"
)

// Invalidator is the cache-cascade hook
type Invalidator interface {
	Invalidate(kind valueobjects.ContentKind, id string)
}

// Service coordinates the storage bucket and the media_assets table.
// The binary goes into the bucket first; a metadata row exists only for
// a stored object.
type Service struct {
	repo        ports.MediaRepository
	storage     ports.MediaStorage
	invalidator Invalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a media service
func NewService(repo ports.MediaRepository, storage ports.MediaStorage, invalidator Invalidator, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		storage:     storage,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// Asset pairs a metadata row with its resolved public URL
type Asset struct {
	entities.MediaAsset
	URL string `json:"url"`
}

// Upload stores the binary and records its metadata. Object names are
// timestamp-prefixed so re-uploads of the same filename never collide.
func (s *Service) Upload(ctx context.Context, originalFilename, contentType string, size int64, body io.Reader) (*Asset, error) {
	if originalFilename == "" {
		return nil, apperrors.NewFieldValidationError("filename", "filename is required")
	}

	objectName := fmt.Sprintf("%d_%s", s.now().UnixMilli(), sanitizeFilename(originalFilename))

	path, err := s.storage.Upload(ctx, objectName, contentType, body)
	if err != nil {
		return nil, err
	}

	asset, err := entities.NewMediaAsset(objectName, originalFilename, path, contentType, size)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		// Best effort: do not leave an orphaned object behind
		if rmErr := s.storage.Remove(ctx, []string{path}); rmErr != nil {
			s.logger.Warn("orphaned media object after failed metadata insert",
				zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}

	s.invalidator.Invalidate(valueobjects.KindMedia, asset.ID)

	return &Asset{MediaAsset: *asset, URL: s.storage.PublicURL(path)}, nil
}

// Get returns one asset with its URL
func (s *Service) Get(ctx context.Context, id string) (*Asset, error) {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Asset{MediaAsset: *asset, URL: s.storage.PublicURL(asset.StoragePath)}, nil
}

// List returns all assets with URLs, newest first
func (s *Service) List(ctx context.Context) ([]Asset, error) {
	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make([]Asset, 0, len(assets))
	for _, a := range assets {
		resolved = append(resolved, Asset{MediaAsset: a, URL: s.storage.PublicURL(a.StoragePath)})
	}
	return resolved, nil
}

// UpdateMetadata changes an asset's alt text and usage context
func (s *Service) UpdateMetadata(ctx context.Context, id, altText, usageContext string) (*Asset, error) {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	asset.AltText = altText
	asset.UsageContext = usageContext
	asset.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(valueobjects.KindMedia, id)
	return &Asset{MediaAsset: *asset, URL: s.storage.PublicURL(asset.StoragePath)}, nil
}

// Delete removes the stored object, then the metadata row
func (s *Service) Delete(ctx context.Context, id string) error {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Remove(ctx, []string{asset.StoragePath}); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidator.Invalidate(valueobjects.KindMedia, id)
	return nil
}

// sanitizeFilename keeps object names URL- and filesystem-safe
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
