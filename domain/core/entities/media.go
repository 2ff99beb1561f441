package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MediaAsset describes a binary stored in the media bucket. Rows map to
// the `media_assets` table; the binary itself lives in object storage
// under StoragePath.
type MediaAsset struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	StoragePath      string    `json:"storage_path"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	UsageContext     string    `json:"usage_context"`
	ReferencedBy     string    `json:"referenced_by,omitempty"`
	AltText          string    `json:"alt_text"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewMediaAsset records an uploaded binary
func NewMediaAsset(filename, originalFilename, storagePath, mimeType string, size int64) (*MediaAsset, error) {
	if filename == "" {
		return nil, errors.New("media filename cannot be empty")
	}
	if storagePath == "" {
		return nil, errors.New("media storage path cannot be empty")
	}
	if size < 0 {
		return nil, errors.New("media file size cannot be negative")
	}

	now := time.Now()
	return &MediaAsset{
		ID:               uuid.New().String(),
		Filename:         filename,
		OriginalFilename: originalFilename,
		StoragePath:      storagePath,
		FileSize:         size,
		MimeType:         mimeType,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
