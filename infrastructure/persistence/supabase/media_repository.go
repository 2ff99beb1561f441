package supabase

import (
	"context"
	"encoding/json"

	"github.com/supabase-community/postgrest-go"

	"coursehub-backend/domain/core/entities"
	apperrors "coursehub-backend/pkg/errors"
)

const mediaTable = "media_assets"

// MediaRepository persists media asset metadata in the `media_assets`
// table
type MediaRepository struct {
	client *Client
}

// NewMediaRepository creates a media repository
func NewMediaRepository(client *Client) *MediaRepository {
	return &MediaRepository{client: client}
}

// Create inserts a new asset row
func (r *MediaRepository) Create(ctx context.Context, asset *entities.MediaAsset) error {
	_, err := r.client.execute(ctx, "media create", func() ([]byte, int64, error) {
		return r.client.sb.From(mediaTable).
			Insert(asset, false, "", "representation", "").
			Execute()
	})
	return err
}

// GetByID returns one asset
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*entities.MediaAsset, error) {
	data, err := r.client.execute(ctx, "media", func() ([]byte, int64, error) {
		return r.client.sb.From(mediaTable).
			Select("*", "", false).
			Eq("id", id).
			Single().
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var asset entities.MediaAsset
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, apperrors.Wrap(err, "decode media asset")
	}
	return &asset, nil
}

// List returns all assets, newest first
func (r *MediaRepository) List(ctx context.Context) ([]entities.MediaAsset, error) {
	data, err := r.client.execute(ctx, "media list", func() ([]byte, int64, error) {
		return r.client.sb.From(mediaTable).
			Select("*", "", false).
			Order("created_at", &postgrest.OrderOpts{Ascending: false}).
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var assets []entities.MediaAsset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, apperrors.Wrap(err, "decode media assets")
	}
	return assets, nil
}

// Update overwrites an asset row
func (r *MediaRepository) Update(ctx context.Context, asset *entities.MediaAsset) error {
	_, err := r.client.execute(ctx, "media update", func() ([]byte, int64, error) {
		return r.client.sb.From(mediaTable).
			Update(asset, "representation", "").
			Eq("id", asset.ID).
			Execute()
	})
	return err
}

// Delete removes an asset row
func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.execute(ctx, "media delete", func() ([]byte, int64, error) {
		return r.client.sb.From(mediaTable).
			Delete("", "").
			Eq("id", id).
			Execute()
	})
	return err
}
