package media

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	apperrors "coursehub-backend/pkg/errors"
)

type fakeAssetRepo struct {
	assets     map[string]*entities.MediaAsset
	createFail error
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]*entities.MediaAsset)}
}

func (r *fakeAssetRepo) Create(_ context.Context, a *entities.MediaAsset) error {
	if r.createFail != nil {
		return r.createFail
	}
	copied := *a
	r.assets[a.ID] = &copied
	return nil
}

func (r *fakeAssetRepo) GetByID(_ context.Context, id string) (*entities.MediaAsset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("media asset")
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssetRepo) List(_ context.Context) ([]entities.MediaAsset, error) {
	var out []entities.MediaAsset
	for _, a := range r.assets {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAssetRepo) Update(_ context.Context, a *entities.MediaAsset) error {
	copied := *a
	r.assets[a.ID] = &copied
	return nil
}

func (r *fakeAssetRepo) Delete(_ context.Context, id string) error {
	delete(r.assets, id)
	return nil
}

type fakeBucket struct {
	objects map[string][]byte
	removed []string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte)}
}

func (b *fakeBucket) Upload(_ context.Context, objectName, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	b.objects[objectName] = data
	return objectName, nil
}

func (b *fakeBucket) Remove(_ context.Context, paths []string) error {
	for _, p := range paths {
		delete(b.objects, p)
		b.removed = append(b.removed, p)
	}
	return nil
}

func (b *fakeBucket) PublicURL(path string) string {
	return "https://cdn.example.com/" + path
}

type nopInvalidator struct {
	calls int
}

func (n *nopInvalidator) Invalidate(valueobjects.ContentKind, string) { n.calls++ }

func TestUploadStoresBinaryThenMetadata(t *testing.T) {
	repo := newFakeAssetRepo()
	bucket := newFakeBucket()
	inv := &nopInvalidator{}
	svc := NewService(repo, bucket, inv, zap.NewNop())

	asset, err := svc.Upload(context.Background(), "Course Cover.png", "image/png", 4, bytes.NewReader([]byte("data")))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(asset.Filename, "_Course_Cover.png"), "object names are timestamped and sanitized")
	assert.Contains(t, bucket.objects, asset.StoragePath)
	assert.Contains(t, repo.assets, asset.ID)
	assert.Equal(t, "https://cdn.example.com/"+asset.StoragePath, asset.URL)
	assert.Equal(t, 1, inv.calls)
}

func TestUploadRequiresFilename(t *testing.T) {
	svc := NewService(newFakeAssetRepo(), newFakeBucket(), &nopInvalidator{}, zap.NewNop())

	_, err := svc.Upload(context.Background(), "", "image/png", 0, bytes.NewReader(nil))
	assert.True(t, apperrors.IsValidation(err))
}

func TestUploadCleansUpOrphanOnMetadataFailure(t *testing.T) {
	repo := newFakeAssetRepo()
	repo.createFail = apperrors.NewExternalError("supabase", assert.AnError)
	bucket := newFakeBucket()
	svc := NewService(repo, bucket, &nopInvalidator{}, zap.NewNop())

	_, err := svc.Upload(context.Background(), "photo.jpg", "image/jpeg", 4, bytes.NewReader([]byte("data")))
	require.Error(t, err)

	assert.Empty(t, bucket.objects, "a failed metadata insert must not leave an orphaned object")
	assert.Len(t, bucket.removed, 1)
}

func TestUpdateMetadata(t *testing.T) {
	repo := newFakeAssetRepo()
	svc := NewService(repo, newFakeBucket(), &nopInvalidator{}, zap.NewNop())

	uploaded, err := svc.Upload(context.Background(), "photo.jpg", "image/jpeg", 4, bytes.NewReader([]byte("data")))
	require.NoError(t, err)

	updated, err := svc.UpdateMetadata(context.Background(), uploaded.ID, "A course cover", "course hero")
	require.NoError(t, err)

	assert.Equal(t, "A course cover", updated.AltText)
	assert.Equal(t, "course hero", updated.UsageContext)
}

func TestDeleteRemovesObjectAndRow(t *testing.T) {
	repo := newFakeAssetRepo()
	bucket := newFakeBucket()
	inv := &nopInvalidator{}
	svc := NewService(repo, bucket, inv, zap.NewNop())

	uploaded, err := svc.Upload(context.Background(), "photo.jpg", "image/jpeg", 4, bytes.NewReader([]byte("data")))
	require.NoError(t, err)
	inv.calls = 0

	require.NoError(t, svc.Delete(context.Background(), uploaded.ID))

	assert.Empty(t, bucket.objects)
	assert.Empty(t, repo.assets)
	assert.Equal(t, 1, inv.calls)
}
