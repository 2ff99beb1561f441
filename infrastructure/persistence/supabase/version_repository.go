package supabase

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/supabase-community/postgrest-go"

	"coursehub-backend/domain/core/entities"
	apperrors "coursehub-backend/pkg/errors"
)

const versionsTable = "lesson_versions"

// VersionRepository stores lesson snapshots in the `lesson_versions`
// table. Rows are append-only; there is no update or delete path.
type VersionRepository struct {
	client *Client
}

// NewVersionRepository creates a version repository
func NewVersionRepository(client *Client) *VersionRepository {
	return &VersionRepository{client: client}
}

// Create appends one snapshot
func (r *VersionRepository) Create(ctx context.Context, version *entities.LessonVersion) error {
	_, err := r.client.execute(ctx, "version create", func() ([]byte, int64, error) {
		return r.client.sb.From(versionsTable).
			Insert(version, false, "", "representation", "").
			Execute()
	})
	return err
}

// ListByLesson returns a lesson's history, newest first
func (r *VersionRepository) ListByLesson(ctx context.Context, lessonID string) ([]entities.LessonVersion, error) {
	data, err := r.client.execute(ctx, "version list", func() ([]byte, int64, error) {
		return r.client.sb.From(versionsTable).
			Select("*", "", false).
			Eq("lesson_id", lessonID).
			Order("version_number", &postgrest.OrderOpts{Ascending: false}).
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var versions []entities.LessonVersion
	if err := json.Unmarshal(data, &versions); err != nil {
		return nil, apperrors.Wrap(err, "decode versions")
	}
	return versions, nil
}

// GetByNumber returns one snapshot
func (r *VersionRepository) GetByNumber(ctx context.Context, lessonID string, number int) (*entities.LessonVersion, error) {
	data, err := r.client.execute(ctx, "version", func() ([]byte, int64, error) {
		return r.client.sb.From(versionsTable).
			Select("*", "", false).
			Eq("lesson_id", lessonID).
			Eq("version_number", strconv.Itoa(number)).
			Single().
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var version entities.LessonVersion
	if err := json.Unmarshal(data, &version); err != nil {
		return nil, apperrors.Wrap(err, "decode version")
	}
	return &version, nil
}
