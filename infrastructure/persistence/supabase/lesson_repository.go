package supabase

import (
	"context"
	"encoding/json"

	"github.com/supabase-community/postgrest-go"

	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	apperrors "coursehub-backend/pkg/errors"
)

const lessonsTable = "lessons"

// LessonRepository persists lessons in the `lessons` table
type LessonRepository struct {
	client *Client
}

// NewLessonRepository creates a lesson repository
func NewLessonRepository(client *Client) *LessonRepository {
	return &LessonRepository{client: client}
}

// Create inserts a new lesson
func (r *LessonRepository) Create(ctx context.Context, lesson *entities.Lesson) error {
	_, err := r.client.execute(ctx, "lesson create", func() ([]byte, int64, error) {
		return r.client.sb.From(lessonsTable).
			Insert(lesson, false, "", "representation", "").
			Execute()
	})
	return err
}

// GetByID returns one lesson
func (r *LessonRepository) GetByID(ctx context.Context, id string) (*entities.Lesson, error) {
	data, err := r.client.execute(ctx, "lesson", func() ([]byte, int64, error) {
		return r.client.sb.From(lessonsTable).
			Select("*", "", false).
			Eq("id", id).
			Single().
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var lesson entities.Lesson
	if err := json.Unmarshal(data, &lesson); err != nil {
		return nil, apperrors.Wrap(err, "decode lesson")
	}
	return &lesson, nil
}

// ListByModule returns a module's lessons in display order
func (r *LessonRepository) ListByModule(ctx context.Context, moduleID string, includeUnpublished bool) ([]entities.Lesson, error) {
	data, err := r.client.execute(ctx, "lesson list", func() ([]byte, int64, error) {
		query := r.client.sb.From(lessonsTable).
			Select("*", "", false).
			Eq("module_id", moduleID)
		if !includeUnpublished {
			query = query.Eq("status", valueobjects.StatusPublished.String())
		}
		return query.
			Order("order_index", &postgrest.OrderOpts{Ascending: true}).
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var lessons []entities.Lesson
	if err := json.Unmarshal(data, &lessons); err != nil {
		return nil, apperrors.Wrap(err, "decode lessons")
	}
	return lessons, nil
}

// Update overwrites a lesson row. The caller is responsible for having
// snapshotted the prior state into the version history first.
func (r *LessonRepository) Update(ctx context.Context, lesson *entities.Lesson) error {
	_, err := r.client.execute(ctx, "lesson update", func() ([]byte, int64, error) {
		return r.client.sb.From(lessonsTable).
			Update(lesson, "representation", "").
			Eq("id", lesson.ID).
			Execute()
	})
	return err
}

// UpdateOrder moves a lesson to a new position
func (r *LessonRepository) UpdateOrder(ctx context.Context, id string, orderIndex int) error {
	_, err := r.client.execute(ctx, "lesson reorder", func() ([]byte, int64, error) {
		return r.client.sb.From(lessonsTable).
			Update(map[string]int{"order_index": orderIndex}, "", "").
			Eq("id", id).
			Execute()
	})
	return err
}

// Delete removes a lesson row
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.execute(ctx, "lesson delete", func() ([]byte, int64, error) {
		return r.client.sb.From(lessonsTable).
			Delete("", "").
			Eq("id", id).
			Execute()
	})
	return err
}
