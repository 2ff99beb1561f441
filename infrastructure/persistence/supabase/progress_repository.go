package supabase

import (
	"context"
	"encoding/json"

	"coursehub-backend/domain/core/entities"
	apperrors "coursehub-backend/pkg/errors"
)

const progressTable = "user_progress"

// ProgressRepository persists per-user lesson progress in the
// `user_progress` table
type ProgressRepository struct {
	client *Client
}

// NewProgressRepository creates a progress repository
func NewProgressRepository(client *Client) *ProgressRepository {
	return &ProgressRepository{client: client}
}

// ListByUser returns every progress row for one user
func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]entities.Progress, error) {
	data, err := r.client.execute(ctx, "progress list", func() ([]byte, int64, error) {
		return r.client.sb.From(progressTable).
			Select("*", "", false).
			Eq("user_id", userID).
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var progress []entities.Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, apperrors.Wrap(err, "decode progress")
	}
	return progress, nil
}

// Get returns one user's progress on one lesson
func (r *ProgressRepository) Get(ctx context.Context, userID, lessonID string) (*entities.Progress, error) {
	data, err := r.client.execute(ctx, "progress", func() ([]byte, int64, error) {
		return r.client.sb.From(progressTable).
			Select("*", "", false).
			Eq("user_id", userID).
			Eq("lesson_id", lessonID).
			Single().
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var progress entities.Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, apperrors.Wrap(err, "decode progress")
	}
	return &progress, nil
}

// Upsert writes a progress row, keyed by (user_id, lesson_id)
func (r *ProgressRepository) Upsert(ctx context.Context, progress *entities.Progress) error {
	_, err := r.client.execute(ctx, "progress upsert", func() ([]byte, int64, error) {
		return r.client.sb.From(progressTable).
			Insert(progress, true, "user_id,lesson_id", "representation", "").
			Execute()
	})
	return err
}
