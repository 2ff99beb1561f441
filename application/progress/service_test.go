package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coursehub-backend/domain/core/entities"
	apperrors "coursehub-backend/pkg/errors"
)

type fakeProgressRepo struct {
	records map[string]*entities.Progress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[string]*entities.Progress)}
}

func (r *fakeProgressRepo) key(userID, lessonID string) string { return userID + "/" + lessonID }

func (r *fakeProgressRepo) ListByUser(_ context.Context, userID string) ([]entities.Progress, error) {
	var out []entities.Progress
	for _, p := range r.records {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProgressRepo) Get(_ context.Context, userID, lessonID string) (*entities.Progress, error) {
	p, ok := r.records[r.key(userID, lessonID)]
	if !ok {
		return nil, apperrors.NewNotFoundError("progress")
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProgressRepo) Upsert(_ context.Context, p *entities.Progress) error {
	copied := *p
	r.records[r.key(p.UserID, p.LessonID)] = &copied
	return nil
}

func TestMarkCompletedCreatesRecord(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewService(repo, zap.NewNop())

	record, err := svc.MarkCompleted(context.Background(), "user-1", "les-1", "mod-1", 0)
	require.NoError(t, err)

	assert.True(t, record.Completed)
	require.NotNil(t, record.CompletedAt)
}

func TestMarkCompletedIdempotent(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	first, err := svc.MarkCompleted(ctx, "user-1", "les-1", "mod-1", 0)
	require.NoError(t, err)

	second, err := svc.MarkCompleted(ctx, "user-1", "les-1", "mod-1", 0)
	require.NoError(t, err)

	assert.Equal(t, first.CompletedAt, second.CompletedAt, "repeat completion keeps the first timestamp")
}

func TestAddTimeSpentAccumulates(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddTimeSpent(ctx, "user-1", "les-1", "mod-1", 0, 60)
	require.NoError(t, err)

	record, err := svc.AddTimeSpent(ctx, "user-1", "les-1", "mod-1", 0, 30)
	require.NoError(t, err)

	assert.Equal(t, 90, record.TimeSpent)
	assert.False(t, record.Completed, "time tracking does not imply completion")
}

func TestAddTimeSpentRejectsNonPositive(t *testing.T) {
	svc := NewService(newFakeProgressRepo(), zap.NewNop())

	_, err := svc.AddTimeSpent(context.Background(), "user-1", "les-1", "mod-1", 0, 0)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.AddTimeSpent(context.Background(), "user-1", "les-1", "mod-1", 0, -5)
	assert.True(t, apperrors.IsValidation(err))
}

func TestListForUserScopesToUser(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.MarkCompleted(ctx, "user-1", "les-1", "mod-1", 0)
	require.NoError(t, err)
	_, err = svc.MarkCompleted(ctx, "user-2", "les-1", "mod-1", 0)
	require.NoError(t, err)

	records, err := svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
