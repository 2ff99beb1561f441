package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursehub-backend/domain/core/valueobjects"
)

func TestNewLessonDefaults(t *testing.T) {
	lesson, err := NewLesson("mod-1", "Error Handling in Go", "author-1")
	require.NoError(t, err)

	assert.NotEmpty(t, lesson.ID)
	assert.Equal(t, "error-handling-in-go", lesson.Slug)
	assert.Equal(t, valueobjects.StatusDraft, lesson.Status)
	assert.Equal(t, 1, lesson.Version)
	assert.Equal(t, "author-1", lesson.CreatedBy)
}

func TestNewLessonRequiresModuleAndTitle(t *testing.T) {
	_, err := NewLesson("", "Title", "author-1")
	assert.Error(t, err)

	_, err = NewLesson("mod-1", "", "author-1")
	assert.Error(t, err)
}

func TestLessonPublishClearsSchedule(t *testing.T) {
	lesson, err := NewLesson("mod-1", "Title", "author-1")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, lesson.Schedule(now.Add(time.Hour), now))
	require.NotNil(t, lesson.ScheduledPublishAt)

	lesson.Publish(now)
	assert.Equal(t, valueobjects.StatusPublished, lesson.Status)
	assert.Nil(t, lesson.ScheduledPublishAt)
	require.NotNil(t, lesson.PublishedAt)
}

func TestLessonScheduleRejectsPast(t *testing.T) {
	lesson, err := NewLesson("mod-1", "Title", "author-1")
	require.NoError(t, err)

	now := time.Now()
	assert.Error(t, lesson.Schedule(now.Add(-time.Minute), now))
	assert.Error(t, lesson.Schedule(now, now), "exactly now is not strictly in the future")
	assert.Equal(t, valueobjects.StatusDraft, lesson.Status)
}

func TestLessonSnapshotCarriesCurrentVersion(t *testing.T) {
	lesson, err := NewLesson("mod-1", "Title", "author-1")
	require.NoError(t, err)
	lesson.Body = "Body text"
	lesson.Version = 3

	now := time.Now()
	snapshot := lesson.Snapshot("editor-1", now)

	assert.Equal(t, lesson.ID, snapshot.LessonID)
	assert.Equal(t, 3, snapshot.VersionNumber)
	assert.Equal(t, "Body text", snapshot.Body)
	assert.Equal(t, "editor-1", snapshot.CreatedBy)
}

func TestLessonContentChanged(t *testing.T) {
	lesson, err := NewLesson("mod-1", "Title", "author-1")
	require.NoError(t, err)
	lesson.Body = "Body"
	lesson.Description = "Desc"

	assert.False(t, lesson.ContentChanged("Title", "Body", "Desc"))
	assert.True(t, lesson.ContentChanged("New Title", "Body", "Desc"))
	assert.True(t, lesson.ContentChanged("Title", "New Body", "Desc"))
	assert.True(t, lesson.ContentChanged("Title", "Body", "New Desc"))
}
