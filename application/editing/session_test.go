package editing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	apperrors "coursehub-backend/pkg/errors"
	"coursehub-backend/pkg/observability"
)

// fakePersister records saves and can be made to fail or block
type fakePersister struct {
	mu      sync.Mutex
	saves   []entities.ContentDraft
	deletes []string
	failErr error
	block   chan struct{} // when set, Save waits on it
}

func (p *fakePersister) Save(_ context.Context, draft *entities.ContentDraft, _ string) (*entities.ContentDraft, error) {
	p.mu.Lock()
	block := p.block
	p.mu.Unlock()
	if block != nil {
		<-block
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failErr != nil {
		return nil, p.failErr
	}

	saved := *draft
	if saved.ID == "" {
		saved.ID = "generated-id"
		saved.Version = 1
	}
	p.saves = append(p.saves, saved)
	return &saved, nil
}

func (p *fakePersister) Delete(_ context.Context, _ valueobjects.ContentKind, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletes = append(p.deletes, id)
	return nil
}

func (p *fakePersister) ListVersions(_ context.Context, _ string) ([]entities.LessonVersion, error) {
	return []entities.LessonVersion{{VersionNumber: 1, Title: "Old Title", Body: "Old body", Description: "Old desc"}}, nil
}

func (p *fakePersister) GetVersion(_ context.Context, _ string, number int) (*entities.LessonVersion, error) {
	return &entities.LessonVersion{VersionNumber: number, Title: "Old Title", Body: "Old body", Description: "Old desc"}, nil
}

func (p *fakePersister) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func existingLessonDraft() *entities.ContentDraft {
	return &entities.ContentDraft{
		Kind:              valueobjects.KindLesson,
		ID:                "les-1",
		ModuleID:          "mod-1",
		Title:             "Goroutines",
		Slug:              "goroutines",
		Description:       "Concurrency in Go",
		Body:              "Goroutines run concurrently.",
		Status:            valueobjects.StatusDraft,
		Version:           1,
		EstimatedDuration: 20,
	}
}

func newTestSession(draft *entities.ContentDraft, p Persister, idle time.Duration) *Session {
	return NewSession(draft, "author-1", p, SessionConfig{
		AutoSaveIdle:    idle,
		SaveErrorWindow: 50 * time.Millisecond,
		SaveTimeout:     time.Second,
	}, zap.NewNop(), observability.NewNopMetrics())
}

func TestUpdateFieldMarksDirtyAndRegeneratesSlug(t *testing.T) {
	s := newTestSession(existingLessonDraft(), &fakePersister{}, time.Hour)
	defer s.Close()

	require.NoError(t, s.UpdateField("title", "Advanced Goroutines"))

	draft := s.Draft()
	assert.Equal(t, "Advanced Goroutines", draft.Title)
	assert.Equal(t, "advanced-goroutines", draft.Slug, "title edits regenerate the slug")
	assert.Equal(t, StateDirty, s.State())
}

func TestUpdateFieldUnknownFieldRejected(t *testing.T) {
	s := newTestSession(existingLessonDraft(), &fakePersister{}, time.Hour)
	defer s.Close()

	err := s.UpdateField("no_such_field", "value")
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, StateClean, s.State(), "rejected edits do not dirty the session")
}

func TestUpdateFieldNumbersDecodeFromJSON(t *testing.T) {
	s := newTestSession(existingLessonDraft(), &fakePersister{}, time.Hour)
	defer s.Close()

	// JSON numbers arrive as float64
	require.NoError(t, s.UpdateField("estimated_duration", float64(45)))
	assert.Equal(t, 45, s.Draft().EstimatedDuration)

	require.NoError(t, s.UpdateField("tags", []interface{}{"go", "concurrency"}))
	assert.Equal(t, []string{"go", "concurrency"}, s.Draft().Tags)
}

func TestAutoSaveFiresOnceAfterEditBurst(t *testing.T) {
	p := &fakePersister{}
	s := newTestSession(existingLessonDraft(), p, 40*time.Millisecond)
	defer s.Close()

	// A burst of edits inside the idle window must collapse to one save
	require.NoError(t, s.UpdateField("body", "Edit one"))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.UpdateField("body", "Edit two"))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.UpdateField("body", "Edit three"))

	assert.Eventually(t, func() bool { return p.saveCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return s.State() == StateClean }, time.Second, 10*time.Millisecond)

	p.mu.Lock()
	body := p.saves[0].Body
	p.mu.Unlock()
	assert.Equal(t, "Edit three", body, "only the final state of the burst is persisted")
}

func TestAutoSaveSkipsNewItems(t *testing.T) {
	p := &fakePersister{}
	draft := existingLessonDraft()
	draft.ID = ""
	s := newTestSession(draft, p, 20*time.Millisecond)
	defer s.Close()

	require.NoError(t, s.UpdateField("body", "Draft body"))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, p.saveCount(), "unsaved items are never auto-created")
	assert.Equal(t, StateDirty, s.State())
}

func TestAutoSaveSkipsInvalidDrafts(t *testing.T) {
	p := &fakePersister{}
	s := newTestSession(existingLessonDraft(), p, 20*time.Millisecond)
	defer s.Close()

	require.NoError(t, s.UpdateField("slug", ""))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, p.saveCount(), "invalid drafts are never persisted")
	assert.Equal(t, StateDirty, s.State(), "edits survive for the user to fix")
}

func TestSaveDraftBlockedByValidation(t *testing.T) {
	p := &fakePersister{}
	s := newTestSession(existingLessonDraft(), p, time.Hour)
	defer s.Close()

	require.NoError(t, s.UpdateField("slug", ""))

	err := s.SaveDraft(context.Background())
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, p.saveCount())
}

func TestSaveDraftPreservesStatus(t *testing.T) {
	p := &fakePersister{}
	draft := existingLessonDraft()
	draft.Status = valueobjects.StatusPublished
	s := newTestSession(draft, p, time.Hour)
	defer s.Close()

	require.NoError(t, s.UpdateField("body", "Live content, revised."))
	require.NoError(t, s.SaveDraft(context.Background()))

	p.mu.Lock()
	status := p.saves[0].Status
	p.mu.Unlock()
	assert.Equal(t, valueobjects.StatusPublished, status, "a manual save never demotes published content")
	assert.Equal(t, StateClean, s.State())
}

func TestPublishNowSetsStatusAndClearsSchedule(t *testing.T) {
	p := &fakePersister{}
	at := time.Now().Add(time.Hour)
	draft := existingLessonDraft()
	draft.Status = valueobjects.StatusScheduled
	draft.ScheduledAt = &at
	s := newTestSession(draft, p, time.Hour)
	defer s.Close()

	require.NoError(t, s.PublishNow(context.Background()))

	p.mu.Lock()
	saved := p.saves[0]
	p.mu.Unlock()
	assert.Equal(t, valueobjects.StatusPublished, saved.Status)
	assert.Nil(t, saved.ScheduledAt, "immediate publish cancels a pending schedule")
}

func TestPublishNowBlockedByPublishIssues(t *testing.T) {
	p := &fakePersister{}
	draft := existingLessonDraft()
	draft.Kind = valueobjects.KindModule
	draft.Title = ""
	s := newTestSession(draft, p, time.Hour)
	defer s.Close()

	err := s.PublishNow(context.Background())
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, p.saveCount())
}

func TestSchedulePublishRejectsPastTimeBeforeAnyWrite(t *testing.T) {
	p := &fakePersister{}
	s := newTestSession(existingLessonDraft(), p, time.Hour)
	defer s.Close()

	err := s.SchedulePublish(context.Background(), time.Now().Add(-time.Minute))
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, p.saveCount(), "a past schedule time must be rejected before any write")
	assert.Equal(t, valueobjects.StatusDraft, s.Draft().Status)
}

func TestSchedulePublishFutureTime(t *testing.T) {
	p := &fakePersister{}
	s := newTestSession(existingLessonDraft(), p, time.Hour)
	defer s.Close()

	at := time.Now().Add(2 * time.Hour)
	require.NoError(t, s.SchedulePublish(context.Background(), at))

	p.mu.Lock()
	saved := p.saves[0]
	p.mu.Unlock()
	assert.Equal(t, valueobjects.StatusScheduled, saved.Status)
	require.NotNil(t, saved.ScheduledAt)
	assert.True(t, saved.ScheduledAt.Equal(at))
}

func TestPublishFailureRevertsStatusForAutoSave(t *testing.T) {
	p := &fakePersister{failErr: apperrors.NewExternalError("supabase", assert.AnError)}
	s := newTestSession(existingLessonDraft(), p, 40*time.Millisecond)
	defer s.Close()

	require.NoError(t, s.UpdateField("body", "Edited before publishing."))

	err := s.PublishNow(context.Background())
	require.Error(t, err)

	draft := s.Draft()
	assert.Equal(t, valueobjects.StatusDraft, draft.Status, "a failed publish must not leave the draft published")
	assert.Nil(t, draft.ScheduledAt)
	assert.Equal(t, StateDirty, s.State())

	// The backend recovers and another edit re-arms the idle save; that
	// save must stay draft-preserving, not finish the failed publish
	p.mu.Lock()
	p.failErr = nil
	p.mu.Unlock()
	require.NoError(t, s.UpdateField("description", "Revised while the error shows"))

	assert.Eventually(t, func() bool { return p.saveCount() >= 1 }, time.Second, 10*time.Millisecond)
	p.mu.Lock()
	status := p.saves[len(p.saves)-1].Status
	p.mu.Unlock()
	assert.Equal(t, valueobjects.StatusDraft, status, "auto-save after a failed publish keeps the prior status")
}

func TestScheduleFailureRevertsStatus(t *testing.T) {
	p := &fakePersister{failErr: apperrors.NewExternalError("supabase", assert.AnError)}
	s := newTestSession(existingLessonDraft(), p, time.Hour)
	defer s.Close()

	err := s.SchedulePublish(context.Background(), time.Now().Add(time.Hour))
	require.Error(t, err)

	draft := s.Draft()
	assert.Equal(t, valueobjects.StatusDraft, draft.Status)
	assert.Nil(t, draft.ScheduledAt, "a failed schedule write must not leave the schedule on the draft")
}

func TestSaveFailureKeepsEditsAndRaisesTransientError(t *testing.T) {
	p := &fakePersister{failErr: apperrors.NewExternalError("supabase", assert.AnError)}
	s := newTestSession(existingLessonDraft(), p, time.Hour)
	defer s.Close()

	require.NoError(t, s.UpdateField("body", "Edit that must survive"))

	err := s.SaveDraft(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateDirty, s.State(), "failed saves keep the session dirty")
	assert.Equal(t, "Edit that must survive", s.Draft().Body)
	assert.NotEmpty(t, s.SaveError())

	// The transient error clears after the display window
	assert.Eventually(t, func() bool { return s.SaveError() == "" }, time.Second, 10*time.Millisecond)
}

func TestEditDuringSaveKeepsSessionDirty(t *testing.T) {
	block := make(chan struct{})
	p := &fakePersister{block: block}
	s := newTestSession(existingLessonDraft(), p, time.Hour)
	defer s.Close()

	require.NoError(t, s.UpdateField("body", "First edit"))

	done := make(chan error, 1)
	go func() { done <- s.SaveDraft(context.Background()) }()

	// Wait for the save to be in flight, then edit behind its back
	assert.Eventually(t, func() bool { return s.State() == StateSaving }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.UpdateField("body", "Second edit"))

	p.mu.Lock()
	p.block = nil
	p.mu.Unlock()
	close(block)
	require.NoError(t, <-done)

	assert.Equal(t, StateDirty, s.State(), "an edit during the save must keep the session dirty")
	assert.Equal(t, "Second edit", s.Draft().Body, "the in-flight save result must not clobber newer edits")
}

func TestNewItemAdoptsIdentityFromFirstSave(t *testing.T) {
	p := &fakePersister{}
	draft := existingLessonDraft()
	draft.ID = ""
	draft.Version = 0
	s := newTestSession(draft, p, time.Hour)
	defer s.Close()

	require.NoError(t, s.SaveDraft(context.Background()))

	saved := s.Draft()
	assert.Equal(t, "generated-id", saved.ID)
	assert.Equal(t, 1, saved.Version)
	assert.Equal(t, StateClean, s.State())
}

func TestDeleteContentRejectsUnsavedAndStopsTimer(t *testing.T) {
	p := &fakePersister{}
	draft := existingLessonDraft()
	draft.ID = ""
	s := newTestSession(draft, p, time.Hour)
	defer s.Close()

	err := s.DeleteContent(context.Background())
	assert.True(t, apperrors.IsValidation(err))

	existing := newTestSession(existingLessonDraft(), p, time.Hour)
	defer existing.Close()
	require.NoError(t, existing.DeleteContent(context.Background()))
	assert.Equal(t, []string{"les-1"}, p.deletes)
}

func TestRestoreVersionAppliesSnapshotAndSaves(t *testing.T) {
	p := &fakePersister{}
	s := newTestSession(existingLessonDraft(), p, time.Hour)
	defer s.Close()

	require.NoError(t, s.RestoreVersion(context.Background(), 1))

	draft := s.Draft()
	assert.Equal(t, "Old Title", draft.Title)
	assert.Equal(t, "Old body", draft.Body)
	assert.Equal(t, "Old desc", draft.Description)
	assert.Equal(t, 1, p.saveCount(), "restoring persists through the normal save path")
}

func TestListVersionsRequiresSavedItem(t *testing.T) {
	draft := existingLessonDraft()
	draft.ID = ""
	s := newTestSession(draft, &fakePersister{}, time.Hour)
	defer s.Close()

	_, err := s.ListVersions(context.Background())
	assert.True(t, apperrors.IsValidation(err))
}
