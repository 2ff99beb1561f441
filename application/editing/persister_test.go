package editing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coursehub-backend/application/ports"
	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	apperrors "coursehub-backend/pkg/errors"
	"coursehub-backend/pkg/observability"
)

// recordingInvalidator records every cascade invocation
type recordingInvalidator struct {
	calls []string
}

func (r *recordingInvalidator) Invalidate(kind valueobjects.ContentKind, id string) {
	r.calls = append(r.calls, kind.String()+":"+id)
}

// fakeLessonRepo is an in-memory ports.LessonRepository
type fakeLessonRepo struct {
	lessons map[string]*entities.Lesson
	orders  map[string]int
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: make(map[string]*entities.Lesson), orders: make(map[string]int)}
}

func (r *fakeLessonRepo) Create(_ context.Context, l *entities.Lesson) error {
	copied := *l
	r.lessons[l.ID] = &copied
	return nil
}

func (r *fakeLessonRepo) GetByID(_ context.Context, id string) (*entities.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("lesson")
	}
	copied := *l
	return &copied, nil
}

func (r *fakeLessonRepo) ListByModule(_ context.Context, _ string, _ bool) ([]entities.Lesson, error) {
	return nil, nil
}

func (r *fakeLessonRepo) Update(_ context.Context, l *entities.Lesson) error {
	if _, ok := r.lessons[l.ID]; !ok {
		return apperrors.NewNotFoundError("lesson")
	}
	copied := *l
	r.lessons[l.ID] = &copied
	return nil
}

func (r *fakeLessonRepo) UpdateOrder(_ context.Context, id string, orderIndex int) error {
	r.orders[id] = orderIndex
	return nil
}

func (r *fakeLessonRepo) Delete(_ context.Context, id string) error {
	delete(r.lessons, id)
	return nil
}

// fakeVersionRepo is an in-memory ports.VersionRepository
type fakeVersionRepo struct {
	versions []entities.LessonVersion
}

func (r *fakeVersionRepo) Create(_ context.Context, v *entities.LessonVersion) error {
	r.versions = append(r.versions, *v)
	return nil
}

func (r *fakeVersionRepo) ListByLesson(_ context.Context, lessonID string) ([]entities.LessonVersion, error) {
	var out []entities.LessonVersion
	for i := len(r.versions) - 1; i >= 0; i-- {
		if r.versions[i].LessonID == lessonID {
			out = append(out, r.versions[i])
		}
	}
	return out, nil
}

func (r *fakeVersionRepo) GetByNumber(_ context.Context, lessonID string, number int) (*entities.LessonVersion, error) {
	for _, v := range r.versions {
		if v.LessonID == lessonID && v.VersionNumber == number {
			copied := v
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError("lesson version")
}

// fakeModuleRepo and fakeCourseRepo satisfy the remaining ports
type fakeModuleRepo struct {
	modules map[string]*entities.Module
	orders  map[string]int
}

func newFakeModuleRepo() *fakeModuleRepo {
	return &fakeModuleRepo{modules: make(map[string]*entities.Module), orders: make(map[string]int)}
}

func (r *fakeModuleRepo) Create(_ context.Context, m *entities.Module) error {
	copied := *m
	r.modules[m.ID] = &copied
	return nil
}

func (r *fakeModuleRepo) GetByID(_ context.Context, id string) (*entities.Module, error) {
	m, ok := r.modules[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("module")
	}
	copied := *m
	return &copied, nil
}

func (r *fakeModuleRepo) ListByCourse(_ context.Context, _ string, _ bool) ([]entities.Module, error) {
	return nil, nil
}

func (r *fakeModuleRepo) Update(_ context.Context, m *entities.Module) error {
	copied := *m
	r.modules[m.ID] = &copied
	return nil
}

func (r *fakeModuleRepo) UpdateOrder(_ context.Context, id string, orderIndex int) error {
	r.orders[id] = orderIndex
	return nil
}

func (r *fakeModuleRepo) Delete(_ context.Context, id string) error {
	delete(r.modules, id)
	return nil
}

type fakeCourseRepo struct {
	courses map[string]*entities.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*entities.Course)}
}

func (r *fakeCourseRepo) Create(_ context.Context, c *entities.Course) error {
	copied := *c
	r.courses[c.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*entities.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("course")
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCourseRepo) List(_ context.Context, _ bool) ([]entities.Course, error) {
	return nil, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, c *entities.Course) error {
	copied := *c
	r.courses[c.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id string) error {
	delete(r.courses, id)
	return nil
}

type fakeMediaRepo struct {
	assets map[string]*entities.MediaAsset
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{assets: make(map[string]*entities.MediaAsset)}
}

func (r *fakeMediaRepo) Create(_ context.Context, a *entities.MediaAsset) error {
	copied := *a
	r.assets[a.ID] = &copied
	return nil
}

func (r *fakeMediaRepo) GetByID(_ context.Context, id string) (*entities.MediaAsset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("media asset")
	}
	copied := *a
	return &copied, nil
}

func (r *fakeMediaRepo) List(_ context.Context) ([]entities.MediaAsset, error) { return nil, nil }

func (r *fakeMediaRepo) Update(_ context.Context, a *entities.MediaAsset) error {
	copied := *a
	r.assets[a.ID] = &copied
	return nil
}

func (r *fakeMediaRepo) Delete(_ context.Context, id string) error {
	delete(r.assets, id)
	return nil
}

type serviceFixture struct {
	svc         *ContentService
	lessons     *fakeLessonRepo
	modules     *fakeModuleRepo
	courses     *fakeCourseRepo
	versions    *fakeVersionRepo
	invalidator *recordingInvalidator
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		lessons:     newFakeLessonRepo(),
		modules:     newFakeModuleRepo(),
		courses:     newFakeCourseRepo(),
		versions:    &fakeVersionRepo{},
		invalidator: &recordingInvalidator{},
	}
	f.svc = NewContentService(
		f.courses, f.modules, f.lessons, f.versions, newFakeMediaRepo(),
		f.invalidator, zap.NewNop(), observability.NewNopMetrics(),
	)
	return f
}

var _ ports.LessonRepository = (*fakeLessonRepo)(nil)
var _ ports.ModuleRepository = (*fakeModuleRepo)(nil)
var _ ports.CourseRepository = (*fakeCourseRepo)(nil)
var _ ports.VersionRepository = (*fakeVersionRepo)(nil)
var _ ports.MediaRepository = (*fakeMediaRepo)(nil)

func lessonDraft() *entities.ContentDraft {
	return &entities.ContentDraft{
		Kind:              valueobjects.KindLesson,
		ModuleID:          "mod-1",
		Title:             "Goroutines",
		Slug:              "goroutines",
		Description:       "Concurrency in Go",
		Body:              "Goroutines run concurrently.",
		Status:            valueobjects.StatusDraft,
		EstimatedDuration: 20,
	}
}

func TestSaveNewLessonStartsAtVersionOne(t *testing.T) {
	f := newServiceFixture(t)

	saved, err := f.svc.Save(context.Background(), lessonDraft(), "author-1")
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 1, saved.Version)
	assert.Empty(t, f.versions.versions, "creation writes no snapshot")
	assert.Equal(t, []string{"lesson:" + saved.ID}, f.invalidator.calls)
}

func TestContentEditSnapshotsThenIncrements(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, lessonDraft(), "author-1")
	require.NoError(t, err)

	// First content edit: snapshot carries version 1, live moves to 2
	saved.Body = "Goroutines run concurrently. Channels coordinate them."
	saved, err = f.svc.Save(ctx, saved, "author-1")
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)

	// Second content edit: snapshot carries version 2, live moves to 3
	saved.Title = "Goroutines and Channels"
	saved, err = f.svc.Save(ctx, saved, "author-2")
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Version)

	require.Len(t, f.versions.versions, 2)
	assert.Equal(t, 1, f.versions.versions[0].VersionNumber)
	assert.Equal(t, "Goroutines", f.versions.versions[0].Title)
	assert.Equal(t, 2, f.versions.versions[1].VersionNumber)
	assert.Equal(t, "Goroutines", f.versions.versions[1].Title)
	assert.Equal(t, "author-2", f.versions.versions[1].CreatedBy)
}

func TestMetadataOnlyEditDoesNotVersion(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, lessonDraft(), "author-1")
	require.NoError(t, err)

	saved.OrderIndex = 5
	saved.Tags = []string{"concurrency"}
	saved, err = f.svc.Save(ctx, saved, "author-1")
	require.NoError(t, err)

	assert.Equal(t, 1, saved.Version, "metadata edits leave the counter alone")
	assert.Empty(t, f.versions.versions)
}

func TestScheduleRequiresFutureTime(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, lessonDraft(), "author-1")
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	saved.Status = valueobjects.StatusScheduled
	saved.ScheduledAt = &past

	_, err = f.svc.Save(ctx, saved, "author-1")
	assert.True(t, apperrors.IsValidation(err))

	stored, err := f.lessons.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.StatusDraft, stored.Status, "failed schedule must not change stored state")
}

func TestScheduleWithoutTimeRejected(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, lessonDraft(), "author-1")
	require.NoError(t, err)

	saved.Status = valueobjects.StatusScheduled
	saved.ScheduledAt = nil

	_, err = f.svc.Save(ctx, saved, "author-1")
	assert.True(t, apperrors.IsValidation(err))
}

func TestRestoreExtendsHistory(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, lessonDraft(), "author-1")
	require.NoError(t, err)

	saved.Body = "Revised body with more detail."
	saved, err = f.svc.Save(ctx, saved, "author-1")
	require.NoError(t, err)
	require.Equal(t, 2, saved.Version)

	restored, err := f.svc.RestoreLessonVersion(ctx, saved.ID, 1, "author-2")
	require.NoError(t, err)

	assert.Equal(t, "Goroutines run concurrently.", restored.Body, "restore applies the snapshot content")
	assert.Equal(t, 3, restored.Version, "restore is a new update, not a rollback")

	// The pre-restore state was snapshotted as version 2
	versions, err := f.svc.ListVersions(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].VersionNumber)
	assert.Equal(t, "Revised body with more detail.", versions[0].Body)
}

func TestDeleteRunsCascade(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, lessonDraft(), "author-1")
	require.NoError(t, err)
	f.invalidator.calls = nil

	require.NoError(t, f.svc.Delete(ctx, valueobjects.KindLesson, saved.ID))

	_, err = f.lessons.GetByID(ctx, saved.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, []string{"lesson:" + saved.ID}, f.invalidator.calls)
}

func TestReorderInvalidates(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.ReorderModule(ctx, "mod-9", 4))
	assert.Equal(t, 4, f.modules.orders["mod-9"])
	assert.Equal(t, []string{"module:mod-9"}, f.invalidator.calls)

	f.invalidator.calls = nil
	require.NoError(t, f.svc.ReorderLesson(ctx, "les-9", 2))
	assert.Equal(t, 2, f.lessons.orders["les-9"])
	assert.Equal(t, []string{"lesson:les-9"}, f.invalidator.calls)
}

func TestSaveNewMediaRejected(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Save(context.Background(), &entities.ContentDraft{Kind: valueobjects.KindMedia}, "author-1")
	assert.True(t, apperrors.IsValidation(err))
}
