// Package editing implements the editable-content session: field
// validation, idle auto-save, publishing, and version history over the
// CMS repositories.
package editing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"coursehub-backend/application/ports"
	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	apperrors "coursehub-backend/pkg/errors"
	"coursehub-backend/pkg/observability"
)

// Invalidator is the cache-cascade hook invoked after every successful
// backend write
type Invalidator interface {
	Invalidate(kind valueobjects.ContentKind, id string)
}

// Persister is what a Session needs from the persistence side
type Persister interface {
	Save(ctx context.Context, draft *entities.ContentDraft, actor string) (*entities.ContentDraft, error)
	Delete(ctx context.Context, kind valueobjects.ContentKind, id string) error
	ListVersions(ctx context.Context, lessonID string) ([]entities.LessonVersion, error)
	GetVersion(ctx context.Context, lessonID string, number int) (*entities.LessonVersion, error)
}

// ContentService persists drafts of every kind, snapshotting lesson
// content into the version history before each content-changing update
// and running the cache invalidation cascade after each successful
// write. Dispatch is through a per-kind handler table.
type ContentService struct {
	courses     ports.CourseRepository
	modules     ports.ModuleRepository
	lessons     ports.LessonRepository
	versions    ports.VersionRepository
	media       ports.MediaRepository
	invalidator Invalidator
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time

	saveHandlers   map[valueobjects.ContentKind]func(ctx context.Context, d *entities.ContentDraft, actor string) (*entities.ContentDraft, error)
	deleteHandlers map[valueobjects.ContentKind]func(ctx context.Context, id string) error
}

// NewContentService wires the per-kind handler tables
func NewContentService(
	courses ports.CourseRepository,
	modules ports.ModuleRepository,
	lessons ports.LessonRepository,
	versions ports.VersionRepository,
	media ports.MediaRepository,
	invalidator Invalidator,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *ContentService {
	s := &ContentService{
		courses:     courses,
		modules:     modules,
		lessons:     lessons,
		versions:    versions,
		media:       media,
		invalidator: invalidator,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
	}

	s.saveHandlers = map[valueobjects.ContentKind]func(context.Context, *entities.ContentDraft, string) (*entities.ContentDraft, error){
		valueobjects.KindLesson: s.saveLesson,
		valueobjects.KindModule: s.saveModule,
		valueobjects.KindCourse: s.saveCourse,
		valueobjects.KindMedia:  s.saveMedia,
	}
	s.deleteHandlers = map[valueobjects.ContentKind]func(context.Context, string) error{
		valueobjects.KindLesson: func(ctx context.Context, id string) error { return s.lessons.Delete(ctx, id) },
		valueobjects.KindModule: func(ctx context.Context, id string) error { return s.modules.Delete(ctx, id) },
		valueobjects.KindCourse: func(ctx context.Context, id string) error { return s.courses.Delete(ctx, id) },
		valueobjects.KindMedia:  func(ctx context.Context, id string) error { return s.media.Delete(ctx, id) },
	}

	return s
}

// LoadDraft builds a working copy of an existing entity for editing
func (s *ContentService) LoadDraft(ctx context.Context, kind valueobjects.ContentKind, id string) (*entities.ContentDraft, error) {
	switch kind {
	case valueobjects.KindLesson:
		lesson, err := s.lessons.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return entities.DraftFromLesson(lesson), nil
	case valueobjects.KindModule:
		module, err := s.modules.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return entities.DraftFromModule(module), nil
	case valueobjects.KindCourse:
		course, err := s.courses.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return entities.DraftFromCourse(course), nil
	default:
		return nil, apperrors.NewValidationError("kind does not support editing sessions")
	}
}

// Save creates or updates the entity behind the draft and returns the
// refreshed draft. On success, the invalidation cascade runs; its
// failures are logged, never surfaced.
func (s *ContentService) Save(ctx context.Context, draft *entities.ContentDraft, actor string) (*entities.ContentDraft, error) {
	handler, ok := s.saveHandlers[draft.Kind]
	if !ok {
		return nil, apperrors.NewValidationError("unknown content kind")
	}

	saved, err := handler(ctx, draft, actor)
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(draft.Kind, saved.ID)
	return saved, nil
}

// Delete removes the entity and runs the invalidation cascade
func (s *ContentService) Delete(ctx context.Context, kind valueobjects.ContentKind, id string) error {
	handler, ok := s.deleteHandlers[kind]
	if !ok {
		return apperrors.NewValidationError("unknown content kind")
	}

	if err := handler(ctx, id); err != nil {
		return err
	}

	s.invalidator.Invalidate(kind, id)
	return nil
}

// ReorderModule moves a module and invalidates its cascade
func (s *ContentService) ReorderModule(ctx context.Context, id string, orderIndex int) error {
	if err := s.modules.UpdateOrder(ctx, id, orderIndex); err != nil {
		return err
	}
	s.invalidator.Invalidate(valueobjects.KindModule, id)
	return nil
}

// ReorderLesson moves a lesson and invalidates its cascade
func (s *ContentService) ReorderLesson(ctx context.Context, id string, orderIndex int) error {
	if err := s.lessons.UpdateOrder(ctx, id, orderIndex); err != nil {
		return err
	}
	s.invalidator.Invalidate(valueobjects.KindLesson, id)
	return nil
}

// RestoreLessonVersion applies a stored snapshot as a new update through
// the normal save path, which snapshots the current state first. History
// is extended, never rewritten.
func (s *ContentService) RestoreLessonVersion(ctx context.Context, lessonID string, number int, actor string) (*entities.ContentDraft, error) {
	version, err := s.versions.GetByNumber(ctx, lessonID, number)
	if err != nil {
		return nil, err
	}

	draft, err := s.LoadDraft(ctx, valueobjects.KindLesson, lessonID)
	if err != nil {
		return nil, err
	}

	draft.Title = version.Title
	draft.Body = version.Body
	draft.Description = version.Description

	return s.Save(ctx, draft, actor)
}

// ListVersions returns a lesson's version history, newest first
func (s *ContentService) ListVersions(ctx context.Context, lessonID string) ([]entities.LessonVersion, error) {
	return s.versions.ListByLesson(ctx, lessonID)
}

// GetVersion returns one stored snapshot
func (s *ContentService) GetVersion(ctx context.Context, lessonID string, number int) (*entities.LessonVersion, error) {
	return s.versions.GetByNumber(ctx, lessonID, number)
}

// saveLesson is the versioning-aware lesson write path. For updates that
// change title, body, or description, the stored state is snapshotted
// under the current version number before the update lands with the
// counter incremented. Snapshot-before-update keeps the history
// monotonic: no stored version ever describes a state newer than its
// number.
func (s *ContentService) saveLesson(ctx context.Context, d *entities.ContentDraft, actor string) (*entities.ContentDraft, error) {
	now := s.now()

	if d.IsNew() {
		lesson, err := entities.NewLesson(d.ModuleID, d.Title, actor)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		if err := s.applyLessonDraft(lesson, d, actor, now); err != nil {
			return nil, err
		}
		if err := s.lessons.Create(ctx, lesson); err != nil {
			return nil, err
		}
		return entities.DraftFromLesson(lesson), nil
	}

	current, err := s.lessons.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	if current.ContentChanged(d.Title, d.Body, d.Description) {
		snapshot := current.Snapshot(actor, now)
		if err := s.versions.Create(ctx, snapshot); err != nil {
			return nil, apperrors.Wrap(err, "snapshot lesson version")
		}
		current.Version++
	}

	if err := s.applyLessonDraft(current, d, actor, now); err != nil {
		return nil, err
	}
	if err := s.lessons.Update(ctx, current); err != nil {
		return nil, err
	}

	return entities.DraftFromLesson(current), nil
}

func (s *ContentService) applyLessonDraft(l *entities.Lesson, d *entities.ContentDraft, actor string, now time.Time) error {
	l.Title = d.Title
	l.Slug = d.Slug
	l.Description = d.Description
	l.Body = d.Body
	l.OrderIndex = d.OrderIndex
	l.Difficulty = d.Difficulty
	l.EstimatedDuration = d.EstimatedDuration
	l.LearningObjectives = d.LearningObjectives
	l.Prerequisites = d.Prerequisites
	l.Tags = d.Tags
	l.FeaturedImageURL = d.FeaturedImageURL
	l.VideoURL = d.VideoURL
	l.UpdatedBy = actor
	l.UpdatedAt = now

	switch d.Status {
	case valueobjects.StatusPublished:
		if l.Status != valueobjects.StatusPublished {
			l.Publish(now)
		}
	case valueobjects.StatusScheduled:
		if d.ScheduledAt == nil {
			return apperrors.NewFieldValidationError("scheduled_at", "a publish time is required to schedule")
		}
		if err := l.Schedule(*d.ScheduledAt, now); err != nil {
			return apperrors.NewFieldValidationError("scheduled_at", err.Error())
		}
	case valueobjects.StatusArchived:
		l.Archive(now)
	default:
		l.Status = d.Status
	}

	return nil
}

func (s *ContentService) saveModule(ctx context.Context, d *entities.ContentDraft, _ string) (*entities.ContentDraft, error) {
	now := s.now()

	if d.IsNew() {
		module, err := entities.NewModule(d.CourseID, d.Title, d.OrderIndex)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		applyModuleDraft(module, d, now)
		if err := s.modules.Create(ctx, module); err != nil {
			return nil, err
		}
		return entities.DraftFromModule(module), nil
	}

	current, err := s.modules.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	applyModuleDraft(current, d, now)
	if err := s.modules.Update(ctx, current); err != nil {
		return nil, err
	}
	return entities.DraftFromModule(current), nil
}

func applyModuleDraft(m *entities.Module, d *entities.ContentDraft, now time.Time) {
	m.Title = d.Title
	m.Slug = d.Slug
	m.Description = d.Description
	m.Status = d.Status
	m.OrderIndex = d.OrderIndex
	m.Color = d.Color
	m.IconName = d.IconName
	m.UpdatedAt = now
}

func (s *ContentService) saveCourse(ctx context.Context, d *entities.ContentDraft, actor string) (*entities.ContentDraft, error) {
	now := s.now()

	if d.IsNew() {
		course, err := entities.NewCourse(d.Title, d.Description, actor)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		applyCourseDraft(course, d, now)
		if err := s.courses.Create(ctx, course); err != nil {
			return nil, err
		}
		return entities.DraftFromCourse(course), nil
	}

	current, err := s.courses.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	applyCourseDraft(current, d, now)
	if err := s.courses.Update(ctx, current); err != nil {
		return nil, err
	}
	return entities.DraftFromCourse(current), nil
}

func applyCourseDraft(c *entities.Course, d *entities.ContentDraft, now time.Time) {
	c.Title = d.Title
	c.Subtitle = d.Subtitle
	c.Slug = d.Slug
	c.Description = d.Description
	c.Status = d.Status
	c.FeaturedImageURL = d.FeaturedImageURL
	c.UpdatedAt = now
}

// saveMedia updates asset metadata only; binary uploads go through the
// media service
func (s *ContentService) saveMedia(ctx context.Context, d *entities.ContentDraft, _ string) (*entities.ContentDraft, error) {
	if d.IsNew() {
		return nil, apperrors.NewValidationError("media assets are created by upload")
	}

	current, err := s.media.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	current.AltText = d.AltText
	current.UsageContext = d.Description
	current.UpdatedAt = s.now()

	if err := s.media.Update(ctx, current); err != nil {
		return nil, err
	}

	d.Version = 0
	return d, nil
}
