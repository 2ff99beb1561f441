// Package catalog is the read side of the CMS: entity and listing reads
// served through the typed cache namespaces.
package catalog

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"coursehub-backend/application/ports"
	"coursehub-backend/domain/core/entities"
	"coursehub-backend/infrastructure/cache"
	apperrors "coursehub-backend/pkg/errors"
)

// Service reads courses, modules, and lessons cache-first. Only
// published-content reads are cached: editor views (include-unpublished)
// always go to the backend, so a stale listing can never hide a draft
// from its author. Without the editor flag, by-id reads report
// unpublished entities as not found and never cache them, so the
// published-view cache can only ever hold published content.
type Service struct {
	caches  *cache.Caches
	courses ports.CourseRepository
	modules ports.ModuleRepository
	lessons ports.LessonRepository
	logger  *zap.Logger
}

// NewService creates a catalog service
func NewService(caches *cache.Caches, courses ports.CourseRepository, modules ports.ModuleRepository, lessons ports.LessonRepository, logger *zap.Logger) *Service {
	return &Service{
		caches:  caches,
		courses: courses,
		modules: modules,
		lessons: lessons,
		logger:  logger,
	}
}

// ListCourses returns the course catalog
func (s *Service) ListCourses(ctx context.Context, includeUnpublished bool) ([]entities.Course, error) {
	if !includeUnpublished {
		var cached []entities.Course
		if hit(s.caches.Courses.GetAll())(&cached) {
			return cached, nil
		}
	}

	courses, err := s.courses.List(ctx, includeUnpublished)
	if err != nil {
		return nil, err
	}

	if !includeUnpublished {
		s.cacheAll(s.caches.Courses, courses)
	}
	return courses, nil
}

// GetCourse returns one course
func (s *Service) GetCourse(ctx context.Context, id string, includeUnpublished bool) (*entities.Course, error) {
	if !includeUnpublished {
		var cached entities.Course
		if hit(s.caches.Courses.Get(id))(&cached) {
			return &cached, nil
		}
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !includeUnpublished {
		if !course.Status.IsPublished() {
			return nil, apperrors.NewNotFoundError("course")
		}
		s.cacheOne(s.caches.Courses.ContentNamespace, id, course)
	}
	return course, nil
}

// ListModules returns a course's modules in display order
func (s *Service) ListModules(ctx context.Context, courseID string, includeUnpublished bool) ([]entities.Module, error) {
	if !includeUnpublished {
		var cached []entities.Module
		if hit(s.caches.Modules.Get(courseID))(&cached) {
			return cached, nil
		}
	}

	modules, err := s.modules.ListByCourse(ctx, courseID, includeUnpublished)
	if err != nil {
		return nil, err
	}

	if !includeUnpublished {
		s.cacheOne(s.caches.Modules.ContentNamespace, courseID, modules)
	}
	return modules, nil
}

// GetModule returns one module
func (s *Service) GetModule(ctx context.Context, id string, includeUnpublished bool) (*entities.Module, error) {
	if !includeUnpublished {
		var cached entities.Module
		if hit(s.caches.Modules.Get(id))(&cached) {
			return &cached, nil
		}
	}

	module, err := s.modules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !includeUnpublished {
		if !module.Status.IsPublished() {
			return nil, apperrors.NewNotFoundError("module")
		}
		s.cacheOne(s.caches.Modules.ContentNamespace, id, module)
	}
	return module, nil
}

// ListLessons returns a module's lessons in display order
func (s *Service) ListLessons(ctx context.Context, moduleID string, includeUnpublished bool) ([]entities.Lesson, error) {
	if !includeUnpublished {
		var cached []entities.Lesson
		if hit(s.caches.Lessons.Get(moduleID))(&cached) {
			return cached, nil
		}
	}

	lessons, err := s.lessons.ListByModule(ctx, moduleID, includeUnpublished)
	if err != nil {
		return nil, err
	}

	if !includeUnpublished {
		s.cacheOne(s.caches.Lessons.ContentNamespace, moduleID, lessons)
	}
	return lessons, nil
}

// GetLesson returns one lesson
func (s *Service) GetLesson(ctx context.Context, id string, includeUnpublished bool) (*entities.Lesson, error) {
	if !includeUnpublished {
		var cached entities.Lesson
		if hit(s.caches.Lessons.Get(id))(&cached) {
			return &cached, nil
		}
	}

	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !includeUnpublished {
		if !lesson.Status.IsPublished() {
			return nil, apperrors.NewNotFoundError("lesson")
		}
		s.cacheOne(s.caches.Lessons.ContentNamespace, id, lesson)
	}
	return lesson, nil
}

// hit adapts a cache lookup into a decode-on-hit helper
func hit(raw json.RawMessage, ok bool) func(dst interface{}) bool {
	return func(dst interface{}) bool {
		if !ok {
			return false
		}
		return json.Unmarshal(raw, dst) == nil
	}
}

func (s *Service) cacheAll(ns cache.CMSNamespace, value interface{}) {
	if raw, err := json.Marshal(value); err == nil {
		ns.SetAll(raw)
	}
}

func (s *Service) cacheOne(ns cache.ContentNamespace, id string, value interface{}) {
	if raw, err := json.Marshal(value); err == nil {
		ns.Set(id, raw)
	}
}
