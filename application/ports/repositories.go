// Package ports defines the interfaces the application layer depends on.
// Infrastructure provides the implementations; application code never
// imports a concrete backend.
package ports

import (
	"context"
	"io"

	"coursehub-backend/domain/core/entities"
)

// CourseRepository persists courses
type CourseRepository interface {
	Create(ctx context.Context, course *entities.Course) error
	GetByID(ctx context.Context, id string) (*entities.Course, error)
	List(ctx context.Context, includeUnpublished bool) ([]entities.Course, error)
	Update(ctx context.Context, course *entities.Course) error
	Delete(ctx context.Context, id string) error
}

// ModuleRepository persists modules
type ModuleRepository interface {
	Create(ctx context.Context, module *entities.Module) error
	GetByID(ctx context.Context, id string) (*entities.Module, error)
	ListByCourse(ctx context.Context, courseID string, includeUnpublished bool) ([]entities.Module, error)
	Update(ctx context.Context, module *entities.Module) error
	UpdateOrder(ctx context.Context, id string, orderIndex int) error
	Delete(ctx context.Context, id string) error
}

// LessonRepository persists lessons
type LessonRepository interface {
	Create(ctx context.Context, lesson *entities.Lesson) error
	GetByID(ctx context.Context, id string) (*entities.Lesson, error)
	ListByModule(ctx context.Context, moduleID string, includeUnpublished bool) ([]entities.Lesson, error)
	Update(ctx context.Context, lesson *entities.Lesson) error
	UpdateOrder(ctx context.Context, id string, orderIndex int) error
	Delete(ctx context.Context, id string) error
}

// VersionRepository stores immutable lesson snapshots
type VersionRepository interface {
	Create(ctx context.Context, version *entities.LessonVersion) error
	ListByLesson(ctx context.Context, lessonID string) ([]entities.LessonVersion, error)
	GetByNumber(ctx context.Context, lessonID string, number int) (*entities.LessonVersion, error)
}

// MediaRepository persists media asset metadata
type MediaRepository interface {
	Create(ctx context.Context, asset *entities.MediaAsset) error
	GetByID(ctx context.Context, id string) (*entities.MediaAsset, error)
	List(ctx context.Context) ([]entities.MediaAsset, error)
	Update(ctx context.Context, asset *entities.MediaAsset) error
	Delete(ctx context.Context, id string) error
}

// ProgressRepository persists per-user lesson progress
type ProgressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entities.Progress, error)
	Get(ctx context.Context, userID, lessonID string) (*entities.Progress, error)
	Upsert(ctx context.Context, progress *entities.Progress) error
}

// MediaStorage stores media binaries in an object bucket
type MediaStorage interface {
	Upload(ctx context.Context, objectName string, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, paths []string) error
	PublicURL(path string) string
}
