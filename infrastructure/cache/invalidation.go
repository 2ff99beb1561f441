package cache

import (
	"go.uber.org/zap"

	"coursehub-backend/domain/core/valueobjects"
)

// Invalidator applies the cross-namespace invalidation cascade after a
// CMS entity changes. The edited kind's namespace is cleared wholesale,
// listings included, since collection entries live beside the per-entity
// records and the invalidator only knows the edited id; anything whose
// cached aggregates could now be stale is cleared the same way, so a
// missed invalidation is impossible by construction.
//
// Invalidation never fails the caller: a broken cascade degrades to
// serving stale entries until TTL expiry, not to a failed write.
type Invalidator struct {
	caches   *Caches
	logger   *zap.Logger
	handlers map[valueobjects.ContentKind]func(id string)
}

// NewInvalidator builds the per-kind handler table
func NewInvalidator(caches *Caches, logger *zap.Logger) *Invalidator {
	inv := &Invalidator{caches: caches, logger: logger}
	inv.handlers = map[valueobjects.ContentKind]func(id string){
		valueobjects.KindLesson: func(string) {
			// Per-module lesson listings share the lesson namespace;
			// module and course listings embed lesson counts
			caches.Lessons.Clear()
			caches.Modules.Clear()
			caches.Courses.Clear()
		},
		valueobjects.KindModule: func(string) {
			// Lesson membership may have moved between modules
			caches.Modules.Clear()
			caches.Courses.Clear()
			caches.Lessons.Clear()
		},
		valueobjects.KindCourse: func(string) {
			// Course edits are assumed structural: drop the whole subtree
			caches.Courses.Clear()
			caches.Modules.Clear()
			caches.Lessons.Clear()
		},
		valueobjects.KindMedia: func(id string) {
			// Media is not aggregated into any listing
			caches.Media.Remove(id)
		},
	}

	for _, kind := range valueobjects.AllContentKinds() {
		if _, ok := inv.handlers[kind]; !ok {
			panic("invalidation handler missing for kind " + kind.String())
		}
	}

	return inv
}

// Invalidate runs the cascade for one changed entity. Unknown kinds are
// logged and ignored.
func (inv *Invalidator) Invalidate(kind valueobjects.ContentKind, id string) {
	handler, ok := inv.handlers[kind]
	if !ok {
		inv.logger.Warn("no invalidation handler for kind", zap.String("kind", kind.String()))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			inv.logger.Warn("cache invalidation error",
				zap.String("kind", kind.String()),
				zap.String("id", id),
				zap.Any("panic", r))
		}
	}()

	handler(id)
	inv.logger.Debug("cache invalidated",
		zap.String("kind", kind.String()),
		zap.String("id", id))
}
