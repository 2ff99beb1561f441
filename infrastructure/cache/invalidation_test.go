package cache

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coursehub-backend/domain/core/valueobjects"
)

func seededCaches(t *testing.T) *Caches {
	t.Helper()
	caches := NewCaches(NewStore("v1", zap.NewNop()))

	doc := json.RawMessage(`"cached"`)
	caches.Lessons.Set("l1", doc)
	caches.Lessons.SetAll(doc)
	caches.Modules.Set("m1", doc)
	caches.Modules.SetAll(doc)
	caches.Courses.Set("c1", doc)
	caches.Courses.SetAll(doc)
	caches.Media.Set("a1", doc)
	return caches
}

func TestInvalidateLessonCascade(t *testing.T) {
	caches := seededCaches(t)
	inv := NewInvalidator(caches, zap.NewNop())

	inv.Invalidate(valueobjects.KindLesson, "l1")

	_, ok := caches.Lessons.Get("l1")
	assert.False(t, ok, "edited lesson entry must be removed")
	_, ok = caches.Lessons.GetAll()
	assert.False(t, ok, "lesson listings must go with the edited lesson")

	_, ok = caches.Modules.Get("m1")
	assert.False(t, ok, "module namespace must be cleared")
	_, ok = caches.Modules.GetAll()
	assert.False(t, ok)
	_, ok = caches.Courses.Get("c1")
	assert.False(t, ok, "course namespace must be cleared")

	_, ok = caches.Media.Get("a1")
	assert.True(t, ok, "media is outside the lesson cascade")
}

func TestInvalidateModuleCascade(t *testing.T) {
	caches := seededCaches(t)
	inv := NewInvalidator(caches, zap.NewNop())

	inv.Invalidate(valueobjects.KindModule, "m1")

	_, ok := caches.Modules.Get("m1")
	assert.False(t, ok)
	_, ok = caches.Modules.GetAll()
	assert.False(t, ok, "module listings must go with the edited module")
	_, ok = caches.Courses.Get("c1")
	assert.False(t, ok)
	_, ok = caches.Lessons.Get("l1")
	assert.False(t, ok)
}

func TestInvalidateCourseCascade(t *testing.T) {
	caches := seededCaches(t)
	inv := NewInvalidator(caches, zap.NewNop())

	inv.Invalidate(valueobjects.KindCourse, "c1")

	_, ok := caches.Courses.Get("c1")
	assert.False(t, ok)
	_, ok = caches.Courses.GetAll()
	assert.False(t, ok, "the course listing must go with the edited course")
	_, ok = caches.Modules.Get("m1")
	assert.False(t, ok)
	_, ok = caches.Lessons.Get("l1")
	assert.False(t, ok)
}

func TestInvalidateMediaIsSelfOnly(t *testing.T) {
	caches := seededCaches(t)
	inv := NewInvalidator(caches, zap.NewNop())

	inv.Invalidate(valueobjects.KindMedia, "a1")

	_, ok := caches.Media.Get("a1")
	assert.False(t, ok)
	_, ok = caches.Lessons.Get("l1")
	assert.True(t, ok)
	_, ok = caches.Modules.Get("m1")
	assert.True(t, ok)
	_, ok = caches.Courses.Get("c1")
	assert.True(t, ok)
}

func TestInvalidatorCoversEveryKind(t *testing.T) {
	inv := NewInvalidator(NewCaches(NewStore("v1", zap.NewNop())), zap.NewNop())
	for _, kind := range valueobjects.AllContentKinds() {
		_, ok := inv.handlers[kind]
		require.True(t, ok, "missing handler for kind %s", kind)
	}
}
