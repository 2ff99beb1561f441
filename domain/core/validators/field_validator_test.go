package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
)

func TestFieldValidatorValidLesson(t *testing.T) {
	errs := NewFieldValidator().Validate(&entities.ContentDraft{
		Kind:              valueobjects.KindLesson,
		Title:             "Channels",
		Slug:              "channels",
		Body:              "Channels connect goroutines.",
		EstimatedDuration: 15,
	})
	assert.False(t, errs.HasErrors())
}

func TestFieldValidatorRequiredFields(t *testing.T) {
	errs := NewFieldValidator().Validate(&entities.ContentDraft{Kind: valueobjects.KindLesson})

	assert.True(t, errs.HasErrors())
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "slug")
	assert.Contains(t, errs, "body")
	assert.Contains(t, errs, "estimated_duration")
}

func TestFieldValidatorRejectsBadSlug(t *testing.T) {
	errs := NewFieldValidator().Validate(&entities.ContentDraft{
		Kind:  valueobjects.KindCourse,
		Title: "Go Course",
		Slug:  "Go Course!",
	})
	assert.Contains(t, errs, "slug")
}

func TestFieldValidatorLessonRulesOnlyApplyToLessons(t *testing.T) {
	errs := NewFieldValidator().Validate(&entities.ContentDraft{
		Kind:  valueobjects.KindModule,
		Title: "Module",
		Slug:  "module",
	})
	assert.False(t, errs.HasErrors(), "modules have no body or duration requirement")
}
