package validators

import (
	"strings"

	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	"coursehub-backend/pkg/validation"
)

// FieldErrors maps field names to their validation messages
type FieldErrors map[string]string

// HasErrors reports whether any field failed validation
func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

// FieldValidator enforces the per-field rules that gate every persist:
// a draft that fails here is never written to the backend.
type FieldValidator struct{}

// NewFieldValidator creates a field validator
func NewFieldValidator() *FieldValidator {
	return &FieldValidator{}
}

// Validate checks the draft's fields and returns per-field messages
func (v *FieldValidator) Validate(d *entities.ContentDraft) FieldErrors {
	errs := make(FieldErrors)

	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "title is required"
	}

	if strings.TrimSpace(d.Slug) == "" {
		errs["slug"] = "slug is required"
	} else if !validation.IsValidSlug(d.Slug) {
		errs["slug"] = "slug must contain only lowercase letters, numbers, and hyphens"
	}

	if d.Kind == valueobjects.KindLesson {
		if strings.TrimSpace(d.Body) == "" {
			errs["body"] = "lesson content is required"
		}
		if d.EstimatedDuration < 1 {
			errs["estimated_duration"] = "duration must be at least 1 minute"
		}
	}

	return errs
}
