package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"coursehub-backend/domain/core/valueobjects"
)

// Lesson is the central content entity: a markdown document inside a
// module, carrying a monotonic version counter. Field names map to the
// `lessons` table columns.
type Lesson struct {
	ID                 string                     `json:"id"`
	ModuleID           string                     `json:"module_id"`
	Title              string                     `json:"title"`
	Slug               string                     `json:"slug"`
	Description        string                     `json:"description"`
	Body               string                     `json:"body"`
	Status             valueobjects.PublishStatus `json:"status"`
	OrderIndex         int                        `json:"order_index"`
	Difficulty         string                     `json:"difficulty"`
	EstimatedDuration  int                        `json:"estimated_duration"`
	LearningObjectives []string                   `json:"learning_objectives"`
	Prerequisites      []string                   `json:"prerequisites"`
	Tags               []string                   `json:"tags"`
	FeaturedImageURL   string                     `json:"featured_image_url"`
	VideoURL           string                     `json:"video_url"`
	Version            int                        `json:"version"`
	PublishedAt        *time.Time                 `json:"published_at,omitempty"`
	ScheduledPublishAt *time.Time                 `json:"scheduled_publish_at,omitempty"`
	CreatedBy          string                     `json:"created_by"`
	UpdatedBy          string                     `json:"updated_by"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

// NewLesson creates a draft lesson with version 1
func NewLesson(moduleID, title, createdBy string) (*Lesson, error) {
	if moduleID == "" {
		return nil, errors.New("lesson requires a module")
	}
	if title == "" {
		return nil, errors.New("lesson title cannot be empty")
	}

	now := time.Now()
	return &Lesson{
		ID:        uuid.New().String(),
		ModuleID:  moduleID,
		Title:     title,
		Slug:      valueobjects.GenerateSlug(title).String(),
		Status:    valueobjects.StatusDraft,
		Version:   1,
		CreatedBy: createdBy,
		UpdatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Publish marks the lesson published as of now
func (l *Lesson) Publish(now time.Time) {
	l.Status = valueobjects.StatusPublished
	l.PublishedAt = &now
	l.ScheduledPublishAt = nil
	l.UpdatedAt = now
}

// Schedule marks the lesson for future publication. The publish time
// must be strictly after now.
func (l *Lesson) Schedule(at, now time.Time) error {
	if !at.After(now) {
		return errors.New("scheduled publish time must be in the future")
	}
	l.Status = valueobjects.StatusScheduled
	l.ScheduledPublishAt = &at
	l.UpdatedAt = now
	return nil
}

// Archive retires the lesson from learner-facing listings
func (l *Lesson) Archive(now time.Time) {
	l.Status = valueobjects.StatusArchived
	l.UpdatedAt = now
}

// Snapshot captures the lesson's current content as an immutable version
// record. The record carries the lesson's current version number; callers
// persist the snapshot before applying an update and then increment the
// counter, so stored history never contains a state newer than its number.
func (l *Lesson) Snapshot(createdBy string, now time.Time) *LessonVersion {
	return &LessonVersion{
		LessonID:      l.ID,
		VersionNumber: l.Version,
		Title:         l.Title,
		Body:          l.Body,
		Description:   l.Description,
		CreatedAt:     now,
		CreatedBy:     createdBy,
	}
}

// ContentChanged reports whether applying the given fields would change
// versioned content (title, body, or description)
func (l *Lesson) ContentChanged(title, body, description string) bool {
	return l.Title != title || l.Body != body || l.Description != description
}
