package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"coursehub-backend/domain/core/valueobjects"
)

// Course is the top-level content container. Field names map to the
// `courses` table columns. TotalModules and TotalLessons are denormalized
// aggregates maintained by the persistence layer.
type Course struct {
	ID               string                     `json:"id"`
	Title            string                     `json:"title"`
	Subtitle         string                     `json:"subtitle"`
	Slug             string                     `json:"slug"`
	Description      string                     `json:"description"`
	Status           valueobjects.PublishStatus `json:"status"`
	FeaturedImageURL string                     `json:"featured_image_url"`
	TotalModules     int                        `json:"total_modules"`
	TotalLessons     int                        `json:"total_lessons"`
	CreatedBy        string                     `json:"created_by"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// NewCourse creates a draft course
func NewCourse(title, description, createdBy string) (*Course, error) {
	if title == "" {
		return nil, errors.New("course title cannot be empty")
	}

	now := time.Now()
	return &Course{
		ID:          uuid.New().String(),
		Title:       title,
		Slug:        valueobjects.GenerateSlug(title).String(),
		Description: description,
		Status:      valueobjects.StatusDraft,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Publish marks the course published
func (c *Course) Publish(now time.Time) {
	c.Status = valueobjects.StatusPublished
	c.UpdatedAt = now
}

// Archive retires the course
func (c *Course) Archive(now time.Time) {
	c.Status = valueobjects.StatusArchived
	c.UpdatedAt = now
}
