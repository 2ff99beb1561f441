package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"coursehub-backend/domain/core/valueobjects"
)

// Module groups lessons inside a course. Field names map to the
// `modules` table columns.
type Module struct {
	ID          string                     `json:"id"`
	CourseID    string                     `json:"course_id"`
	Title       string                     `json:"title"`
	Slug        string                     `json:"slug"`
	Description string                     `json:"description"`
	Status      valueobjects.PublishStatus `json:"status"`
	OrderIndex  int                        `json:"order_index"`
	Color       string                     `json:"color"`
	IconName    string                     `json:"icon_name"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// NewModule creates a draft module appended at the given position
func NewModule(courseID, title string, orderIndex int) (*Module, error) {
	if courseID == "" {
		return nil, errors.New("module requires a course")
	}
	if title == "" {
		return nil, errors.New("module title cannot be empty")
	}
	if orderIndex < 0 {
		return nil, errors.New("module order index cannot be negative")
	}

	now := time.Now()
	return &Module{
		ID:         uuid.New().String(),
		CourseID:   courseID,
		Title:      title,
		Slug:       valueobjects.GenerateSlug(title).String(),
		Status:     valueobjects.StatusDraft,
		OrderIndex: orderIndex,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Publish marks the module published
func (m *Module) Publish(now time.Time) {
	m.Status = valueobjects.StatusPublished
	m.UpdatedAt = now
}

// Archive retires the module
func (m *Module) Archive(now time.Time) {
	m.Status = valueobjects.StatusArchived
	m.UpdatedAt = now
}
