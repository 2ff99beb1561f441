package entities

import (
	"time"

	"coursehub-backend/domain/core/valueobjects"
)

// ContentDraft is the session-scoped working copy of a content entity
// being edited. It is the union of the editable fields across kinds;
// which fields matter is decided by the draft's Kind. A draft with an
// empty ID is a new item that has never been persisted.
type ContentDraft struct {
	Kind valueobjects.ContentKind `json:"kind"`
	ID   string                   `json:"id,omitempty"`

	// Identity fields, all kinds
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`

	// Lifecycle
	Status      valueobjects.PublishStatus `json:"status"`
	Version     int                        `json:"version,omitempty"`
	ScheduledAt *time.Time                 `json:"scheduled_at,omitempty"`

	// Placement
	CourseID   string `json:"course_id,omitempty"`
	ModuleID   string `json:"module_id,omitempty"`
	OrderIndex int    `json:"order_index"`

	// Lesson fields
	Body               string   `json:"body,omitempty"`
	Difficulty         string   `json:"difficulty,omitempty"`
	EstimatedDuration  int      `json:"estimated_duration,omitempty"`
	LearningObjectives []string `json:"learning_objectives,omitempty"`
	Prerequisites      []string `json:"prerequisites,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	VideoURL           string   `json:"video_url,omitempty"`

	// Module fields
	Color    string `json:"color,omitempty"`
	IconName string `json:"icon_name,omitempty"`

	// Course fields
	Subtitle     string `json:"subtitle,omitempty"`
	TotalModules int    `json:"total_modules,omitempty"`
	TotalLessons int    `json:"total_lessons,omitempty"`

	// Presentation
	FeaturedImageURL string `json:"featured_image_url,omitempty"`
	AltText          string `json:"alt_text,omitempty"`
}

// IsNew reports whether the draft has never been persisted
func (d *ContentDraft) IsNew() bool {
	return d.ID == ""
}

// DraftFromLesson builds a working copy of an existing lesson
func DraftFromLesson(l *Lesson) *ContentDraft {
	return &ContentDraft{
		Kind:               valueobjects.KindLesson,
		ID:                 l.ID,
		Title:              l.Title,
		Slug:               l.Slug,
		Description:        l.Description,
		Status:             l.Status,
		Version:            l.Version,
		ModuleID:           l.ModuleID,
		OrderIndex:         l.OrderIndex,
		Body:               l.Body,
		Difficulty:         l.Difficulty,
		EstimatedDuration:  l.EstimatedDuration,
		LearningObjectives: l.LearningObjectives,
		Prerequisites:      l.Prerequisites,
		Tags:               l.Tags,
		VideoURL:           l.VideoURL,
		FeaturedImageURL:   l.FeaturedImageURL,
	}
}

// DraftFromModule builds a working copy of an existing module
func DraftFromModule(m *Module) *ContentDraft {
	return &ContentDraft{
		Kind:        valueobjects.KindModule,
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		Status:      m.Status,
		CourseID:    m.CourseID,
		OrderIndex:  m.OrderIndex,
		Color:       m.Color,
		IconName:    m.IconName,
	}
}

// DraftFromCourse builds a working copy of an existing course
func DraftFromCourse(c *Course) *ContentDraft {
	return &ContentDraft{
		Kind:             valueobjects.KindCourse,
		ID:               c.ID,
		Title:            c.Title,
		Slug:             c.Slug,
		Description:      c.Description,
		Status:           c.Status,
		Subtitle:         c.Subtitle,
		TotalModules:     c.TotalModules,
		TotalLessons:     c.TotalLessons,
		FeaturedImageURL: c.FeaturedImageURL,
	}
}
