package entities

import "time"

// LessonVersion is an immutable snapshot of a lesson's content taken
// just before an update was applied. Rows map to the `lesson_versions`
// table, keyed by (lesson_id, version_number).
type LessonVersion struct {
	ID            string    `json:"id,omitempty"`
	LessonID      string    `json:"lesson_id"`
	VersionNumber int       `json:"version_number"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
}
