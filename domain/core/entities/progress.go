package entities

import "time"

// Progress tracks one user's state for one lesson. Rows map to the
// `user_progress` table, keyed by (user_id, lesson_id).
type Progress struct {
	ID          string     `json:"id,omitempty"`
	UserID      string     `json:"user_id"`
	LessonID    string     `json:"lesson_id"`
	ModuleID    string     `json:"module_id"`
	LessonIndex int        `json:"lesson_index"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	TimeSpent   int        `json:"time_spent"`
}

// MarkCompleted records completion at the given time; idempotent
func (p *Progress) MarkCompleted(now time.Time) {
	if p.Completed {
		return
	}
	p.Completed = true
	p.CompletedAt = &now
}

// AddTimeSpent accumulates study time in seconds
func (p *Progress) AddTimeSpent(seconds int) {
	if seconds > 0 {
		p.TimeSpent += seconds
	}
}
