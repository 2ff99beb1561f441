package valueobjects

import "fmt"

// PublishStatus is the lifecycle state of a content entity
type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
	StatusArchived  PublishStatus = "archived"
	StatusScheduled PublishStatus = "scheduled"
)

// ParsePublishStatus parses a stored status string
func ParsePublishStatus(s string) (PublishStatus, error) {
	switch PublishStatus(s) {
	case StatusDraft, StatusPublished, StatusArchived, StatusScheduled:
		return PublishStatus(s), nil
	default:
		return "", fmt.Errorf("unknown publish status %q", s)
	}
}

// String returns the string representation of the status
func (s PublishStatus) String() string {
	return string(s)
}

// IsValid checks if the status is one of the known states
func (s PublishStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived, StatusScheduled:
		return true
	}
	return false
}

// IsPublished reports whether the entity is visible to learners
func (s PublishStatus) IsPublished() bool {
	return s == StatusPublished
}
