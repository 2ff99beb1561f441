package valueobjects

import (
	"errors"
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Slug is a value object representing a URL-safe content identifier.
// Value objects are immutable and have no identity beyond their value
type Slug struct {
	value string
}

// NewSlug creates a Slug from an existing string
func NewSlug(s string) (Slug, error) {
	if s == "" {
		return Slug{}, errors.New("slug cannot be empty")
	}
	if !slugPattern.MatchString(s) {
		return Slug{}, errors.New("slug may contain only lowercase letters, numbers, and hyphens")
	}
	return Slug{value: s}, nil
}

// GenerateSlug derives a slug from a human-readable title: lowercase,
// drop anything that is not a letter, digit, space, or hyphen, turn
// whitespace runs into single hyphens, collapse hyphen runs.
func GenerateSlug(title string) Slug {
	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t':
			b.WriteRune(' ')
		}
	}

	s = strings.Join(strings.Fields(b.String()), "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	return Slug{value: s}
}

// String returns the string representation of the Slug
func (s Slug) String() string {
	return s.value
}

// IsZero checks if the Slug is the zero value
func (s Slug) IsZero() bool {
	return s.value == ""
}

// Equals checks if two Slugs are equal
func (s Slug) Equals(other Slug) bool {
	return s.value == other.value
}

// MarshalJSON implements json.Marshaler
func (s Slug) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Slug) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("slug must be a string")
	}
	s.value = string(data[1 : len(data)-1])
	return nil
}
