package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLessonFileName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Intro to Go", "intro_to_go.md"},
		{"Slices (and Arrays)", "slices_(and_arrays).md"},
		{"Maps & Sets", "maps_and_sets.md"},
		{"One, Two", "one,_two.md"},
		{"Trailing Space ", "trailing_space.md"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, LessonFileName(tt.title))
		})
	}
}

func TestSanitizeContentPath(t *testing.T) {
	assert.Equal(t, "lessons/foo.md", SanitizeContentPath("/lessons/foo.md"))
	assert.Equal(t, "lessons/foo.md", SanitizeContentPath("  //lessons/foo.md"))
	assert.Equal(t, "lessons/foo.md", SanitizeContentPath("lessons/foo.md"))
	assert.Equal(t, "", SanitizeContentPath("  /"))
}
