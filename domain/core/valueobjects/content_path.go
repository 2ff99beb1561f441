package valueobjects

import (
	"regexp"
	"strings"
)

var underscoreRun = regexp.MustCompile(`_+`)

// LessonFileName maps a catalog lesson title to the file name of its
// markdown document under the static lessons prefix. The mapping mirrors
// how the content files were named when they were first authored, so it
// has to preserve some quirks: parentheses and commas keep an adjoining
// underscore, ampersands become "and".
func LessonFileName(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "(", "_(")
	s = strings.ReplaceAll(s, ")", ")_")
	s = strings.ReplaceAll(s, ",", ",_")
	s = strings.ReplaceAll(s, "&", "_and_")
	s = underscoreRun.ReplaceAllString(s, "_")
	s = strings.TrimSuffix(s, "_")
	return s + ".md"
}

// SanitizeContentPath normalizes a content path into a cache identifier.
// Leading slashes are dropped so "/lessons/foo.md" and "lessons/foo.md"
// share one cache entry.
func SanitizeContentPath(path string) string {
	return strings.TrimLeft(strings.TrimSpace(path), "/")
}
