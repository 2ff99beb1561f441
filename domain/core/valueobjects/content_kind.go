package valueobjects

import "fmt"

// ContentKind identifies which kind of CMS entity an operation targets.
// The set is closed; invalidation and persistence dispatch on it through
// lookup tables rather than string comparison.
type ContentKind int

const (
	KindLesson ContentKind = iota
	KindModule
	KindCourse
	KindMedia
)

var contentKindNames = map[ContentKind]string{
	KindLesson: "lesson",
	KindModule: "module",
	KindCourse: "course",
	KindMedia:  "media",
}

// ParseContentKind parses a kind name as it appears in API paths
func ParseContentKind(s string) (ContentKind, error) {
	for kind, name := range contentKindNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown content kind %q", s)
}

// String returns the kind name
func (k ContentKind) String() string {
	if name, ok := contentKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ContentKind(%d)", int(k))
}

// IsValid checks if the kind is one of the known kinds
func (k ContentKind) IsValid() bool {
	_, ok := contentKindNames[k]
	return ok
}

// AllContentKinds returns every known kind, for exhaustiveness checks in
// handler-table construction
func AllContentKinds() []ContentKind {
	return []ContentKind{KindLesson, KindModule, KindCourse, KindMedia}
}
