package validators

import (
	"net/url"
	"strings"

	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
)

// Finding is one graded validation result tied to a field
type Finding struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PublishReport grades a draft's readiness for publication. Issues block
// publishing; warnings and suggestions only lower the score.
type PublishReport struct {
	Score       int       `json:"score"`
	MaxScore    int       `json:"max_score"`
	Issues      []Finding `json:"issues"`
	Warnings    []Finding `json:"warnings"`
	Suggestions []Finding `json:"suggestions"`
	CanPublish  bool      `json:"can_publish"`
}

func (r *PublishReport) issue(field, message string) {
	r.Issues = append(r.Issues, Finding{Field: field, Message: message})
}

func (r *PublishReport) warn(field, message string) {
	r.Warnings = append(r.Warnings, Finding{Field: field, Message: message})
}

func (r *PublishReport) suggest(field, message string) {
	r.Suggestions = append(r.Suggestions, Finding{Field: field, Message: message})
}

// PublishValidator runs the publishing workflow checks: common rules for
// every kind plus a per-kind rule set dispatched through a handler table.
type PublishValidator struct {
	kindRules map[valueobjects.ContentKind]func(*entities.ContentDraft, *PublishReport)
}

// NewPublishValidator creates a publish validator with the default rules
func NewPublishValidator() *PublishValidator {
	v := &PublishValidator{}
	v.kindRules = map[valueobjects.ContentKind]func(*entities.ContentDraft, *PublishReport){
		valueobjects.KindLesson: v.checkLesson,
		valueobjects.KindModule: v.checkModule,
		valueobjects.KindCourse: v.checkCourse,
		valueobjects.KindMedia:  func(*entities.ContentDraft, *PublishReport) {},
	}
	return v
}

// Validate grades the draft. Issues are weighted double against the
// score; a draft can publish iff it has zero issues.
func (v *PublishValidator) Validate(d *entities.ContentDraft) *PublishReport {
	report := &PublishReport{}

	v.checkBasicFields(d, report)
	v.checkSEO(d, report)

	if rule, ok := v.kindRules[d.Kind]; ok {
		rule(d, report)
	}

	report.Score = report.MaxScore - len(report.Issues)*2 - len(report.Warnings)
	if report.Score < 0 {
		report.Score = 0
	}
	report.CanPublish = len(report.Issues) == 0

	return report
}

func (v *PublishValidator) checkBasicFields(d *entities.ContentDraft, r *PublishReport) {
	r.MaxScore += 10

	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		r.issue("title", "title is required")
	case len(title) < 5:
		r.warn("title", "title should be at least 5 characters long")
	case len(title) > 100:
		r.warn("title", "title is very long (over 100 characters)")
	}

	slug := strings.TrimSpace(d.Slug)
	switch {
	case slug == "":
		r.issue("slug", "URL slug is required")
	default:
		if _, err := valueobjects.NewSlug(slug); err != nil {
			r.issue("slug", "slug must contain only lowercase letters, numbers, and hyphens")
		}
	}

	desc := strings.TrimSpace(d.Description)
	switch {
	case desc == "":
		r.warn("description", "description helps users understand the content")
	case len(desc) < 20:
		r.suggest("description", "consider adding a more detailed description")
	}
}

func (v *PublishValidator) checkSEO(d *entities.ContentDraft, r *PublishReport) {
	r.MaxScore += 5

	if d.Title != "" && len(d.Title) > 60 {
		r.suggest("title", "for better SEO, keep titles under 60 characters")
	}
	if d.Description != "" && len(d.Description) > 160 {
		r.suggest("description", "for better SEO, keep descriptions under 160 characters")
	}
	if d.FeaturedImageURL != "" && d.AltText == "" {
		r.warn("featured_image", "featured image should have alt text for accessibility")
	}
}

func (v *PublishValidator) checkLesson(d *entities.ContentDraft, r *PublishReport) {
	r.MaxScore += 15

	body := strings.TrimSpace(d.Body)
	if body == "" {
		r.issue("body", "lesson content is required")
	} else {
		if len(body) < 100 {
			r.warn("body", "lesson content seems very short")
		}
		// Markdown links without an absolute URL are usually broken
		if strings.Contains(body, "](") && !strings.Contains(body, "http") {
			r.warn("body", "some links may be broken or relative")
		}
	}

	if countNonEmpty(d.LearningObjectives) == 0 {
		r.warn("learning_objectives", "learning objectives help students understand what they will learn")
	}

	switch {
	case d.EstimatedDuration < 1:
		r.warn("estimated_duration", "estimated duration helps students plan their time")
	case d.EstimatedDuration > 120:
		r.suggest("estimated_duration", "consider breaking long lessons into smaller parts")
	}

	if d.Difficulty == "" {
		r.suggest("difficulty", "setting difficulty level helps students choose appropriate content")
	}

	if d.VideoURL != "" {
		if u, err := url.Parse(d.VideoURL); err != nil || u.Scheme == "" || u.Host == "" {
			r.warn("video_url", "video URL appears to be invalid")
		}
	}
}

func (v *PublishValidator) checkModule(d *entities.ContentDraft, r *PublishReport) {
	r.MaxScore += 8

	if d.IconName == "" {
		r.suggest("icon_name", "adding an icon makes modules more visually appealing")
	}
	if d.Color == "" {
		r.suggest("color", "color coding helps organize modules visually")
	}
	if d.OrderIndex < 0 {
		r.warn("order_index", "order index should be a positive number")
	}
}

func (v *PublishValidator) checkCourse(d *entities.ContentDraft, r *PublishReport) {
	r.MaxScore += 10

	if strings.TrimSpace(d.Subtitle) == "" {
		r.suggest("subtitle", "a subtitle provides additional context for the course")
	}
	if d.FeaturedImageURL == "" {
		r.suggest("featured_image_url", "a featured image makes the course more attractive")
	}
	if d.TotalModules == 0 {
		r.warn("modules", "course should have at least one module")
	}
	if d.TotalLessons == 0 {
		r.warn("lessons", "course should have at least one lesson")
	}
}

func countNonEmpty(items []string) int {
	n := 0
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			n++
		}
	}
	return n
}
