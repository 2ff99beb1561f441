package supabase

import (
	"context"
	"encoding/json"

	"github.com/supabase-community/postgrest-go"

	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	apperrors "coursehub-backend/pkg/errors"
)

const coursesTable = "courses"

// CourseRepository persists courses in the `courses` table
type CourseRepository struct {
	client *Client
}

// NewCourseRepository creates a course repository
func NewCourseRepository(client *Client) *CourseRepository {
	return &CourseRepository{client: client}
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *entities.Course) error {
	_, err := r.client.execute(ctx, "course create", func() ([]byte, int64, error) {
		return r.client.sb.From(coursesTable).
			Insert(course, false, "", "representation", "").
			Execute()
	})
	return err
}

// GetByID returns one course
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entities.Course, error) {
	data, err := r.client.execute(ctx, "course", func() ([]byte, int64, error) {
		return r.client.sb.From(coursesTable).
			Select("*", "", false).
			Eq("id", id).
			Single().
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var course entities.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, apperrors.Wrap(err, "decode course")
	}
	return &course, nil
}

// List returns all courses, optionally restricted to published ones
func (r *CourseRepository) List(ctx context.Context, includeUnpublished bool) ([]entities.Course, error) {
	data, err := r.client.execute(ctx, "course list", func() ([]byte, int64, error) {
		query := r.client.sb.From(coursesTable).Select("*", "", false)
		if !includeUnpublished {
			query = query.Eq("status", valueobjects.StatusPublished.String())
		}
		return query.
			Order("created_at", &postgrest.OrderOpts{Ascending: false}).
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var courses []entities.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, apperrors.Wrap(err, "decode courses")
	}
	return courses, nil
}

// Update overwrites a course row
func (r *CourseRepository) Update(ctx context.Context, course *entities.Course) error {
	_, err := r.client.execute(ctx, "course update", func() ([]byte, int64, error) {
		return r.client.sb.From(coursesTable).
			Update(course, "representation", "").
			Eq("id", course.ID).
			Execute()
	})
	return err
}

// Delete removes a course row
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.execute(ctx, "course delete", func() ([]byte, int64, error) {
		return r.client.sb.From(coursesTable).
			Delete("", "").
			Eq("id", id).
			Execute()
	})
	return err
}
