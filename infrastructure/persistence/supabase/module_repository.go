package supabase

import (
	"context"
	"encoding/json"

	"github.com/supabase-community/postgrest-go"

	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	apperrors "coursehub-backend/pkg/errors"
)

const modulesTable = "modules"

// ModuleRepository persists modules in the `modules` table
type ModuleRepository struct {
	client *Client
}

// NewModuleRepository creates a module repository
func NewModuleRepository(client *Client) *ModuleRepository {
	return &ModuleRepository{client: client}
}

// Create inserts a new module
func (r *ModuleRepository) Create(ctx context.Context, module *entities.Module) error {
	_, err := r.client.execute(ctx, "module create", func() ([]byte, int64, error) {
		return r.client.sb.From(modulesTable).
			Insert(module, false, "", "representation", "").
			Execute()
	})
	return err
}

// GetByID returns one module
func (r *ModuleRepository) GetByID(ctx context.Context, id string) (*entities.Module, error) {
	data, err := r.client.execute(ctx, "module", func() ([]byte, int64, error) {
		return r.client.sb.From(modulesTable).
			Select("*", "", false).
			Eq("id", id).
			Single().
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var module entities.Module
	if err := json.Unmarshal(data, &module); err != nil {
		return nil, apperrors.Wrap(err, "decode module")
	}
	return &module, nil
}

// ListByCourse returns a course's modules in display order
func (r *ModuleRepository) ListByCourse(ctx context.Context, courseID string, includeUnpublished bool) ([]entities.Module, error) {
	data, err := r.client.execute(ctx, "module list", func() ([]byte, int64, error) {
		query := r.client.sb.From(modulesTable).
			Select("*", "", false).
			Eq("course_id", courseID)
		if !includeUnpublished {
			query = query.Eq("status", valueobjects.StatusPublished.String())
		}
		return query.
			Order("order_index", &postgrest.OrderOpts{Ascending: true}).
			Execute()
	})
	if err != nil {
		return nil, err
	}

	var modules []entities.Module
	if err := json.Unmarshal(data, &modules); err != nil {
		return nil, apperrors.Wrap(err, "decode modules")
	}
	return modules, nil
}

// Update overwrites a module row
func (r *ModuleRepository) Update(ctx context.Context, module *entities.Module) error {
	_, err := r.client.execute(ctx, "module update", func() ([]byte, int64, error) {
		return r.client.sb.From(modulesTable).
			Update(module, "representation", "").
			Eq("id", module.ID).
			Execute()
	})
	return err
}

// UpdateOrder moves a module to a new position
func (r *ModuleRepository) UpdateOrder(ctx context.Context, id string, orderIndex int) error {
	_, err := r.client.execute(ctx, "module reorder", func() ([]byte, int64, error) {
		return r.client.sb.From(modulesTable).
			Update(map[string]int{"order_index": orderIndex}, "", "").
			Eq("id", id).
			Execute()
	})
	return err
}

// Delete removes a module row
func (r *ModuleRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.execute(ctx, "module delete", func() ([]byte, int64, error) {
		return r.client.sb.From(modulesTable).
			Delete("", "").
			Eq("id", id).
			Execute()
	})
	return err
}
