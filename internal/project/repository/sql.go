package repository

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/pkg/errors"
)

const projectColumns = `id, name, description, filament_grams, print_time_hours, sell_price,
	notes, is_active, created_at, updated_at`

type SQLRepository struct {
	DB *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	var p model.Project
	found, err := r.DB.Get(ctx, &p, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get project %d", id)
	}
	if !found {
		return nil, nil
	}
	if err := r.loadChildren(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLRepository) loadChildren(ctx context.Context, p *model.Project) error {
	p.Filaments = []model.ProjectFilament{}
	if err := r.DB.Select(ctx, &p.Filaments, `SELECT id, project_id, filament_type, grams, position, color_note
		FROM project_filaments WHERE project_id = ? ORDER BY position`, p.ID); err != nil {
		return errors.Wrap(err, "load project filaments")
	}
	p.Hardware = []model.ProjectHardware{}
	if err := r.DB.Select(ctx, &p.Hardware, `SELECT id, project_id, hardware_item_id, quantity
		FROM project_hardware WHERE project_id = ? ORDER BY id`, p.ID); err != nil {
		return errors.Wrap(err, "load project hardware")
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context, activeOnly bool) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []interface{}{}
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY name, id`

	var items []model.Project
	if err := r.DB.Select(ctx, &items, query, args...); err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	for i := range items {
		if err := r.loadChildren(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *SQLRepository) Create(ctx context.Context, p *model.Project) error {
	id, err := r.DB.InsertReturningID(ctx, `
        INSERT INTO projects (
            name, description, filament_grams, print_time_hours, sell_price,
            notes, is_active, created_at, updated_at
        ) VALUES (
            :name, :description, :filament_grams, :print_time_hours, :sell_price,
            :notes, :is_active, :created_at, :updated_at
        )`, p)
	if err != nil {
		return errors.Wrap(err, "create project")
	}
	p.ID = id
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, p *model.Project) error {
	_, err := r.DB.NamedExec(ctx, `
        UPDATE projects SET
            name = :name, description = :description, filament_grams = :filament_grams,
            print_time_hours = :print_time_hours, sell_price = :sell_price,
            notes = :notes, is_active = :is_active, updated_at = :updated_at
        WHERE id = :id`, p)
	return errors.Wrapf(err, "update project %d", p.ID)
}

func (r *SQLRepository) ReplaceFilaments(ctx context.Context, projectID int64, items []model.ProjectFilament) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM project_filaments WHERE project_id = ?`, projectID); err != nil {
		return errors.Wrap(err, "clear project filaments")
	}
	for i := range items {
		items[i].ProjectID = projectID
		id, err := r.DB.InsertReturningID(ctx, `
            INSERT INTO project_filaments (project_id, filament_type, grams, position, color_note)
            VALUES (:project_id, :filament_type, :grams, :position, :color_note)`, &items[i])
		if err != nil {
			return errors.Wrap(err, "insert project filament")
		}
		items[i].ID = id
	}
	return nil
}

func (r *SQLRepository) ReplaceHardware(ctx context.Context, projectID int64, items []model.ProjectHardware) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM project_hardware WHERE project_id = ?`, projectID); err != nil {
		return errors.Wrap(err, "clear project hardware")
	}
	for i := range items {
		items[i].ProjectID = projectID
		id, err := r.DB.InsertReturningID(ctx, `
            INSERT INTO project_hardware (project_id, hardware_item_id, quantity)
            VALUES (:project_id, :hardware_item_id, :quantity)`, &items[i])
		if err != nil {
			return errors.Wrap(err, "insert project hardware")
		}
		items[i].ID = id
	}
	return nil
}

func (r *SQLRepository) CountProducts(ctx context.Context, id int64) (int, error) {
	var n int
	_, err := r.DB.Get(ctx, &n, `SELECT COUNT(*) FROM products_on_hand WHERE project_id = ?`, id)
	return n, errors.Wrap(err, "count project products")
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return errors.Wrapf(err, "delete project %d", id)
}
