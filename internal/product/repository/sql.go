package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/product/dto"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/pkg/errors"
)

const productColumns = `id, print_job_id, project_id, name, status, location, notes,
	hardware_deducted, created_at, updated_at`

type SQLRepository struct {
	DB *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*model.ProductOnHand, error) {
	var p model.ProductOnHand
	found, err := r.DB.Get(ctx, &p, `SELECT `+productColumns+` FROM products_on_hand WHERE id = ?`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (r *SQLRepository) List(ctx context.Context, f *dto.Filters) ([]model.ProductOnHand, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.ProjectID != nil {
		conditions = append(conditions, "project_id = ?")
		args = append(args, *f.ProjectID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if _, err := r.DB.Get(ctx, &count, "SELECT COUNT(*) FROM products_on_hand"+whereClause, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	query := "SELECT " + productColumns + " FROM products_on_hand" + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	var items []model.ProductOnHand
	if err := r.DB.Select(ctx, &items, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	return items, count, nil
}

func (r *SQLRepository) Create(ctx context.Context, p *model.ProductOnHand) error {
	id, err := r.DB.InsertReturningID(ctx, `
        INSERT INTO products_on_hand (
            print_job_id, project_id, name, status, location, notes,
            hardware_deducted, created_at, updated_at
        ) VALUES (
            :print_job_id, :project_id, :name, :status, :location, :notes,
            :hardware_deducted, :created_at, :updated_at
        )`, p)
	if err != nil {
		return errors.Wrap(err, "create product")
	}
	p.ID = id
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, p *model.ProductOnHand) error {
	_, err := r.DB.NamedExec(ctx, `
        UPDATE products_on_hand SET
            name = :name, status = :status, location = :location, notes = :notes,
            hardware_deducted = :hardware_deducted, updated_at = :updated_at
        WHERE id = :id`, p)
	return errors.Wrapf(err, "update product %d", p.ID)
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM products_on_hand WHERE id = ?`, id)
	return errors.Wrapf(err, "delete product %d", id)
}
