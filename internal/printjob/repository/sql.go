package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/printjob/dto"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/pkg/errors"
)

const jobColumns = `id, name, description, status, print_time_minutes, was_for_customer,
	customer_name, quoted_price, notes, printed_at, project_id, order_id, created_at, updated_at`

type SQLRepository struct {
	DB *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*model.PrintJob, error) {
	return r.getOne(ctx, `SELECT `+jobColumns+` FROM print_jobs WHERE id = ?`, id)
}

func (r *SQLRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.PrintJob, error) {
	return r.getOne(ctx, `SELECT `+jobColumns+` FROM print_jobs WHERE order_id = ?`, orderID)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg int64) (*model.PrintJob, error) {
	var job model.PrintJob
	found, err := r.DB.Get(ctx, &job, query, arg)
	if err != nil {
		return nil, errors.Wrap(err, "get print job")
	}
	if !found {
		return nil, nil
	}
	if job.Spools, err = r.loadSpools(ctx, job.ID); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *SQLRepository) loadSpools(ctx context.Context, jobID int64) (model.Allocations, error) {
	allocs := model.Allocations{}
	err := r.DB.Select(ctx, &allocs, `SELECT id, owner_id, spool_id, grams, position, cost_per_kg_snapshot
		FROM print_job_spools WHERE owner_id = ? ORDER BY position`, jobID)
	return allocs, errors.Wrap(err, "load print job spools")
}

func (r *SQLRepository) List(ctx context.Context, f *dto.Filters) ([]model.PrintJob, int, error) {
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
	if _, err := r.DB.Get(ctx, &count, "SELECT COUNT(*) FROM print_jobs"+whereClause, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count print jobs")
	}

	query := "SELECT " + jobColumns + " FROM print_jobs" + whereClause + " ORDER BY printed_at DESC, id DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	var items []model.PrintJob
	if err := r.DB.Select(ctx, &items, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "list print jobs")
	}
	for i := range items {
		spools, err := r.loadSpools(ctx, items[i].ID)
		if err != nil {
			return nil, 0, err
		}
		items[i].Spools = spools
	}
	return items, count, nil
}

func (r *SQLRepository) Create(ctx context.Context, job *model.PrintJob) error {
	id, err := r.DB.InsertReturningID(ctx, `
        INSERT INTO print_jobs (
            name, description, status, print_time_minutes, was_for_customer,
            customer_name, quoted_price, notes, printed_at, project_id, order_id,
            created_at, updated_at
        ) VALUES (
            :name, :description, :status, :print_time_minutes, :was_for_customer,
            :customer_name, :quoted_price, :notes, :printed_at, :project_id, :order_id,
            :created_at, :updated_at
        )`, job)
	if err != nil {
		return errors.Wrap(err, "create print job")
	}
	job.ID = id
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, job *model.PrintJob) error {
	_, err := r.DB.NamedExec(ctx, `
        UPDATE print_jobs SET
            name = :name, description = :description, status = :status,
            print_time_minutes = :print_time_minutes, was_for_customer = :was_for_customer,
            customer_name = :customer_name, quoted_price = :quoted_price, notes = :notes,
            printed_at = :printed_at, project_id = :project_id, order_id = :order_id,
            updated_at = :updated_at
        WHERE id = :id`, job)
	return errors.Wrapf(err, "update print job %d", job.ID)
}

func (r *SQLRepository) ReplaceSpools(ctx context.Context, jobID int64, allocs model.Allocations) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM print_job_spools WHERE owner_id = ?`, jobID); err != nil {
		return errors.Wrap(err, "clear print job spools")
	}
	for i := range allocs {
		allocs[i].OwnerID = jobID
		id, err := r.DB.InsertReturningID(ctx, `
            INSERT INTO print_job_spools (owner_id, spool_id, grams, position, cost_per_kg_snapshot)
            VALUES (:owner_id, :spool_id, :grams, :position, :cost_per_kg_snapshot)`, &allocs[i])
		if err != nil {
			return errors.Wrap(err, "insert print job spool")
		}
		allocs[i].ID = id
	}
	return nil
}

func (r *SQLRepository) CountProducts(ctx context.Context, id int64) (int, error) {
	var n int
	_, err := r.DB.Get(ctx, &n, `SELECT COUNT(*) FROM products_on_hand WHERE print_job_id = ?`, id)
	return n, errors.Wrap(err, "count print job products")
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM print_jobs WHERE id = ?`, id)
	return errors.Wrapf(err, "delete print job %d", id)
}
