package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/order/dto"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/pkg/errors"
)

const orderColumns = `id, project_id, custom_name, custom_price, customer_name, customer_contact,
	customer_location, status, quoted_price, due_date, shipping_charge, notes,
	filament_grams_snapshot, print_time_hours_snapshot, created_at, updated_at`

type SQLRepository struct {
	DB *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	found, err := r.DB.Get(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	if !found {
		return nil, nil
	}
	if err := r.loadChildren(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *SQLRepository) loadChildren(ctx context.Context, o *model.Order) error {
	o.Spools = model.Allocations{}
	if err := r.DB.Select(ctx, &o.Spools, `SELECT id, owner_id, spool_id, grams, position, cost_per_kg_snapshot
		FROM order_spools WHERE owner_id = ? ORDER BY position`, o.ID); err != nil {
		return errors.Wrap(err, "load order spools")
	}
	o.Hardware = []model.OrderHardware{}
	if err := r.DB.Select(ctx, &o.Hardware, `SELECT id, order_id, hardware_item_id, quantity, unit_cost_snapshot,
		name_snapshot, brand_snapshot, is_one_off, one_off_name, one_off_cost
		FROM order_hardware WHERE order_id = ? ORDER BY id`, o.ID); err != nil {
		return errors.Wrap(err, "load order hardware")
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context, f *dto.Filters) ([]model.Order, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		conditions = append(conditions, `(LOWER(COALESCE(custom_name, '')) LIKE ?
			OR LOWER(COALESCE(customer_name, '')) LIKE ?)`)
		args = append(args, like, like)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if _, err := r.DB.Get(ctx, &count, "SELECT COUNT(*) FROM orders"+whereClause, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}

	query := "SELECT " + orderColumns + " FROM orders" + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	items, err := r.selectWithChildren(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list orders")
	}
	return items, count, nil
}

func (r *SQLRepository) ListDue(ctx context.Context, status string, from, to time.Time) ([]model.Order, error) {
	items, err := r.selectWithChildren(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE status = ? AND due_date >= ? AND due_date < ? ORDER BY due_date, id`, status, from.UTC(), to.UTC())
	return items, errors.Wrap(err, "list due orders")
}

func (r *SQLRepository) selectWithChildren(ctx context.Context, query string, args ...interface{}) ([]model.Order, error) {
	var items []model.Order
	if err := r.DB.Select(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	for i := range items {
		if err := r.loadChildren(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *SQLRepository) Create(ctx context.Context, o *model.Order) error {
	id, err := r.DB.InsertReturningID(ctx, `
        INSERT INTO orders (
            project_id, custom_name, custom_price, customer_name, customer_contact,
            customer_location, status, quoted_price, due_date, shipping_charge, notes,
            filament_grams_snapshot, print_time_hours_snapshot, created_at, updated_at
        ) VALUES (
            :project_id, :custom_name, :custom_price, :customer_name, :customer_contact,
            :customer_location, :status, :quoted_price, :due_date, :shipping_charge, :notes,
            :filament_grams_snapshot, :print_time_hours_snapshot, :created_at, :updated_at
        )`, o)
	if err != nil {
		return errors.Wrap(err, "create order")
	}
	o.ID = id
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, o *model.Order) error {
	_, err := r.DB.NamedExec(ctx, `
        UPDATE orders SET
            project_id = :project_id, custom_name = :custom_name, custom_price = :custom_price,
            customer_name = :customer_name, customer_contact = :customer_contact,
            customer_location = :customer_location, status = :status,
            quoted_price = :quoted_price, due_date = :due_date,
            shipping_charge = :shipping_charge, notes = :notes,
            filament_grams_snapshot = :filament_grams_snapshot,
            print_time_hours_snapshot = :print_time_hours_snapshot,
            updated_at = :updated_at
        WHERE id = :id`, o)
	return errors.Wrapf(err, "update order %d", o.ID)
}

func (r *SQLRepository) ReplaceSpools(ctx context.Context, orderID int64, allocs model.Allocations) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM order_spools WHERE owner_id = ?`, orderID); err != nil {
		return errors.Wrap(err, "clear order spools")
	}
	for i := range allocs {
		allocs[i].OwnerID = orderID
		id, err := r.DB.InsertReturningID(ctx, `
            INSERT INTO order_spools (owner_id, spool_id, grams, position, cost_per_kg_snapshot)
            VALUES (:owner_id, :spool_id, :grams, :position, :cost_per_kg_snapshot)`, &allocs[i])
		if err != nil {
			return errors.Wrap(err, "insert order spool")
		}
		allocs[i].ID = id
	}
	return nil
}

func (r *SQLRepository) ReplaceHardware(ctx context.Context, orderID int64, lines []model.OrderHardware) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM order_hardware WHERE order_id = ?`, orderID); err != nil {
		return errors.Wrap(err, "clear order hardware")
	}
	for i := range lines {
		lines[i].OrderID = orderID
		id, err := r.DB.InsertReturningID(ctx, `
            INSERT INTO order_hardware (
                order_id, hardware_item_id, quantity, unit_cost_snapshot, name_snapshot,
                brand_snapshot, is_one_off, one_off_name, one_off_cost
            ) VALUES (
                :order_id, :hardware_item_id, :quantity, :unit_cost_snapshot, :name_snapshot,
                :brand_snapshot, :is_one_off, :one_off_name, :one_off_cost
            )`, &lines[i])
		if err != nil {
			return errors.Wrap(err, "insert order hardware")
		}
		lines[i].ID = id
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id = ?`, id)
	return errors.Wrapf(err, "delete order %d", id)
}
