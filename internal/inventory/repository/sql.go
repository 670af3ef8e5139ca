package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/printfarm-inventory-service/internal/inventory/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const spoolColumns = `id, filament_type, manufacturer, color_name, color_hex, total_weight_g,
	remaining_weight_g, purchase_price, tracking_id, location, notes, is_active, created_at, updated_at`

const hardwareColumns = `id, name, brand, purchase_price, quantity_purchased, quantity_in_stock,
	low_stock_threshold, notes, created_at, updated_at`

type SQLRepository struct {
	DB *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) GetSpool(ctx context.Context, id int64) (*model.Spool, error) {
	var s model.Spool
	found, err := r.DB.Get(ctx, &s, `SELECT `+spoolColumns+` FROM spools WHERE id = ?`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get spool %d", id)
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

func (r *SQLRepository) GetSpoolsByIDs(ctx context.Context, ids []int64) ([]model.Spool, error) {
	if len(ids) == 0 {
		return []model.Spool{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+spoolColumns+` FROM spools WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var items []model.Spool
	if err := r.DB.Select(ctx, &items, query, args...); err != nil {
		return nil, errors.Wrap(err, "get spools by ids")
	}
	return items, nil
}

func (r *SQLRepository) FindSpoolByTrackingID(ctx context.Context, trackingID string) (*model.Spool, error) {
	var s model.Spool
	found, err := r.DB.Get(ctx, &s, `SELECT `+spoolColumns+` FROM spools WHERE tracking_id = ?`, trackingID)
	if err != nil {
		return nil, errors.Wrap(err, "find spool by tracking id")
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

func (r *SQLRepository) ListTrackingIDs(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	err := r.DB.Select(ctx, &ids, `SELECT tracking_id FROM spools WHERE tracking_id LIKE ?`, prefix+"%")
	return ids, errors.Wrap(err, "list tracking ids")
}

func (r *SQLRepository) ListSpools(ctx context.Context, f *dto.SpoolFilters) ([]model.Spool, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.ActiveOnly {
		conditions = append(conditions, "is_active = ?")
		args = append(args, true)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		conditions = append(conditions, `(LOWER(filament_type) LIKE ? OR LOWER(manufacturer) LIKE ?
			OR LOWER(color_name) LIKE ? OR LOWER(COALESCE(tracking_id, '')) LIKE ?)`)
		args = append(args, like, like, like, like)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if _, err := r.DB.Get(ctx, &count, "SELECT COUNT(*) FROM spools"+whereClause, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count spools")
	}

	query := "SELECT " + spoolColumns + " FROM spools" + whereClause + " ORDER BY id"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	var items []model.Spool
	if err := r.DB.Select(ctx, &items, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "list spools")
	}
	return items, count, nil
}

func (r *SQLRepository) ListLowSpools(ctx context.Context, threshold float64) ([]model.Spool, error) {
	var items []model.Spool
	err := r.DB.Select(ctx, &items, `SELECT `+spoolColumns+` FROM spools
		WHERE is_active = ? AND remaining_weight_g <= ? ORDER BY remaining_weight_g, id`, true, threshold)
	return items, errors.Wrap(err, "list low spools")
}

func (r *SQLRepository) CreateSpool(ctx context.Context, s *model.Spool) error {
	id, err := r.DB.InsertReturningID(ctx, `
        INSERT INTO spools (
            filament_type, manufacturer, color_name, color_hex, total_weight_g,
            remaining_weight_g, purchase_price, tracking_id, location, notes,
            is_active, created_at, updated_at
        ) VALUES (
            :filament_type, :manufacturer, :color_name, :color_hex, :total_weight_g,
            :remaining_weight_g, :purchase_price, :tracking_id, :location, :notes,
            :is_active, :created_at, :updated_at
        )`, s)
	if err != nil {
		return errors.Wrap(err, "create spool")
	}
	s.ID = id
	return nil
}

func (r *SQLRepository) UpdateSpool(ctx context.Context, s *model.Spool) error {
	_, err := r.DB.NamedExec(ctx, `
        UPDATE spools SET
            filament_type = :filament_type, manufacturer = :manufacturer,
            color_name = :color_name, color_hex = :color_hex,
            purchase_price = :purchase_price, tracking_id = :tracking_id,
            location = :location, notes = :notes, is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id`, s)
	return errors.Wrapf(err, "update spool %d", s.ID)
}

func (r *SQLRepository) SetSpoolRemaining(ctx context.Context, id int64, remaining float64) error {
	_, err := r.DB.Exec(ctx, `UPDATE spools SET remaining_weight_g = ? WHERE id = ?`, remaining, id)
	return errors.Wrapf(err, "set spool %d remaining", id)
}

func (r *SQLRepository) CountSpoolReferences(ctx context.Context, id int64) (int, error) {
	var n int
	_, err := r.DB.Get(ctx, &n, `SELECT
		(SELECT COUNT(*) FROM print_job_spools WHERE spool_id = ?) +
		(SELECT COUNT(*) FROM order_spools WHERE spool_id = ?)`, id, id)
	return n, errors.Wrap(err, "count spool references")
}

func (r *SQLRepository) DeleteSpool(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM spools WHERE id = ?`, id)
	return errors.Wrapf(err, "delete spool %d", id)
}

func (r *SQLRepository) GetHardware(ctx context.Context, id int64) (*model.HardwareItem, error) {
	var h model.HardwareItem
	found, err := r.DB.Get(ctx, &h, `SELECT `+hardwareColumns+` FROM hardware_items WHERE id = ?`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get hardware %d", id)
	}
	if !found {
		return nil, nil
	}
	return &h, nil
}

func (r *SQLRepository) GetHardwareByIDs(ctx context.Context, ids []int64) ([]model.HardwareItem, error) {
	if len(ids) == 0 {
		return []model.HardwareItem{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+hardwareColumns+` FROM hardware_items WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var items []model.HardwareItem
	if err := r.DB.Select(ctx, &items, query, args...); err != nil {
		return nil, errors.Wrap(err, "get hardware by ids")
	}
	return items, nil
}

func (r *SQLRepository) ListHardware(ctx context.Context) ([]model.HardwareItem, error) {
	var items []model.HardwareItem
	err := r.DB.Select(ctx, &items, `SELECT `+hardwareColumns+` FROM hardware_items ORDER BY name, id`)
	return items, errors.Wrap(err, "list hardware")
}

func (r *SQLRepository) CreateHardware(ctx context.Context, h *model.HardwareItem) error {
	id, err := r.DB.InsertReturningID(ctx, `
        INSERT INTO hardware_items (
            name, brand, purchase_price, quantity_purchased, quantity_in_stock,
            low_stock_threshold, notes, created_at, updated_at
        ) VALUES (
            :name, :brand, :purchase_price, :quantity_purchased, :quantity_in_stock,
            :low_stock_threshold, :notes, :created_at, :updated_at
        )`, h)
	if err != nil {
		return errors.Wrap(err, "create hardware")
	}
	h.ID = id
	return nil
}

func (r *SQLRepository) UpdateHardware(ctx context.Context, h *model.HardwareItem) error {
	_, err := r.DB.NamedExec(ctx, `
        UPDATE hardware_items SET
            name = :name, brand = :brand, purchase_price = :purchase_price,
            quantity_purchased = :quantity_purchased, low_stock_threshold = :low_stock_threshold,
            notes = :notes, updated_at = :updated_at
        WHERE id = :id`, h)
	return errors.Wrapf(err, "update hardware %d", h.ID)
}

func (r *SQLRepository) SetHardwareStock(ctx context.Context, id int64, quantity int) error {
	_, err := r.DB.Exec(ctx, `UPDATE hardware_items SET quantity_in_stock = ? WHERE id = ?`, quantity, id)
	return errors.Wrapf(err, "set hardware %d stock", id)
}

func (r *SQLRepository) CountHardwareReferences(ctx context.Context, id int64) (int, error) {
	var n int
	_, err := r.DB.Get(ctx, &n, `SELECT
		(SELECT COUNT(*) FROM order_hardware WHERE hardware_item_id = ?) +
		(SELECT COUNT(*) FROM project_hardware WHERE hardware_item_id = ?)`, id, id)
	return n, errors.Wrap(err, "count hardware references")
}

func (r *SQLRepository) DeleteHardware(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM hardware_items WHERE id = ?`, id)
	return errors.Wrapf(err, "delete hardware %d", id)
}

func (r *SQLRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	_, err := r.DB.NamedExec(ctx, `
        INSERT INTO stock_movements (
            id, resource_kind, resource_id, movement_type, quantity_change,
            quantity_before, quantity_after, reference_type, reference_id, notes, created_at
        ) VALUES (
            :id, :resource_kind, :resource_id, :movement_type, :quantity_change,
            :quantity_before, :quantity_after, :reference_type, :reference_id, :notes, :created_at
        )`, m)
	return errors.Wrap(err, "log movement")
}

func (r *SQLRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.ResourceKind != "" {
		conditions = append(conditions, "resource_kind = ?")
		args = append(args, string(f.ResourceKind))
	}
	if f.ResourceID != 0 {
		conditions = append(conditions, "resource_id = ?")
		args = append(args, f.ResourceID)
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = ?")
		args = append(args, f.MovementType)
	}
	if f.ReferenceType != "" {
		conditions = append(conditions, "reference_type = ?")
		args = append(args, f.ReferenceType)
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, f.StartDate.UTC())
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < ?")
		args = append(args, f.EndDate.UTC())
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if _, err := r.DB.Get(ctx, &count, "SELECT COUNT(*) FROM stock_movements"+whereClause, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count movements")
	}

	query := `SELECT id, resource_kind, resource_id, movement_type, quantity_change, quantity_before,
		quantity_after, reference_type, reference_id, notes, created_at
		FROM stock_movements` + whereClause + " ORDER BY created_at DESC, id"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	var items []model.StockMovement
	if err := r.DB.Select(ctx, &items, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "list movements")
	}
	return items, count, nil
}
