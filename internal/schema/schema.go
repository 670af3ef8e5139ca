// Package schema creates the tables the service needs. Statements are
// idempotent so Migrate can run on every start.
package schema

import (
	"context"
	"strings"

	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/pkg/errors"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS app_settings (
		id INTEGER PRIMARY KEY,
		currency_symbol TEXT NOT NULL DEFAULT '$',
		electricity_rate_kwh DOUBLE PRECISION NOT NULL DEFAULT 0.12,
		printer_wattage DOUBLE PRECISION NOT NULL DEFAULT 200,
		hourly_rate DOUBLE PRECISION NOT NULL DEFAULT 2.0,
		machine_depreciation_rate DOUBLE PRECISION NOT NULL DEFAULT 0.5,
		profit_margin_percent DOUBLE PRECISION NOT NULL DEFAULT 5,
		fixed_fee_per_order DOUBLE PRECISION NOT NULL DEFAULT 5,
		webhook_url TEXT,
		webhook_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		webhook_events TEXT NOT NULL DEFAULT '["order_due"]',
		webhook_order_due_days INTEGER NOT NULL DEFAULT 2,
		low_spool_threshold_g DOUBLE PRECISION NOT NULL DEFAULT 50,
		enable_spool_negative_prevention BOOLEAN NOT NULL DEFAULT TRUE,
		minimum_spool_reserve_g DOUBLE PRECISION NOT NULL DEFAULT 5,
		enable_low_spool_alerts BOOLEAN NOT NULL DEFAULT TRUE,
		enable_tracking_id_auto_generation BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at {TS} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS spools (
		id {ID},
		filament_type TEXT NOT NULL,
		manufacturer TEXT NOT NULL DEFAULT '',
		color_name TEXT NOT NULL DEFAULT '',
		color_hex TEXT,
		total_weight_g DOUBLE PRECISION NOT NULL,
		remaining_weight_g DOUBLE PRECISION NOT NULL,
		purchase_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		tracking_id TEXT UNIQUE,
		location TEXT,
		notes TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at {TS} NOT NULL,
		updated_at {TS} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS hardware_items (
		id {ID},
		name TEXT NOT NULL,
		brand TEXT,
		purchase_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		quantity_purchased INTEGER NOT NULL DEFAULT 0,
		quantity_in_stock INTEGER NOT NULL DEFAULT 0,
		low_stock_threshold INTEGER,
		notes TEXT,
		created_at {TS} NOT NULL,
		updated_at {TS} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		resource_kind TEXT NOT NULL,
		resource_id BIGINT NOT NULL,
		movement_type TEXT NOT NULL,
		quantity_change DOUBLE PRECISION NOT NULL,
		quantity_before DOUBLE PRECISION NOT NULL,
		quantity_after DOUBLE PRECISION NOT NULL,
		reference_type TEXT,
		reference_id BIGINT,
		notes TEXT NOT NULL DEFAULT '',
		created_at {TS} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_resource ON stock_movements (resource_kind, resource_id)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id {ID},
		name TEXT NOT NULL,
		description TEXT,
		filament_grams DOUBLE PRECISION NOT NULL DEFAULT 0,
		print_time_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		sell_price DOUBLE PRECISION,
		notes TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at {TS} NOT NULL,
		updated_at {TS} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_filaments (
		id {ID},
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		filament_type TEXT NOT NULL,
		grams DOUBLE PRECISION NOT NULL,
		position INTEGER NOT NULL,
		color_note TEXT,
		UNIQUE (project_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS project_hardware (
		id {ID},
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		hardware_item_id BIGINT NOT NULL REFERENCES hardware_items(id),
		quantity INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id {ID},
		project_id BIGINT REFERENCES projects(id) ON DELETE SET NULL,
		custom_name TEXT,
		custom_price DOUBLE PRECISION,
		customer_name TEXT,
		customer_contact TEXT,
		customer_location TEXT,
		status TEXT NOT NULL,
		quoted_price DOUBLE PRECISION,
		due_date {TS},
		shipping_charge DOUBLE PRECISION NOT NULL DEFAULT 0,
		notes TEXT,
		filament_grams_snapshot DOUBLE PRECISION,
		print_time_hours_snapshot DOUBLE PRECISION,
		created_at {TS} NOT NULL,
		updated_at {TS} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status_due ON orders (status, due_date)`,
	`CREATE TABLE IF NOT EXISTS order_spools (
		id {ID},
		owner_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		spool_id BIGINT NOT NULL REFERENCES spools(id),
		grams DOUBLE PRECISION NOT NULL,
		position INTEGER NOT NULL,
		cost_per_kg_snapshot DOUBLE PRECISION NOT NULL DEFAULT 0,
		UNIQUE (owner_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS order_hardware (
		id {ID},
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		hardware_item_id BIGINT REFERENCES hardware_items(id),
		quantity INTEGER NOT NULL,
		unit_cost_snapshot DOUBLE PRECISION NOT NULL DEFAULT 0,
		name_snapshot TEXT,
		brand_snapshot TEXT,
		is_one_off BOOLEAN NOT NULL DEFAULT FALSE,
		one_off_name TEXT,
		one_off_cost DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS print_jobs (
		id {ID},
		name TEXT,
		description TEXT,
		status TEXT NOT NULL,
		print_time_minutes INTEGER,
		was_for_customer BOOLEAN NOT NULL DEFAULT FALSE,
		customer_name TEXT,
		quoted_price DOUBLE PRECISION,
		notes TEXT,
		printed_at {TS} NOT NULL,
		project_id BIGINT REFERENCES projects(id) ON DELETE SET NULL,
		order_id BIGINT UNIQUE REFERENCES orders(id) ON DELETE SET NULL,
		created_at {TS} NOT NULL,
		updated_at {TS} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS print_job_spools (
		id {ID},
		owner_id BIGINT NOT NULL REFERENCES print_jobs(id) ON DELETE CASCADE,
		spool_id BIGINT NOT NULL REFERENCES spools(id),
		grams DOUBLE PRECISION NOT NULL,
		position INTEGER NOT NULL,
		cost_per_kg_snapshot DOUBLE PRECISION NOT NULL DEFAULT 0,
		UNIQUE (owner_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS products_on_hand (
		id {ID},
		print_job_id BIGINT NOT NULL REFERENCES print_jobs(id),
		project_id BIGINT REFERENCES projects(id),
		name TEXT,
		status TEXT NOT NULL,
		location TEXT,
		notes TEXT,
		hardware_deducted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at {TS} NOT NULL,
		updated_at {TS} NOT NULL
	)`,
}

// Migrate applies every statement for the connection's dialect.
func Migrate(ctx context.Context, db *database.DB) error {
	r := strings.NewReplacer("{ID}", db.Dialect.IDColumn, "{TS}", db.Dialect.Timestamp)
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, r.Replace(stmt)); err != nil {
			return errors.Wrapf(err, "migration statement %d", i)
		}
	}
	return nil
}
