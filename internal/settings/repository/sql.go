package repository

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/pkg/errors"
)

const settingsID = 1

type SQLRepository struct {
	DB *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Get(ctx context.Context) (model.AppSettings, error) {
	var s model.AppSettings
	found, err := r.DB.Get(ctx, &s, `SELECT id, currency_symbol, electricity_rate_kwh, printer_wattage,
		hourly_rate, machine_depreciation_rate, profit_margin_percent, fixed_fee_per_order,
		webhook_url, webhook_enabled, webhook_events, webhook_order_due_days, low_spool_threshold_g,
		enable_spool_negative_prevention, minimum_spool_reserve_g, enable_low_spool_alerts,
		enable_tracking_id_auto_generation, updated_at
		FROM app_settings WHERE id = ?`, settingsID)
	if err != nil {
		return model.AppSettings{}, errors.Wrap(err, "get settings")
	}
	if !found {
		return model.DefaultSettings(), nil
	}
	return s, nil
}

func (r *SQLRepository) Save(ctx context.Context, s *model.AppSettings) error {
	s.ID = settingsID
	_, err := r.DB.NamedExec(ctx, `
        INSERT INTO app_settings (
            id, currency_symbol, electricity_rate_kwh, printer_wattage, hourly_rate,
            machine_depreciation_rate, profit_margin_percent, fixed_fee_per_order,
            webhook_url, webhook_enabled, webhook_events, webhook_order_due_days,
            low_spool_threshold_g, enable_spool_negative_prevention, minimum_spool_reserve_g,
            enable_low_spool_alerts, enable_tracking_id_auto_generation, updated_at
        ) VALUES (
            :id, :currency_symbol, :electricity_rate_kwh, :printer_wattage, :hourly_rate,
            :machine_depreciation_rate, :profit_margin_percent, :fixed_fee_per_order,
            :webhook_url, :webhook_enabled, :webhook_events, :webhook_order_due_days,
            :low_spool_threshold_g, :enable_spool_negative_prevention, :minimum_spool_reserve_g,
            :enable_low_spool_alerts, :enable_tracking_id_auto_generation, :updated_at
        )
        ON CONFLICT (id) DO UPDATE SET
            currency_symbol = EXCLUDED.currency_symbol,
            electricity_rate_kwh = EXCLUDED.electricity_rate_kwh,
            printer_wattage = EXCLUDED.printer_wattage,
            hourly_rate = EXCLUDED.hourly_rate,
            machine_depreciation_rate = EXCLUDED.machine_depreciation_rate,
            profit_margin_percent = EXCLUDED.profit_margin_percent,
            fixed_fee_per_order = EXCLUDED.fixed_fee_per_order,
            webhook_url = EXCLUDED.webhook_url,
            webhook_enabled = EXCLUDED.webhook_enabled,
            webhook_events = EXCLUDED.webhook_events,
            webhook_order_due_days = EXCLUDED.webhook_order_due_days,
            low_spool_threshold_g = EXCLUDED.low_spool_threshold_g,
            enable_spool_negative_prevention = EXCLUDED.enable_spool_negative_prevention,
            minimum_spool_reserve_g = EXCLUDED.minimum_spool_reserve_g,
            enable_low_spool_alerts = EXCLUDED.enable_low_spool_alerts,
            enable_tracking_id_auto_generation = EXCLUDED.enable_tracking_id_auto_generation,
            updated_at = EXCLUDED.updated_at`, s)
	return errors.Wrap(err, "save settings")
}
