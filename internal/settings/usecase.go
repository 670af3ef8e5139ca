package settings

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

type UpdateInput struct {
	CurrencySymbol                 *string   `json:"currency_symbol,omitempty"`
	ElectricityRateKWh             *float64  `json:"electricity_rate_kwh,omitempty"`
	PrinterWattage                 *float64  `json:"printer_wattage,omitempty"`
	HourlyRate                     *float64  `json:"hourly_rate,omitempty"`
	MachineDepreciationRate        *float64  `json:"machine_depreciation_rate,omitempty"`
	ProfitMarginPercent            *float64  `json:"profit_margin_percent,omitempty"`
	FixedFeePerOrder               *float64  `json:"fixed_fee_per_order,omitempty"`
	WebhookURL                     *string   `json:"webhook_url,omitempty"`
	WebhookEnabled                 *bool     `json:"webhook_enabled,omitempty"`
	WebhookEvents                  *[]string `json:"webhook_events,omitempty"`
	WebhookOrderDueDays            *int      `json:"webhook_order_due_days,omitempty"`
	LowSpoolThresholdG             *float64  `json:"low_spool_threshold_g,omitempty"`
	EnableSpoolNegativePrevention  *bool     `json:"enable_spool_negative_prevention,omitempty"`
	MinimumSpoolReserveG           *float64  `json:"minimum_spool_reserve_g,omitempty"`
	EnableLowSpoolAlerts           *bool     `json:"enable_low_spool_alerts,omitempty"`
	EnableTrackingIDAutoGeneration *bool     `json:"enable_tracking_id_auto_generation,omitempty"`
}

type UseCase interface {
	GetSettings(ctx context.Context) (model.AppSettings, error)
	UpdateSettings(ctx context.Context, input *UpdateInput) (model.AppSettings, error)
}
