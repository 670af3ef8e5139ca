package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventOrderDue          = "order_due"
	EventOrderStatusChange = "order_status_change"
	EventLowStock          = "low_stock"
)

// StringList is stored as a JSON array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("StringList: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// AppSettings is the single settings row. It is read inside each
// transaction and passed by value into every engine call.
type AppSettings struct {
	ID                             int64      `db:"id" json:"-"`
	CurrencySymbol                 string     `db:"currency_symbol" json:"currency_symbol"`
	ElectricityRateKWh             float64    `db:"electricity_rate_kwh" json:"electricity_rate_kwh"`
	PrinterWattage                 float64    `db:"printer_wattage" json:"printer_wattage"`
	HourlyRate                     float64    `db:"hourly_rate" json:"hourly_rate"`
	MachineDepreciationRate        float64    `db:"machine_depreciation_rate" json:"machine_depreciation_rate"`
	ProfitMarginPercent            float64    `db:"profit_margin_percent" json:"profit_margin_percent"`
	FixedFeePerOrder               float64    `db:"fixed_fee_per_order" json:"fixed_fee_per_order"`
	WebhookURL                     *string    `db:"webhook_url" json:"webhook_url,omitempty"`
	WebhookEnabled                 bool       `db:"webhook_enabled" json:"webhook_enabled"`
	WebhookEvents                  StringList `db:"webhook_events" json:"webhook_events"`
	WebhookOrderDueDays            int        `db:"webhook_order_due_days" json:"webhook_order_due_days"`
	LowSpoolThresholdG             float64    `db:"low_spool_threshold_g" json:"low_spool_threshold_g"`
	EnableSpoolNegativePrevention  bool       `db:"enable_spool_negative_prevention" json:"enable_spool_negative_prevention"`
	MinimumSpoolReserveG           float64    `db:"minimum_spool_reserve_g" json:"minimum_spool_reserve_g"`
	EnableLowSpoolAlerts           bool       `db:"enable_low_spool_alerts" json:"enable_low_spool_alerts"`
	EnableTrackingIDAutoGeneration bool       `db:"enable_tracking_id_auto_generation" json:"enable_tracking_id_auto_generation"`
	UpdatedAt                      time.Time  `db:"updated_at" json:"updated_at"`
}

func DefaultSettings() AppSettings {
	return AppSettings{
		ID:                             1,
		CurrencySymbol:                 "$",
		ElectricityRateKWh:             0.12,
		PrinterWattage:                 200,
		HourlyRate:                     2.00,
		MachineDepreciationRate:        0.50,
		ProfitMarginPercent:            5,
		FixedFeePerOrder:               5,
		WebhookEvents:                  StringList{EventOrderDue},
		WebhookOrderDueDays:            2,
		LowSpoolThresholdG:             50,
		EnableSpoolNegativePrevention:  true,
		MinimumSpoolReserveG:           5,
		EnableLowSpoolAlerts:           true,
		EnableTrackingIDAutoGeneration: true,
	}
}

// WebhookTarget returns the configured URL when event delivery is enabled
// for event.
func (s AppSettings) WebhookTarget(event string) (string, bool) {
	if !s.WebhookEnabled || s.WebhookURL == nil || *s.WebhookURL == "" {
		return "", false
	}
	if !s.WebhookEvents.Contains(event) {
		return "", false
	}
	return *s.WebhookURL, true
}
