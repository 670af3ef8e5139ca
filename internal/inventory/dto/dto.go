package dto

import (
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

type SpoolFilters struct {
	Search     string
	ActiveOnly bool
	Page       int
	PageSize   int
}

type MovementFilters struct {
	ResourceKind  model.ResourceKind
	ResourceID    int64
	MovementType  string
	ReferenceType string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}

type CreateSpoolInput struct {
	FilamentType     string   `json:"filament_type"`
	Manufacturer     string   `json:"manufacturer"`
	ColorName        string   `json:"color_name"`
	ColorHex         *string  `json:"color_hex,omitempty"`
	TotalWeightG     float64  `json:"total_weight_g"`
	RemainingWeightG *float64 `json:"remaining_weight_g,omitempty"`
	PurchasePrice    float64  `json:"purchase_price"`
	TrackingID       *string  `json:"tracking_id,omitempty"`
	Location         *string  `json:"location,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

// UpdateSpoolInput edits descriptive fields only. Weight changes go through
// AdjustSpool.
type UpdateSpoolInput struct {
	FilamentType  *string  `json:"filament_type,omitempty"`
	Manufacturer  *string  `json:"manufacturer,omitempty"`
	ColorName     *string  `json:"color_name,omitempty"`
	ColorHex      *string  `json:"color_hex,omitempty"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	TrackingID    *string  `json:"tracking_id,omitempty"`
	Location      *string  `json:"location,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type CreateHardwareInput struct {
	Name              string  `json:"name"`
	Brand             *string `json:"brand,omitempty"`
	PurchasePrice     float64 `json:"purchase_price"`
	QuantityPurchased int     `json:"quantity_purchased"`
	QuantityInStock   *int    `json:"quantity_in_stock,omitempty"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// UpdateHardwareInput edits descriptive fields only. Stock changes go through
// AdjustHardware.
type UpdateHardwareInput struct {
	Name              *string  `json:"name,omitempty"`
	Brand             *string  `json:"brand,omitempty"`
	PurchasePrice     *float64 `json:"purchase_price,omitempty"`
	QuantityPurchased *int     `json:"quantity_purchased,omitempty"`
	LowStockThreshold *int     `json:"low_stock_threshold,omitempty"`
	Notes             *string  `json:"notes,omitempty"`
}

type HardwareSummary struct {
	TotalItems        int     `json:"total_items"`
	TotalInvested     float64 `json:"total_invested"`
	TotalInStockValue float64 `json:"total_in_stock_value"`
	LowStockItems     int     `json:"low_stock_items"`
	CurrencySymbol    string  `json:"currency_symbol"`
}

type AdjustInput struct {
	ID     int64   `json:"id"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

type ValidateInput struct {
	Usages []model.Usage `json:"usages"`
}

type ValidationResult struct {
	Valid     bool             `json:"valid"`
	Shortages []model.Shortage `json:"shortages"`
}

type SpoolAlerts struct {
	ThresholdG  float64       `json:"threshold_g"`
	EmptySpools []model.Spool `json:"empty_spools"`
	LowSpools   []model.Spool `json:"low_spools"`
}
