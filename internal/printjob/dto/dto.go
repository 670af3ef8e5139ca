package dto

import (
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
)

// CreateInput accepts either Spools or the single SpoolID/FilamentUsedG pair.
// Spools wins when both are given.
type CreateInput struct {
	Name             *string                     `json:"name,omitempty"`
	Description      *string                     `json:"description,omitempty"`
	Status           string                      `json:"status"`
	PrintTimeMinutes *int                        `json:"print_time_minutes,omitempty"`
	WasForCustomer   bool                        `json:"was_for_customer"`
	CustomerName     *string                     `json:"customer_name,omitempty"`
	QuotedPrice      *float64                    `json:"quoted_price,omitempty"`
	Notes            *string                     `json:"notes,omitempty"`
	PrintedAt        *time.Time                  `json:"printed_at,omitempty"`
	ProjectID        *int64                      `json:"project_id,omitempty"`
	Spools           []inventory.AllocationInput `json:"spools,omitempty"`
	SpoolID          *int64                      `json:"spool_id,omitempty"`
	FilamentUsedG    float64                     `json:"filament_used_g"`
	Force            bool                        `json:"force"`
}

// UpdateInput is a partial update. Spools replaces the whole allocation list;
// FilamentUsedG edits the amount of a single-spool job in place.
type UpdateInput struct {
	Name             *string                      `json:"name,omitempty"`
	Description      *string                      `json:"description,omitempty"`
	Status           *string                      `json:"status,omitempty"`
	PrintTimeMinutes *int                         `json:"print_time_minutes,omitempty"`
	WasForCustomer   *bool                        `json:"was_for_customer,omitempty"`
	CustomerName     *string                      `json:"customer_name,omitempty"`
	QuotedPrice      *float64                     `json:"quoted_price,omitempty"`
	Notes            *string                      `json:"notes,omitempty"`
	PrintedAt        *time.Time                   `json:"printed_at,omitempty"`
	ProjectID        *int64                       `json:"project_id,omitempty"`
	Spools           *[]inventory.AllocationInput `json:"spools,omitempty"`
	FilamentUsedG    *float64                     `json:"filament_used_g,omitempty"`
	Force            bool                         `json:"force"`
}

type Filters struct {
	Status    string `json:"status"`
	ProjectID *int64 `json:"project_id,omitempty"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

// EstimateInput prices a planned print. SpoolID takes the spool's cost per
// kg; without it CostPerKg is used as given.
type EstimateInput struct {
	SpoolID          *int64   `json:"spool_id,omitempty"`
	CostPerKg        *float64 `json:"cost_per_kg,omitempty"`
	Grams            float64  `json:"grams"`
	PrintTimeMinutes float64  `json:"print_time_minutes"`
}
