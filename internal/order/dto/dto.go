package dto

import (
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
)

// HardwareLineInput is either a stock item (HardwareItemID) or a one-off
// part bought for this order only.
type HardwareLineInput struct {
	HardwareItemID *int64   `json:"hardware_item_id,omitempty"`
	Quantity       int      `json:"quantity"`
	IsOneOff       bool     `json:"is_one_off"`
	OneOffName     *string  `json:"one_off_name,omitempty"`
	OneOffCost     *float64 `json:"one_off_cost,omitempty"`
}

// CreateInput accepts either Spools or a single SpoolID, which then draws
// the project's filament grams.
type CreateInput struct {
	ProjectID        *int64                      `json:"project_id,omitempty"`
	CustomName       *string                     `json:"custom_name,omitempty"`
	CustomPrice      *float64                    `json:"custom_price,omitempty"`
	CustomerName     *string                     `json:"customer_name,omitempty"`
	CustomerContact  *string                     `json:"customer_contact,omitempty"`
	CustomerLocation *string                     `json:"customer_location,omitempty"`
	Status           string                      `json:"status"`
	QuotedPrice      *float64                    `json:"quoted_price,omitempty"`
	DueDate          *time.Time                  `json:"due_date,omitempty"`
	ShippingCharge   float64                     `json:"shipping_charge"`
	Notes            *string                     `json:"notes,omitempty"`
	Spools           []inventory.AllocationInput `json:"spools,omitempty"`
	SpoolID          *int64                      `json:"spool_id,omitempty"`
	Hardware         []HardwareLineInput         `json:"hardware,omitempty"`
}

type UpdateInput struct {
	ProjectID        *int64                       `json:"project_id,omitempty"`
	CustomName       *string                      `json:"custom_name,omitempty"`
	CustomPrice      *float64                     `json:"custom_price,omitempty"`
	CustomerName     *string                      `json:"customer_name,omitempty"`
	CustomerContact  *string                      `json:"customer_contact,omitempty"`
	CustomerLocation *string                      `json:"customer_location,omitempty"`
	Status           *string                      `json:"status,omitempty"`
	QuotedPrice      *float64                     `json:"quoted_price,omitempty"`
	DueDate          *time.Time                   `json:"due_date,omitempty"`
	ShippingCharge   *float64                     `json:"shipping_charge,omitempty"`
	Notes            *string                      `json:"notes,omitempty"`
	Spools           *[]inventory.AllocationInput `json:"spools,omitempty"`
	SpoolID          *int64                       `json:"spool_id,omitempty"`
	Hardware         *[]HardwareLineInput         `json:"hardware,omitempty"`
}

type Filters struct {
	Status   string `json:"status"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}
