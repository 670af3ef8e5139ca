package model

import (
	"fmt"
	"time"
)

const (
	OrderOrdered  = "ordered"
	OrderPrinted  = "printed"
	OrderFinished = "finished"
	OrderSold     = "sold"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderOrdered, OrderPrinted, OrderFinished, OrderSold:
		return true
	}
	return false
}

type Order struct {
	ID                     int64           `db:"id" json:"id"`
	ProjectID              *int64          `db:"project_id" json:"project_id,omitempty"`
	CustomName             *string         `db:"custom_name" json:"custom_name,omitempty"`
	CustomPrice            *float64        `db:"custom_price" json:"custom_price,omitempty"`
	CustomerName           *string         `db:"customer_name" json:"customer_name,omitempty"`
	CustomerContact        *string         `db:"customer_contact" json:"customer_contact,omitempty"`
	CustomerLocation       *string         `db:"customer_location" json:"customer_location,omitempty"`
	Status                 string          `db:"status" json:"status"`
	QuotedPrice            *float64        `db:"quoted_price" json:"quoted_price,omitempty"`
	DueDate                *time.Time      `db:"due_date" json:"due_date,omitempty"`
	ShippingCharge         float64         `db:"shipping_charge" json:"shipping_charge"`
	Notes                  *string         `db:"notes" json:"notes,omitempty"`
	FilamentGramsSnapshot  *float64        `db:"filament_grams_snapshot" json:"filament_grams_snapshot,omitempty"`
	PrintTimeHoursSnapshot *float64        `db:"print_time_hours_snapshot" json:"print_time_hours_snapshot,omitempty"`
	CreatedAt              time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time       `db:"updated_at" json:"updated_at"`
	Spools                 Allocations     `db:"-" json:"spools"`
	Hardware               []OrderHardware `db:"-" json:"hardware"`
}

func (o *Order) DisplayName() string {
	if o.CustomName != nil && *o.CustomName != "" {
		return *o.CustomName
	}
	return fmt.Sprintf("Order #%d", o.ID)
}

func (o *Order) Customer() string {
	if o.CustomerName != nil && *o.CustomerName != "" {
		return *o.CustomerName
	}
	return "Unknown customer"
}

// OrderHardware is a hardware line with its price frozen at link time. One-off
// lines describe parts bought for this order only and never touch stock.
type OrderHardware struct {
	ID               int64    `db:"id" json:"id"`
	OrderID          int64    `db:"order_id" json:"-"`
	HardwareItemID   *int64   `db:"hardware_item_id" json:"hardware_item_id,omitempty"`
	Quantity         int      `db:"quantity" json:"quantity"`
	UnitCostSnapshot float64  `db:"unit_cost_snapshot" json:"unit_cost_snapshot"`
	NameSnapshot     *string  `db:"name_snapshot" json:"name_snapshot,omitempty"`
	BrandSnapshot    *string  `db:"brand_snapshot" json:"brand_snapshot,omitempty"`
	IsOneOff         bool     `db:"is_one_off" json:"is_one_off"`
	OneOffName       *string  `db:"one_off_name" json:"one_off_name,omitempty"`
	OneOffCost       *float64 `db:"one_off_cost" json:"one_off_cost,omitempty"`
}

// LineCost is the frozen cost of the whole line. One-off lines carry their
// price in UnitCostSnapshot as well.
func (h *OrderHardware) LineCost() float64 {
	return h.UnitCostSnapshot * float64(h.Quantity)
}

// StockUsages collapses stock-tracked lines into per-item usages.
func StockUsages(lines []OrderHardware) []Usage {
	out := make([]Usage, 0, len(lines))
	for _, l := range lines {
		if l.IsOneOff || l.HardwareItemID == nil {
			continue
		}
		out = append(out, Usage{ResourceID: *l.HardwareItemID, Amount: float64(l.Quantity)})
	}
	return out
}
