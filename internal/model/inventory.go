package model

import (
	"strings"
	"time"
)

type ResourceKind string

const (
	ResourceSpool    ResourceKind = "SPOOL"
	ResourceHardware ResourceKind = "HARDWARE"
)

// Spool is a physical filament spool. RemainingWeightG is a ledger value and
// only changes through consumption or a manual adjustment.
type Spool struct {
	ID               int64     `db:"id" json:"id"`
	FilamentType     string    `db:"filament_type" json:"filament_type"`
	Manufacturer     string    `db:"manufacturer" json:"manufacturer"`
	ColorName        string    `db:"color_name" json:"color_name"`
	ColorHex         *string   `db:"color_hex" json:"color_hex,omitempty"`
	TotalWeightG     float64   `db:"total_weight_g" json:"total_weight_g"`
	RemainingWeightG float64   `db:"remaining_weight_g" json:"remaining_weight_g"`
	PurchasePrice    float64   `db:"purchase_price" json:"purchase_price"`
	TrackingID       *string   `db:"tracking_id" json:"tracking_id,omitempty"`
	Location         *string   `db:"location" json:"location,omitempty"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Label is the human name used in shortages and alerts, e.g.
// "Prusament PLA Galaxy Black (PLA01)".
func (s *Spool) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.Manufacturer, s.FilamentType, s.ColorName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	label := strings.Join(parts, " ")
	if s.TrackingID != nil && *s.TrackingID != "" {
		label += " (" + *s.TrackingID + ")"
	}
	return label
}

// CostPerKg is the snapshot value copied into allocations.
func (s *Spool) CostPerKg() float64 {
	if s.TotalWeightG <= 0 {
		return 0
	}
	return Round(s.PurchasePrice/s.TotalWeightG*1000, 4)
}

type HardwareItem struct {
	ID                int64     `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Brand             *string   `db:"brand" json:"brand,omitempty"`
	PurchasePrice     float64   `db:"purchase_price" json:"purchase_price"`
	QuantityPurchased int       `db:"quantity_purchased" json:"quantity_purchased"`
	QuantityInStock   int       `db:"quantity_in_stock" json:"quantity_in_stock"`
	LowStockThreshold *int      `db:"low_stock_threshold" json:"low_stock_threshold,omitempty"`
	Notes             *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

func (h *HardwareItem) CostPerItem() float64 {
	if h.QuantityPurchased <= 0 {
		return 0
	}
	return Round(h.PurchasePrice/float64(h.QuantityPurchased), 4)
}

func (h *HardwareItem) Label() string {
	if h.Brand != nil && *h.Brand != "" {
		return *h.Brand + " " + h.Name
	}
	return h.Name
}

func (h *HardwareItem) IsLowStock() bool {
	return h.LowStockThreshold != nil && h.QuantityInStock <= *h.LowStockThreshold
}

const (
	MovementDeduct           = "deduct"
	MovementRestore          = "restore"
	MovementManualAdjustment = "manual_adjustment"
	MovementImport           = "import"
)

// StockMovement is the audit row written with every ledger mutation.
type StockMovement struct {
	ID             string       `db:"id" json:"id"`
	ResourceKind   ResourceKind `db:"resource_kind" json:"resource_kind"`
	ResourceID     int64        `db:"resource_id" json:"resource_id"`
	MovementType   string       `db:"movement_type" json:"movement_type"`
	QuantityChange float64      `db:"quantity_change" json:"quantity_change"`
	QuantityBefore float64      `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  float64      `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string      `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID    *int64       `db:"reference_id" json:"reference_id,omitempty"`
	Notes          string       `db:"notes" json:"notes"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

// Usage is one requested draw against a resource.
type Usage struct {
	ResourceID int64   `json:"resource_id"`
	Amount     float64 `json:"amount"`
}

// Shortage describes a single resource that cannot cover a request.
type Shortage struct {
	ResourceID     int64   `json:"resource_id"`
	Label          string  `json:"label"`
	TrackingID     *string `json:"tracking_id,omitempty"`
	Current        float64 `json:"current"`
	Requested      float64 `json:"requested"`
	Resulting      float64 `json:"resulting"`
	ShortageAmount float64 `json:"shortage"`
	WithinReserve  bool    `json:"within_reserve"`
}
