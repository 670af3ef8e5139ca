package model

import "time"

// Project is a reusable template describing what one unit consumes.
type Project struct {
	ID             int64             `db:"id" json:"id"`
	Name           string            `db:"name" json:"name"`
	Description    *string           `db:"description" json:"description,omitempty"`
	FilamentGrams  float64           `db:"filament_grams" json:"filament_grams"`
	PrintTimeHours float64           `db:"print_time_hours" json:"print_time_hours"`
	SellPrice      *float64          `db:"sell_price" json:"sell_price,omitempty"`
	Notes          *string           `db:"notes" json:"notes,omitempty"`
	IsActive       bool              `db:"is_active" json:"is_active"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
	Filaments      []ProjectFilament `db:"-" json:"filaments"`
	Hardware       []ProjectHardware `db:"-" json:"hardware"`
}

type ProjectFilament struct {
	ID           int64   `db:"id" json:"id"`
	ProjectID    int64   `db:"project_id" json:"-"`
	FilamentType string  `db:"filament_type" json:"filament_type"`
	Grams        float64 `db:"grams" json:"grams"`
	Position     int     `db:"position" json:"position"`
	ColorNote    *string `db:"color_note" json:"color_note,omitempty"`
}

type ProjectHardware struct {
	ID             int64 `db:"id" json:"id"`
	ProjectID      int64 `db:"project_id" json:"-"`
	HardwareItemID int64 `db:"hardware_item_id" json:"hardware_item_id"`
	Quantity       int   `db:"quantity" json:"quantity"`
}

func (p *Project) HardwareUsages() []Usage {
	out := make([]Usage, 0, len(p.Hardware))
	for _, h := range p.Hardware {
		out = append(out, Usage{ResourceID: h.HardwareItemID, Amount: float64(h.Quantity)})
	}
	return out
}
