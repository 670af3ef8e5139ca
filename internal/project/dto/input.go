package dto

type FilamentInput struct {
	FilamentType string  `json:"filament_type"`
	Grams        float64 `json:"grams"`
	Position     int     `json:"position"`
	ColorNote    *string `json:"color_note,omitempty"`
}

type HardwareInput struct {
	HardwareItemID int64 `json:"hardware_item_id"`
	Quantity       int   `json:"quantity"`
}

// ProjectInput is shared by create and update. Nil fields are left alone on
// update; non-nil slices replace the stored lists.
type ProjectInput struct {
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	FilamentGrams  *float64         `json:"filament_grams,omitempty"`
	PrintTimeHours *float64         `json:"print_time_hours,omitempty"`
	SellPrice      *float64         `json:"sell_price,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
	Filaments      *[]FilamentInput `json:"filaments,omitempty"`
	Hardware       *[]HardwareInput `json:"hardware,omitempty"`
}
