package dto

type CreateInput struct {
	PrintJobID int64   `json:"print_job_id"`
	ProjectID  *int64  `json:"project_id,omitempty"`
	Name       *string `json:"name,omitempty"`
	Status     string  `json:"status"`
	Location   *string `json:"location,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type UpdateInput struct {
	Name     *string `json:"name,omitempty"`
	Status   *string `json:"status,omitempty"`
	Location *string `json:"location,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// ConvertInput describes the customer of the sold order a product becomes.
type ConvertInput struct {
	CustomerName     *string  `json:"customer_name,omitempty"`
	CustomerContact  *string  `json:"customer_contact,omitempty"`
	CustomerLocation *string  `json:"customer_location,omitempty"`
	QuotedPrice      *float64 `json:"quoted_price,omitempty"`
	ShippingCharge   float64  `json:"shipping_charge"`
	Notes            *string  `json:"notes,omitempty"`
}

type Filters struct {
	Status    string `json:"status"`
	ProjectID *int64 `json:"project_id,omitempty"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}
