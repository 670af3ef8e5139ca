package model

import "time"

const (
	PrintJobCompleted = "completed"
	PrintJobFailed    = "failed"
	PrintJobCancelled = "cancelled"
)

func ValidPrintJobStatus(s string) bool {
	switch s {
	case PrintJobCompleted, PrintJobFailed, PrintJobCancelled:
		return true
	}
	return false
}

type PrintJob struct {
	ID               int64       `db:"id" json:"id"`
	Name             *string     `db:"name" json:"name,omitempty"`
	Description      *string     `db:"description" json:"description,omitempty"`
	Status           string      `db:"status" json:"status"`
	PrintTimeMinutes *int        `db:"print_time_minutes" json:"print_time_minutes,omitempty"`
	WasForCustomer   bool        `db:"was_for_customer" json:"was_for_customer"`
	CustomerName     *string     `db:"customer_name" json:"customer_name,omitempty"`
	QuotedPrice      *float64    `db:"quoted_price" json:"quoted_price,omitempty"`
	Notes            *string     `db:"notes" json:"notes,omitempty"`
	PrintedAt        time.Time   `db:"printed_at" json:"printed_at"`
	ProjectID        *int64      `db:"project_id" json:"project_id,omitempty"`
	OrderID          *int64      `db:"order_id" json:"order_id,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
	Spools           Allocations `db:"-" json:"spools"`
}

func (p *PrintJob) IsCompleted() bool { return p.Status == PrintJobCompleted }
