package model

import "time"

const (
	ProductPrinted   = "printed"
	ProductCompleted = "completed"
)

// ProductOnHand is a finished item in stock, backed by one completed print
// job. HardwareDeducted records that the project's hardware already left the
// ledger for this item.
type ProductOnHand struct {
	ID               int64     `db:"id" json:"id"`
	PrintJobID       int64     `db:"print_job_id" json:"print_job_id"`
	ProjectID        *int64    `db:"project_id" json:"project_id,omitempty"`
	Name             *string   `db:"name" json:"name,omitempty"`
	Status           string    `db:"status" json:"status"`
	Location         *string   `db:"location" json:"location,omitempty"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
	HardwareDeducted bool      `db:"hardware_deducted" json:"hardware_deducted"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
