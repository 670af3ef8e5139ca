package inventory

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/inventory/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

// Repository is the ledger storage. Lookups return (nil, nil) when the row
// does not exist. Every method joins the transaction carried by ctx.
type Repository interface {
	// Spools
	GetSpool(ctx context.Context, id int64) (*model.Spool, error)
	GetSpoolsByIDs(ctx context.Context, ids []int64) ([]model.Spool, error)
	FindSpoolByTrackingID(ctx context.Context, trackingID string) (*model.Spool, error)
	ListTrackingIDs(ctx context.Context, prefix string) ([]string, error)
	ListSpools(ctx context.Context, filters *dto.SpoolFilters) ([]model.Spool, int, error)
	ListLowSpools(ctx context.Context, threshold float64) ([]model.Spool, error)
	CreateSpool(ctx context.Context, spool *model.Spool) error
	UpdateSpool(ctx context.Context, spool *model.Spool) error
	SetSpoolRemaining(ctx context.Context, id int64, remaining float64) error
	CountSpoolReferences(ctx context.Context, id int64) (int, error)
	DeleteSpool(ctx context.Context, id int64) error

	// Hardware
	GetHardware(ctx context.Context, id int64) (*model.HardwareItem, error)
	GetHardwareByIDs(ctx context.Context, ids []int64) ([]model.HardwareItem, error)
	ListHardware(ctx context.Context) ([]model.HardwareItem, error)
	CreateHardware(ctx context.Context, item *model.HardwareItem) error
	UpdateHardware(ctx context.Context, item *model.HardwareItem) error
	SetHardwareStock(ctx context.Context, id int64, quantity int) error
	CountHardwareReferences(ctx context.Context, id int64) (int, error)
	DeleteHardware(ctx context.Context, id int64) error

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
