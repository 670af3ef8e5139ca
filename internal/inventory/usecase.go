package inventory

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/inventory/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

type UseCase interface {
	ValidateInventory(ctx context.Context, input *dto.ValidateInput) (*dto.ValidationResult, error)

	CreateSpool(ctx context.Context, input *dto.CreateSpoolInput) (*model.Spool, error)
	ImportSpools(ctx context.Context, inputs []dto.CreateSpoolInput) ([]model.Spool, error)
	UpdateSpool(ctx context.Context, id int64, input *dto.UpdateSpoolInput) (*model.Spool, error)
	GetSpool(ctx context.Context, id int64) (*model.Spool, error)
	ListSpools(ctx context.Context, filters *dto.SpoolFilters) ([]model.Spool, int, error)
	DeleteSpool(ctx context.Context, id int64) error
	AdjustSpool(ctx context.Context, input *dto.AdjustInput) (*model.Spool, error)
	SuggestTrackingID(ctx context.Context, filamentType string) (string, error)
	SpoolAlerts(ctx context.Context) (*dto.SpoolAlerts, error)

	CreateHardware(ctx context.Context, input *dto.CreateHardwareInput) (*model.HardwareItem, error)
	UpdateHardware(ctx context.Context, id int64, input *dto.UpdateHardwareInput) (*model.HardwareItem, error)
	ListHardware(ctx context.Context) ([]model.HardwareItem, error)
	HardwareSummary(ctx context.Context) (*dto.HardwareSummary, error)
	DeleteHardware(ctx context.Context, id int64) error
	AdjustHardware(ctx context.Context, input *dto.AdjustInput) (*model.HardwareItem, error)

	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
