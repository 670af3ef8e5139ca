package printjob

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/cost"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/printjob/dto"
)

type UseCase interface {
	CreatePrintJob(ctx context.Context, input *dto.CreateInput) (*model.PrintJob, error)
	UpdatePrintJob(ctx context.Context, id int64, input *dto.UpdateInput) (*model.PrintJob, error)
	DeletePrintJob(ctx context.Context, id int64) error
	GetPrintJob(ctx context.Context, id int64) (*model.PrintJob, error)
	ListPrintJobs(ctx context.Context, filters *dto.Filters) ([]model.PrintJob, int, error)
	EstimateCost(ctx context.Context, input *dto.EstimateInput) (*cost.Breakdown, error)
}
