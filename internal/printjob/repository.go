package printjob

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/printjob/dto"
)

// Repository stores print jobs with their spool allocations. Lookups return
// (nil, nil) when the job does not exist.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*model.PrintJob, error)
	GetByOrderID(ctx context.Context, orderID int64) (*model.PrintJob, error)
	List(ctx context.Context, filters *dto.Filters) ([]model.PrintJob, int, error)
	Create(ctx context.Context, job *model.PrintJob) error
	Update(ctx context.Context, job *model.PrintJob) error
	ReplaceSpools(ctx context.Context, jobID int64, allocs model.Allocations) error
	CountProducts(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) error
}
