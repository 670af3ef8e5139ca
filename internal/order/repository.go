package order

import (
	"context"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/order/dto"
)

// Repository stores orders with their spool allocations and hardware lines.
// Lookups return (nil, nil) when the order does not exist.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filters *dto.Filters) ([]model.Order, int, error)
	// ListDue returns orders in status whose due date falls in [from, to).
	ListDue(ctx context.Context, status string, from, to time.Time) ([]model.Order, error)
	Create(ctx context.Context, o *model.Order) error
	Update(ctx context.Context, o *model.Order) error
	ReplaceSpools(ctx context.Context, orderID int64, allocs model.Allocations) error
	ReplaceHardware(ctx context.Context, orderID int64, lines []model.OrderHardware) error
	Delete(ctx context.Context, id int64) error
}
