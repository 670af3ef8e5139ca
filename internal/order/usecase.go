package order

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/cost"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateInput) (*model.Order, error)
	UpdateOrder(ctx context.Context, id int64, input *dto.UpdateInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.Filters) ([]model.Order, int, error)

	// CreatePrintJob generates the single print job of an order.
	CreatePrintJob(ctx context.Context, orderID int64, force bool) (*model.PrintJob, error)
	OrderProfit(ctx context.Context, id int64) (*cost.OrderProfit, error)
	OrderSummary(ctx context.Context) (*cost.Summary, error)
	// CheckDueOrders notifies about "ordered" orders due in the configured
	// number of days and returns how many were found.
	CheckDueOrders(ctx context.Context) (int, error)
}
