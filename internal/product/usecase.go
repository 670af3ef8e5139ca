package product

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateInput) (*model.ProductOnHand, error)
	UpdateProduct(ctx context.Context, id int64, input *dto.UpdateInput) (*model.ProductOnHand, error)
	// ConvertToOrder sells the product: it becomes a "sold" order and the
	// product row is removed.
	ConvertToOrder(ctx context.Context, id int64, input *dto.ConvertInput) (*model.Order, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*model.ProductOnHand, error)
	ListProducts(ctx context.Context, filters *dto.Filters) ([]model.ProductOnHand, int, error)
	ProductCost(ctx context.Context, id int64) (float64, error)
}
