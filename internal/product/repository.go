package product

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/product/dto"
)

// Repository stores products on hand. GetByID returns (nil, nil) when the
// product does not exist.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*model.ProductOnHand, error)
	List(ctx context.Context, filters *dto.Filters) ([]model.ProductOnHand, int, error)
	Create(ctx context.Context, p *model.ProductOnHand) error
	Update(ctx context.Context, p *model.ProductOnHand) error
	Delete(ctx context.Context, id int64) error
}
