package project

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

type Repository interface {
	// GetByID loads the project with its filament and hardware lists, or
	// returns (nil, nil).
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context, activeOnly bool) ([]model.Project, error)
	Create(ctx context.Context, p *model.Project) error
	Update(ctx context.Context, p *model.Project) error
	ReplaceFilaments(ctx context.Context, projectID int64, items []model.ProjectFilament) error
	ReplaceHardware(ctx context.Context, projectID int64, items []model.ProjectHardware) error
	CountProducts(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) error
}
