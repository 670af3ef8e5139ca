package project

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/project/dto"
)

type UseCase interface {
	CreateProject(ctx context.Context, input *dto.ProjectInput) (*model.Project, error)
	UpdateProject(ctx context.Context, id int64, input *dto.ProjectInput) (*model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	ListProjects(ctx context.Context, activeOnly bool) ([]model.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}
