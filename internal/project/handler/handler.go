package handler

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/project"
	"github.com/fekuna/printfarm-inventory-service/internal/project/dto"
	"github.com/fekuna/printfarm-inventory-service/pkg/grpcjson"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"google.golang.org/grpc"
)

const serviceName = "printfarm.inventory.v1.ProjectService"

type ProjectHandler struct {
	uc     project.UseCase
	logger logger.ZapLogger
}

func NewProjectHandler(uc project.UseCase, log logger.ZapLogger) *ProjectHandler {
	return &ProjectHandler{uc: uc, logger: log}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(serviceName, "CreateProject", (*ProjectHandler).CreateProject),
		grpcjson.Unary(serviceName, "UpdateProject", (*ProjectHandler).UpdateProject),
		grpcjson.Unary(serviceName, "GetProject", (*ProjectHandler).GetProject),
		grpcjson.Unary(serviceName, "ListProjects", (*ProjectHandler).ListProjects),
		grpcjson.Unary(serviceName, "DeleteProject", (*ProjectHandler).DeleteProject),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "project.proto",
}

type UpdateProjectRequest struct {
	ID int64 `json:"id"`
	dto.ProjectInput
}

type ListProjectsRequest struct {
	ActiveOnly bool `json:"active_only"`
}

type ListProjectsResponse struct {
	Projects []model.Project `json:"projects"`
}

func (h *ProjectHandler) CreateProject(ctx context.Context, req *dto.ProjectInput) (*model.Project, error) {
	p, err := h.uc.CreateProject(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "CreateProject", err)
	}
	return p, nil
}

func (h *ProjectHandler) UpdateProject(ctx context.Context, req *UpdateProjectRequest) (*model.Project, error) {
	p, err := h.uc.UpdateProject(ctx, req.ID, &req.ProjectInput)
	if err != nil {
		return nil, apperror.Respond(h.logger, "UpdateProject", err)
	}
	return p, nil
}

func (h *ProjectHandler) GetProject(ctx context.Context, req *grpcjson.IDRequest) (*model.Project, error) {
	p, err := h.uc.GetProject(ctx, req.ID)
	if err != nil {
		return nil, apperror.Respond(h.logger, "GetProject", err)
	}
	return p, nil
}

func (h *ProjectHandler) ListProjects(ctx context.Context, req *ListProjectsRequest) (*ListProjectsResponse, error) {
	items, err := h.uc.ListProjects(ctx, req.ActiveOnly)
	if err != nil {
		return nil, apperror.Respond(h.logger, "ListProjects", err)
	}
	return &ListProjectsResponse{Projects: items}, nil
}

func (h *ProjectHandler) DeleteProject(ctx context.Context, req *grpcjson.IDRequest) (*grpcjson.Empty, error) {
	if err := h.uc.DeleteProject(ctx, req.ID); err != nil {
		return nil, apperror.Respond(h.logger, "DeleteProject", err)
	}
	return &grpcjson.Empty{}, nil
}
