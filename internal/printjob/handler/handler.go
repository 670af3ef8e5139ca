package handler

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/cost"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/printjob"
	"github.com/fekuna/printfarm-inventory-service/internal/printjob/dto"
	"github.com/fekuna/printfarm-inventory-service/pkg/grpcjson"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"google.golang.org/grpc"
)

const serviceName = "printfarm.inventory.v1.PrintJobService"

type PrintJobHandler struct {
	uc     printjob.UseCase
	logger logger.ZapLogger
}

func NewPrintJobHandler(uc printjob.UseCase, log logger.ZapLogger) *PrintJobHandler {
	return &PrintJobHandler{uc: uc, logger: log}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(serviceName, "CreatePrintJob", (*PrintJobHandler).CreatePrintJob),
		grpcjson.Unary(serviceName, "UpdatePrintJob", (*PrintJobHandler).UpdatePrintJob),
		grpcjson.Unary(serviceName, "DeletePrintJob", (*PrintJobHandler).DeletePrintJob),
		grpcjson.Unary(serviceName, "GetPrintJob", (*PrintJobHandler).GetPrintJob),
		grpcjson.Unary(serviceName, "ListPrintJobs", (*PrintJobHandler).ListPrintJobs),
		grpcjson.Unary(serviceName, "EstimateCost", (*PrintJobHandler).EstimateCost),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "print_job.proto",
}

type UpdatePrintJobRequest struct {
	ID int64 `json:"id"`
	dto.UpdateInput
}

type ListPrintJobsResponse struct {
	PrintJobs []model.PrintJob `json:"print_jobs"`
	Total     int              `json:"total"`
}

func (h *PrintJobHandler) CreatePrintJob(ctx context.Context, req *dto.CreateInput) (*model.PrintJob, error) {
	job, err := h.uc.CreatePrintJob(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "CreatePrintJob", err)
	}
	return job, nil
}

func (h *PrintJobHandler) UpdatePrintJob(ctx context.Context, req *UpdatePrintJobRequest) (*model.PrintJob, error) {
	job, err := h.uc.UpdatePrintJob(ctx, req.ID, &req.UpdateInput)
	if err != nil {
		return nil, apperror.Respond(h.logger, "UpdatePrintJob", err)
	}
	return job, nil
}

func (h *PrintJobHandler) DeletePrintJob(ctx context.Context, req *grpcjson.IDRequest) (*grpcjson.Empty, error) {
	if err := h.uc.DeletePrintJob(ctx, req.ID); err != nil {
		return nil, apperror.Respond(h.logger, "DeletePrintJob", err)
	}
	return &grpcjson.Empty{}, nil
}

func (h *PrintJobHandler) GetPrintJob(ctx context.Context, req *grpcjson.IDRequest) (*model.PrintJob, error) {
	job, err := h.uc.GetPrintJob(ctx, req.ID)
	if err != nil {
		return nil, apperror.Respond(h.logger, "GetPrintJob", err)
	}
	return job, nil
}

func (h *PrintJobHandler) ListPrintJobs(ctx context.Context, req *dto.Filters) (*ListPrintJobsResponse, error) {
	jobs, total, err := h.uc.ListPrintJobs(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "ListPrintJobs", err)
	}
	return &ListPrintJobsResponse{PrintJobs: jobs, Total: total}, nil
}

func (h *PrintJobHandler) EstimateCost(ctx context.Context, req *dto.EstimateInput) (*cost.Breakdown, error) {
	b, err := h.uc.EstimateCost(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "EstimateCost", err)
	}
	return b, nil
}
