package handler

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/cost"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/order"
	"github.com/fekuna/printfarm-inventory-service/internal/order/dto"
	"github.com/fekuna/printfarm-inventory-service/pkg/grpcjson"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"google.golang.org/grpc"
)

const serviceName = "printfarm.inventory.v1.OrderService"

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(serviceName, "CreateOrder", (*OrderHandler).CreateOrder),
		grpcjson.Unary(serviceName, "UpdateOrder", (*OrderHandler).UpdateOrder),
		grpcjson.Unary(serviceName, "DeleteOrder", (*OrderHandler).DeleteOrder),
		grpcjson.Unary(serviceName, "GetOrder", (*OrderHandler).GetOrder),
		grpcjson.Unary(serviceName, "ListOrders", (*OrderHandler).ListOrders),
		grpcjson.Unary(serviceName, "CreatePrintJob", (*OrderHandler).CreatePrintJob),
		grpcjson.Unary(serviceName, "OrderProfit", (*OrderHandler).OrderProfit),
		grpcjson.Unary(serviceName, "OrderSummary", (*OrderHandler).OrderSummary),
		grpcjson.Unary(serviceName, "CheckDueOrders", (*OrderHandler).CheckDueOrders),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "order.proto",
}

type UpdateOrderRequest struct {
	ID int64 `json:"id"`
	dto.UpdateInput
}

type ListOrdersResponse struct {
	Orders []model.Order `json:"orders"`
	Total  int           `json:"total"`
}

type CreatePrintJobRequest struct {
	OrderID int64 `json:"order_id"`
	Force   bool  `json:"force"`
}

type CheckDueOrdersResponse struct {
	DueOrders int `json:"due_orders"`
}

func (h *OrderHandler) CreateOrder(ctx context.Context, req *dto.CreateInput) (*model.Order, error) {
	o, err := h.uc.CreateOrder(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "CreateOrder", err)
	}
	return o, nil
}

func (h *OrderHandler) UpdateOrder(ctx context.Context, req *UpdateOrderRequest) (*model.Order, error) {
	o, err := h.uc.UpdateOrder(ctx, req.ID, &req.UpdateInput)
	if err != nil {
		return nil, apperror.Respond(h.logger, "UpdateOrder", err)
	}
	return o, nil
}

func (h *OrderHandler) DeleteOrder(ctx context.Context, req *grpcjson.IDRequest) (*grpcjson.Empty, error) {
	if err := h.uc.DeleteOrder(ctx, req.ID); err != nil {
		return nil, apperror.Respond(h.logger, "DeleteOrder", err)
	}
	return &grpcjson.Empty{}, nil
}

func (h *OrderHandler) GetOrder(ctx context.Context, req *grpcjson.IDRequest) (*model.Order, error) {
	o, err := h.uc.GetOrder(ctx, req.ID)
	if err != nil {
		return nil, apperror.Respond(h.logger, "GetOrder", err)
	}
	return o, nil
}

func (h *OrderHandler) ListOrders(ctx context.Context, req *dto.Filters) (*ListOrdersResponse, error) {
	orders, total, err := h.uc.ListOrders(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "ListOrders", err)
	}
	return &ListOrdersResponse{Orders: orders, Total: total}, nil
}

func (h *OrderHandler) CreatePrintJob(ctx context.Context, req *CreatePrintJobRequest) (*model.PrintJob, error) {
	job, err := h.uc.CreatePrintJob(ctx, req.OrderID, req.Force)
	if err != nil {
		return nil, apperror.Respond(h.logger, "CreatePrintJob", err)
	}
	return job, nil
}

func (h *OrderHandler) OrderProfit(ctx context.Context, req *grpcjson.IDRequest) (*cost.OrderProfit, error) {
	p, err := h.uc.OrderProfit(ctx, req.ID)
	if err != nil {
		return nil, apperror.Respond(h.logger, "OrderProfit", err)
	}
	return p, nil
}

func (h *OrderHandler) OrderSummary(ctx context.Context, _ *grpcjson.Empty) (*cost.Summary, error) {
	s, err := h.uc.OrderSummary(ctx)
	if err != nil {
		return nil, apperror.Respond(h.logger, "OrderSummary", err)
	}
	return s, nil
}

func (h *OrderHandler) CheckDueOrders(ctx context.Context, _ *grpcjson.Empty) (*CheckDueOrdersResponse, error) {
	n, err := h.uc.CheckDueOrders(ctx)
	if err != nil {
		return nil, apperror.Respond(h.logger, "CheckDueOrders", err)
	}
	return &CheckDueOrdersResponse{DueOrders: n}, nil
}
