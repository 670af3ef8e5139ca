package handler

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/product"
	"github.com/fekuna/printfarm-inventory-service/internal/product/dto"
	"github.com/fekuna/printfarm-inventory-service/pkg/grpcjson"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"google.golang.org/grpc"
)

const serviceName = "printfarm.inventory.v1.ProductService"

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(serviceName, "CreateProduct", (*ProductHandler).CreateProduct),
		grpcjson.Unary(serviceName, "UpdateProduct", (*ProductHandler).UpdateProduct),
		grpcjson.Unary(serviceName, "ConvertToOrder", (*ProductHandler).ConvertToOrder),
		grpcjson.Unary(serviceName, "DeleteProduct", (*ProductHandler).DeleteProduct),
		grpcjson.Unary(serviceName, "GetProduct", (*ProductHandler).GetProduct),
		grpcjson.Unary(serviceName, "ListProducts", (*ProductHandler).ListProducts),
		grpcjson.Unary(serviceName, "ProductCost", (*ProductHandler).ProductCost),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "product.proto",
}

type UpdateProductRequest struct {
	ID int64 `json:"id"`
	dto.UpdateInput
}

type ConvertRequest struct {
	ID int64 `json:"id"`
	dto.ConvertInput
}

type ListProductsResponse struct {
	Products []model.ProductOnHand `json:"products"`
	Total    int                   `json:"total"`
}

type ProductCostResponse struct {
	ProductID int64   `json:"product_id"`
	Cost      float64 `json:"cost"`
}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *dto.CreateInput) (*model.ProductOnHand, error) {
	p, err := h.uc.CreateProduct(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "CreateProduct", err)
	}
	return p, nil
}

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*model.ProductOnHand, error) {
	p, err := h.uc.UpdateProduct(ctx, req.ID, &req.UpdateInput)
	if err != nil {
		return nil, apperror.Respond(h.logger, "UpdateProduct", err)
	}
	return p, nil
}

func (h *ProductHandler) ConvertToOrder(ctx context.Context, req *ConvertRequest) (*model.Order, error) {
	o, err := h.uc.ConvertToOrder(ctx, req.ID, &req.ConvertInput)
	if err != nil {
		return nil, apperror.Respond(h.logger, "ConvertToOrder", err)
	}
	return o, nil
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *grpcjson.IDRequest) (*grpcjson.Empty, error) {
	if err := h.uc.DeleteProduct(ctx, req.ID); err != nil {
		return nil, apperror.Respond(h.logger, "DeleteProduct", err)
	}
	return &grpcjson.Empty{}, nil
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *grpcjson.IDRequest) (*model.ProductOnHand, error) {
	p, err := h.uc.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, apperror.Respond(h.logger, "GetProduct", err)
	}
	return p, nil
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *dto.Filters) (*ListProductsResponse, error) {
	items, total, err := h.uc.ListProducts(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "ListProducts", err)
	}
	return &ListProductsResponse{Products: items, Total: total}, nil
}

func (h *ProductHandler) ProductCost(ctx context.Context, req *grpcjson.IDRequest) (*ProductCostResponse, error) {
	c, err := h.uc.ProductCost(ctx, req.ID)
	if err != nil {
		return nil, apperror.Respond(h.logger, "ProductCost", err)
	}
	return &ProductCostResponse{ProductID: req.ID, Cost: c}, nil
}
