package handler

import (
	"context"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/pkg/grpcjson"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"google.golang.org/grpc"
)

const serviceName = "printfarm.inventory.v1.InventoryService"

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(serviceName, "ValidateInventory", (*InventoryHandler).ValidateInventory),
		grpcjson.Unary(serviceName, "CreateSpool", (*InventoryHandler).CreateSpool),
		grpcjson.Unary(serviceName, "ImportSpools", (*InventoryHandler).ImportSpools),
		grpcjson.Unary(serviceName, "UpdateSpool", (*InventoryHandler).UpdateSpool),
		grpcjson.Unary(serviceName, "GetSpool", (*InventoryHandler).GetSpool),
		grpcjson.Unary(serviceName, "ListSpools", (*InventoryHandler).ListSpools),
		grpcjson.Unary(serviceName, "SearchSpools", (*InventoryHandler).SearchSpools),
		grpcjson.Unary(serviceName, "DeleteSpool", (*InventoryHandler).DeleteSpool),
		grpcjson.Unary(serviceName, "AdjustSpool", (*InventoryHandler).AdjustSpool),
		grpcjson.Unary(serviceName, "SuggestTrackingID", (*InventoryHandler).SuggestTrackingID),
		grpcjson.Unary(serviceName, "SpoolAlerts", (*InventoryHandler).SpoolAlerts),
		grpcjson.Unary(serviceName, "CreateHardware", (*InventoryHandler).CreateHardware),
		grpcjson.Unary(serviceName, "UpdateHardware", (*InventoryHandler).UpdateHardware),
		grpcjson.Unary(serviceName, "ListHardware", (*InventoryHandler).ListHardware),
		grpcjson.Unary(serviceName, "HardwareSummary", (*InventoryHandler).HardwareSummary),
		grpcjson.Unary(serviceName, "DeleteHardware", (*InventoryHandler).DeleteHardware),
		grpcjson.Unary(serviceName, "AdjustHardware", (*InventoryHandler).AdjustHardware),
		grpcjson.Unary(serviceName, "ListMovements", (*InventoryHandler).ListMovements),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory.proto",
}

type ImportSpoolsRequest struct {
	Spools []dto.CreateSpoolInput `json:"spools"`
}

type SpoolsResponse struct {
	Spools []model.Spool `json:"spools"`
	Total  int           `json:"total"`
}

type UpdateSpoolRequest struct {
	ID int64 `json:"id"`
	dto.UpdateSpoolInput
}

type ListSpoolsRequest struct {
	Search     string `json:"search"`
	ActiveOnly bool   `json:"active_only"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

type SearchSpoolsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type TrackingIDRequest struct {
	FilamentType string `json:"filament_type"`
}

type TrackingIDResponse struct {
	TrackingID string `json:"tracking_id"`
}

type UpdateHardwareRequest struct {
	ID int64 `json:"id"`
	dto.UpdateHardwareInput
}

type HardwareResponse struct {
	Items []model.HardwareItem `json:"items"`
}

type ListMovementsRequest struct {
	ResourceKind  model.ResourceKind `json:"resource_kind"`
	ResourceID    int64              `json:"resource_id"`
	MovementType  string             `json:"movement_type"`
	ReferenceType string             `json:"reference_type"`
	StartDate     *time.Time         `json:"start_date,omitempty"`
	EndDate       *time.Time         `json:"end_date,omitempty"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
}

type MovementsResponse struct {
	Movements []model.StockMovement `json:"movements"`
	Total     int                   `json:"total"`
}

func (h *InventoryHandler) ValidateInventory(ctx context.Context, req *dto.ValidateInput) (*dto.ValidationResult, error) {
	res, err := h.uc.ValidateInventory(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "ValidateInventory", err)
	}
	return res, nil
}

func (h *InventoryHandler) CreateSpool(ctx context.Context, req *dto.CreateSpoolInput) (*model.Spool, error) {
	s, err := h.uc.CreateSpool(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "CreateSpool", err)
	}
	return s, nil
}

func (h *InventoryHandler) ImportSpools(ctx context.Context, req *ImportSpoolsRequest) (*SpoolsResponse, error) {
	spools, err := h.uc.ImportSpools(ctx, req.Spools)
	if err != nil {
		return nil, apperror.Respond(h.logger, "ImportSpools", err)
	}
	return &SpoolsResponse{Spools: spools, Total: len(spools)}, nil
}

func (h *InventoryHandler) UpdateSpool(ctx context.Context, req *UpdateSpoolRequest) (*model.Spool, error) {
	s, err := h.uc.UpdateSpool(ctx, req.ID, &req.UpdateSpoolInput)
	if err != nil {
		return nil, apperror.Respond(h.logger, "UpdateSpool", err)
	}
	return s, nil
}

func (h *InventoryHandler) GetSpool(ctx context.Context, req *grpcjson.IDRequest) (*model.Spool, error) {
	s, err := h.uc.GetSpool(ctx, req.ID)
	if err != nil {
		return nil, apperror.Respond(h.logger, "GetSpool", err)
	}
	return s, nil
}

func (h *InventoryHandler) ListSpools(ctx context.Context, req *ListSpoolsRequest) (*SpoolsResponse, error) {
	spools, total, err := h.uc.ListSpools(ctx, &dto.SpoolFilters{
		Search:     req.Search,
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return nil, apperror.Respond(h.logger, "ListSpools", err)
	}
	return &SpoolsResponse{Spools: spools, Total: total}, nil
}

func (h *InventoryHandler) SearchSpools(ctx context.Context, req *SearchSpoolsRequest) (*SpoolsResponse, error) {
	spools, total, err := h.uc.ListSpools(ctx, &dto.SpoolFilters{
		Search:   req.Query,
		Page:     1,
		PageSize: req.Limit,
	})
	if err != nil {
		return nil, apperror.Respond(h.logger, "SearchSpools", err)
	}
	return &SpoolsResponse{Spools: spools, Total: total}, nil
}

func (h *InventoryHandler) DeleteSpool(ctx context.Context, req *grpcjson.IDRequest) (*grpcjson.Empty, error) {
	if err := h.uc.DeleteSpool(ctx, req.ID); err != nil {
		return nil, apperror.Respond(h.logger, "DeleteSpool", err)
	}
	return &grpcjson.Empty{}, nil
}

func (h *InventoryHandler) AdjustSpool(ctx context.Context, req *dto.AdjustInput) (*model.Spool, error) {
	s, err := h.uc.AdjustSpool(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "AdjustSpool", err)
	}
	return s, nil
}

func (h *InventoryHandler) SuggestTrackingID(ctx context.Context, req *TrackingIDRequest) (*TrackingIDResponse, error) {
	id, err := h.uc.SuggestTrackingID(ctx, req.FilamentType)
	if err != nil {
		return nil, apperror.Respond(h.logger, "SuggestTrackingID", err)
	}
	return &TrackingIDResponse{TrackingID: id}, nil
}

func (h *InventoryHandler) SpoolAlerts(ctx context.Context, _ *grpcjson.Empty) (*dto.SpoolAlerts, error) {
	alerts, err := h.uc.SpoolAlerts(ctx)
	if err != nil {
		return nil, apperror.Respond(h.logger, "SpoolAlerts", err)
	}
	return alerts, nil
}

func (h *InventoryHandler) CreateHardware(ctx context.Context, req *dto.CreateHardwareInput) (*model.HardwareItem, error) {
	item, err := h.uc.CreateHardware(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "CreateHardware", err)
	}
	return item, nil
}

func (h *InventoryHandler) UpdateHardware(ctx context.Context, req *UpdateHardwareRequest) (*model.HardwareItem, error) {
	item, err := h.uc.UpdateHardware(ctx, req.ID, &req.UpdateHardwareInput)
	if err != nil {
		return nil, apperror.Respond(h.logger, "UpdateHardware", err)
	}
	return item, nil
}

func (h *InventoryHandler) HardwareSummary(ctx context.Context, _ *grpcjson.Empty) (*dto.HardwareSummary, error) {
	sum, err := h.uc.HardwareSummary(ctx)
	if err != nil {
		return nil, apperror.Respond(h.logger, "HardwareSummary", err)
	}
	return sum, nil
}

func (h *InventoryHandler) ListHardware(ctx context.Context, _ *grpcjson.Empty) (*HardwareResponse, error) {
	items, err := h.uc.ListHardware(ctx)
	if err != nil {
		return nil, apperror.Respond(h.logger, "ListHardware", err)
	}
	return &HardwareResponse{Items: items}, nil
}

func (h *InventoryHandler) DeleteHardware(ctx context.Context, req *grpcjson.IDRequest) (*grpcjson.Empty, error) {
	if err := h.uc.DeleteHardware(ctx, req.ID); err != nil {
		return nil, apperror.Respond(h.logger, "DeleteHardware", err)
	}
	return &grpcjson.Empty{}, nil
}

func (h *InventoryHandler) AdjustHardware(ctx context.Context, req *dto.AdjustInput) (*model.HardwareItem, error) {
	item, err := h.uc.AdjustHardware(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "AdjustHardware", err)
	}
	return item, nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *ListMovementsRequest) (*MovementsResponse, error) {
	movements, total, err := h.uc.ListMovements(ctx, &dto.MovementFilters{
		ResourceKind:  req.ResourceKind,
		ResourceID:    req.ResourceID,
		MovementType:  req.MovementType,
		ReferenceType: req.ReferenceType,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Page:          req.Page,
		PageSize:      req.PageSize,
	})
	if err != nil {
		return nil, apperror.Respond(h.logger, "ListMovements", err)
	}
	return &MovementsResponse{Movements: movements, Total: total}, nil
}
