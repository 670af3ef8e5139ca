package handler

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/settings"
	"github.com/fekuna/printfarm-inventory-service/pkg/grpcjson"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"google.golang.org/grpc"
)

const serviceName = "printfarm.inventory.v1.SettingsService"

type SettingsHandler struct {
	uc     settings.UseCase
	logger logger.ZapLogger
}

func NewSettingsHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{uc: uc, logger: log}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(serviceName, "GetSettings", (*SettingsHandler).GetSettings),
		grpcjson.Unary(serviceName, "UpdateSettings", (*SettingsHandler).UpdateSettings),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "settings.proto",
}

func (h *SettingsHandler) GetSettings(ctx context.Context, _ *grpcjson.Empty) (*model.AppSettings, error) {
	s, err := h.uc.GetSettings(ctx)
	if err != nil {
		return nil, apperror.Respond(h.logger, "GetSettings", err)
	}
	return &s, nil
}

func (h *SettingsHandler) UpdateSettings(ctx context.Context, req *settings.UpdateInput) (*model.AppSettings, error) {
	s, err := h.uc.UpdateSettings(ctx, req)
	if err != nil {
		return nil, apperror.Respond(h.logger, "UpdateSettings", err)
	}
	return &s, nil
}
