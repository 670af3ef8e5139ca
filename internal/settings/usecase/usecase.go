package usecase

import (
	"context"
	"net/url"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/settings"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

var knownEvents = map[string]bool{
	model.EventOrderDue:          true,
	model.EventOrderStatusChange: true,
	model.EventLowStock:          true,
}

type settingsUseCase struct {
	repo   settings.Repository
	logger logger.ZapLogger
}

func NewSettingsUseCase(repo settings.Repository, log logger.ZapLogger) settings.UseCase {
	return &settingsUseCase{repo: repo, logger: log}
}

func (uc *settingsUseCase) GetSettings(ctx context.Context) (model.AppSettings, error) {
	return uc.repo.Get(ctx)
}

func (uc *settingsUseCase) UpdateSettings(ctx context.Context, in *settings.UpdateInput) (model.AppSettings, error) {
	s, err := uc.repo.Get(ctx)
	if err != nil {
		return model.AppSettings{}, err
	}

	if in.CurrencySymbol != nil {
		s.CurrencySymbol = *in.CurrencySymbol
	}
	if err := setNonNegative(&s.ElectricityRateKWh, in.ElectricityRateKWh, "electricity_rate_kwh"); err != nil {
		return model.AppSettings{}, err
	}
	if err := setNonNegative(&s.PrinterWattage, in.PrinterWattage, "printer_wattage"); err != nil {
		return model.AppSettings{}, err
	}
	if err := setNonNegative(&s.HourlyRate, in.HourlyRate, "hourly_rate"); err != nil {
		return model.AppSettings{}, err
	}
	if err := setNonNegative(&s.MachineDepreciationRate, in.MachineDepreciationRate, "machine_depreciation_rate"); err != nil {
		return model.AppSettings{}, err
	}
	if err := setNonNegative(&s.ProfitMarginPercent, in.ProfitMarginPercent, "profit_margin_percent"); err != nil {
		return model.AppSettings{}, err
	}
	if err := setNonNegative(&s.FixedFeePerOrder, in.FixedFeePerOrder, "fixed_fee_per_order"); err != nil {
		return model.AppSettings{}, err
	}
	if err := setNonNegative(&s.LowSpoolThresholdG, in.LowSpoolThresholdG, "low_spool_threshold_g"); err != nil {
		return model.AppSettings{}, err
	}
	if err := setNonNegative(&s.MinimumSpoolReserveG, in.MinimumSpoolReserveG, "minimum_spool_reserve_g"); err != nil {
		return model.AppSettings{}, err
	}

	if in.WebhookURL != nil {
		if *in.WebhookURL == "" {
			s.WebhookURL = nil
		} else {
			u, err := url.Parse(*in.WebhookURL)
			if err != nil || u.Scheme != "https" || u.Host == "" {
				return model.AppSettings{}, apperror.Validation("webhook_url", "must be an https URL")
			}
			s.WebhookURL = in.WebhookURL
		}
	}
	if in.WebhookEnabled != nil {
		s.WebhookEnabled = *in.WebhookEnabled
	}
	if in.WebhookEvents != nil {
		for _, e := range *in.WebhookEvents {
			if !knownEvents[e] {
				return model.AppSettings{}, apperror.Validation("webhook_events", "unknown event %q", e)
			}
		}
		s.WebhookEvents = model.StringList(*in.WebhookEvents)
	}
	if in.WebhookOrderDueDays != nil {
		if *in.WebhookOrderDueDays < 1 || *in.WebhookOrderDueDays > 30 {
			return model.AppSettings{}, apperror.Validation("webhook_order_due_days", "must be between 1 and 30")
		}
		s.WebhookOrderDueDays = *in.WebhookOrderDueDays
	}
	if in.EnableSpoolNegativePrevention != nil {
		s.EnableSpoolNegativePrevention = *in.EnableSpoolNegativePrevention
	}
	if in.EnableLowSpoolAlerts != nil {
		s.EnableLowSpoolAlerts = *in.EnableLowSpoolAlerts
	}
	if in.EnableTrackingIDAutoGeneration != nil {
		s.EnableTrackingIDAutoGeneration = *in.EnableTrackingIDAutoGeneration
	}

	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Save(ctx, &s); err != nil {
		uc.logger.Error("failed to save settings", zap.Error(err))
		return model.AppSettings{}, err
	}
	return s, nil
}

func setNonNegative(dst *float64, v *float64, field string) error {
	if v == nil {
		return nil
	}
	if *v < 0 {
		return apperror.Validation(field, "must not be negative")
	}
	*dst = *v
	return nil
}
