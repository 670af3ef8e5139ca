package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/settings"
	"github.com/fekuna/printfarm-inventory-service/internal/testutil"
)

func TestGetSettingsDefaults(t *testing.T) {
	env := testutil.New(t)
	uc := NewSettingsUseCase(env.Settings, env.Log)

	s, err := uc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if s.MinimumSpoolReserveG != 5 || !s.EnableSpoolNegativePrevention || s.WebhookOrderDueDays != 2 {
		t.Errorf("defaults = %+v", s)
	}
}

func TestUpdateSettingsPersists(t *testing.T) {
	env := testutil.New(t)
	uc := NewSettingsUseCase(env.Settings, env.Log)
	ctx := context.Background()

	_, err := uc.UpdateSettings(ctx, &settings.UpdateInput{
		CurrencySymbol:       model.Ptr("€"),
		MinimumSpoolReserveG: model.Ptr(10.0),
		WebhookURL:           model.Ptr("https://hooks.example.com/farm"),
		WebhookEnabled:       model.Ptr(true),
		WebhookEvents:        &[]string{model.EventOrderDue, model.EventLowStock},
		WebhookOrderDueDays:  model.Ptr(5),
	})
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	s, err := uc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if s.CurrencySymbol != "€" || s.MinimumSpoolReserveG != 10 || s.WebhookOrderDueDays != 5 {
		t.Errorf("stored = %+v", s)
	}
	if _, ok := s.WebhookTarget(model.EventLowStock); !ok {
		t.Error("low stock webhook not enabled after update")
	}

	// clearing the URL disables delivery
	if _, err := uc.UpdateSettings(ctx, &settings.UpdateInput{WebhookURL: model.Ptr("")}); err != nil {
		t.Fatalf("UpdateSettings() clear url error = %v", err)
	}
	s, _ = uc.GetSettings(ctx)
	if s.WebhookURL != nil {
		t.Errorf("WebhookURL = %v, want nil", *s.WebhookURL)
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	tests := []struct {
		name string
		in   settings.UpdateInput
	}{
		{"negative reserve", settings.UpdateInput{MinimumSpoolReserveG: model.Ptr(-1.0)}},
		{"negative rate", settings.UpdateInput{HourlyRate: model.Ptr(-0.5)}},
		{"http url", settings.UpdateInput{WebhookURL: model.Ptr("http://hooks.example.com")}},
		{"unknown event", settings.UpdateInput{WebhookEvents: &[]string{"order_exploded"}}},
		{"due days too small", settings.UpdateInput{WebhookOrderDueDays: model.Ptr(0)}},
		{"due days too large", settings.UpdateInput{WebhookOrderDueDays: model.Ptr(31)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.New(t)
			uc := NewSettingsUseCase(env.Settings, env.Log)
			if _, err := uc.UpdateSettings(context.Background(), &tt.in); !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("UpdateSettings() error = %v, want validation", err)
			}
		})
	}
}
