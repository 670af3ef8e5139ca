package settings

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

type Repository interface {
	// Get returns the stored settings, or the defaults when none were saved.
	Get(ctx context.Context) (model.AppSettings, error)
	Save(ctx context.Context, s *model.AppSettings) error
}
