package lifecycle

import (
	"context"
	"math"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reference names the record a movement was made for.
type Reference struct {
	Type string
	ID   int64
}

// Lines are the draws against one resource kind before and after a change.
type Lines struct {
	Resource model.ResourceKind
	Old      []model.Usage
	New      []model.Usage
}

type Options struct {
	// Force skips validation. It never applies to hardware.
	Force bool
	Ref   Reference
}

// Engine applies planned effects to the ledger. It must run inside the
// caller's transaction so that a shortage rolls back every earlier effect.
type Engine struct {
	repo   inventory.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewEngine(repo inventory.Repository, log logger.ZapLogger) *Engine {
	return &Engine{
		repo:   repo,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Apply runs effects in order and returns the movements it wrote.
func (e *Engine) Apply(ctx context.Context, settings model.AppSettings, effects []Effect, lines Lines, opts Options) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	for _, eff := range effects {
		switch eff {
		case Restore:
			mv, err := e.restore(ctx, lines.Resource, lines.Old, opts.Ref)
			if err != nil {
				return nil, err
			}
			movements = append(movements, mv...)

		case Validate:
			if opts.Force && lines.Resource == model.ResourceSpool {
				continue
			}
			shortages, err := e.Check(ctx, settings, lines.Resource, lines.New)
			if err != nil {
				return nil, err
			}
			if len(shortages) > 0 {
				return nil, &apperror.ShortageError{Resource: lines.Resource, Shortages: shortages}
			}

		case Deduct:
			mv, err := e.deduct(ctx, settings, lines.Resource, lines.New, opts.Ref)
			if err != nil {
				return nil, err
			}
			movements = append(movements, mv...)
		}
	}
	return movements, nil
}

// Check reports shortages for usages against current stock.
func (e *Engine) Check(ctx context.Context, settings model.AppSettings, kind model.ResourceKind, usages []model.Usage) ([]model.Shortage, error) {
	if len(usages) == 0 {
		return nil, nil
	}
	ids := inventory.ResourceIDs(usages)

	switch kind {
	case model.ResourceSpool:
		policy := inventory.SpoolPolicy(settings)
		if !policy.Enforce {
			return nil, nil
		}
		spools, err := e.repo.GetSpoolsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return inventory.Validate(policy, inventory.SpoolStocks(spools), usages), nil

	case model.ResourceHardware:
		items, err := e.repo.GetHardwareByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return inventory.Validate(inventory.HardwarePolicy, inventory.HardwareStocks(items), usages), nil
	}
	return nil, nil
}

func (e *Engine) deduct(ctx context.Context, settings model.AppSettings, kind model.ResourceKind, usages []model.Usage, ref Reference) ([]model.StockMovement, error) {
	movements := make([]model.StockMovement, 0, len(usages))
	for _, u := range usages {
		var before, after float64

		switch kind {
		case model.ResourceSpool:
			sp, err := e.repo.GetSpool(ctx, u.ResourceID)
			if err != nil {
				return nil, err
			}
			if sp == nil {
				return nil, apperror.NotFound("spool", u.ResourceID)
			}
			before = sp.RemainingWeightG
			after = inventory.ClampDeduct(before, u.Amount, settings.EnableSpoolNegativePrevention)
			if err := e.repo.SetSpoolRemaining(ctx, sp.ID, after); err != nil {
				return nil, err
			}

		case model.ResourceHardware:
			hw, err := e.repo.GetHardware(ctx, u.ResourceID)
			if err != nil {
				return nil, err
			}
			if hw == nil {
				return nil, apperror.NotFound("hardware item", u.ResourceID)
			}
			before = float64(hw.QuantityInStock)
			qty := hw.QuantityInStock - int(math.Round(u.Amount))
			after = float64(qty)
			if err := e.repo.SetHardwareStock(ctx, hw.ID, qty); err != nil {
				return nil, err
			}
		}

		mv, err := e.log(ctx, kind, u.ResourceID, model.MovementDeduct, before, after, ref)
		if err != nil {
			return nil, err
		}
		movements = append(movements, mv)
	}
	return movements, nil
}

// restore adds usages back without any ceiling.
func (e *Engine) restore(ctx context.Context, kind model.ResourceKind, usages []model.Usage, ref Reference) ([]model.StockMovement, error) {
	movements := make([]model.StockMovement, 0, len(usages))
	for _, u := range usages {
		var before, after float64

		switch kind {
		case model.ResourceSpool:
			sp, err := e.repo.GetSpool(ctx, u.ResourceID)
			if err != nil {
				return nil, err
			}
			if sp == nil {
				e.logger.Warn("restore skipped, spool missing", zap.Int64("spool_id", u.ResourceID))
				continue
			}
			before = sp.RemainingWeightG
			after = before + u.Amount
			if err := e.repo.SetSpoolRemaining(ctx, sp.ID, after); err != nil {
				return nil, err
			}

		case model.ResourceHardware:
			hw, err := e.repo.GetHardware(ctx, u.ResourceID)
			if err != nil {
				return nil, err
			}
			if hw == nil {
				e.logger.Warn("restore skipped, hardware missing", zap.Int64("hardware_item_id", u.ResourceID))
				continue
			}
			before = float64(hw.QuantityInStock)
			qty := hw.QuantityInStock + int(math.Round(u.Amount))
			after = float64(qty)
			if err := e.repo.SetHardwareStock(ctx, hw.ID, qty); err != nil {
				return nil, err
			}
		}

		mv, err := e.log(ctx, kind, u.ResourceID, model.MovementRestore, before, after, ref)
		if err != nil {
			return nil, err
		}
		movements = append(movements, mv)
	}
	return movements, nil
}

func (e *Engine) log(ctx context.Context, kind model.ResourceKind, id int64, movementType string, before, after float64, ref Reference) (model.StockMovement, error) {
	mv := model.StockMovement{
		ID:             uuid.New().String(),
		ResourceKind:   kind,
		ResourceID:     id,
		MovementType:   movementType,
		QuantityChange: after - before,
		QuantityBefore: before,
		QuantityAfter:  after,
		CreatedAt:      e.now(),
	}
	if ref.Type != "" {
		mv.ReferenceType = model.Ptr(ref.Type)
		mv.ReferenceID = model.Ptr(ref.ID)
	}
	if err := e.repo.LogMovement(ctx, &mv); err != nil {
		return model.StockMovement{}, err
	}
	return mv, nil
}
