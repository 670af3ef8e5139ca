package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/cost"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
	"github.com/fekuna/printfarm-inventory-service/internal/lifecycle"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/notification"
	"github.com/fekuna/printfarm-inventory-service/internal/order"
	"github.com/fekuna/printfarm-inventory-service/internal/order/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/printjob"
	"github.com/fekuna/printfarm-inventory-service/internal/project"
	"github.com/fekuna/printfarm-inventory-service/internal/settings"
	"github.com/fekuna/printfarm-inventory-service/pkg/cache"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	summaryCacheKey = "orders:summary"
	summaryCacheTTL = 5 * time.Minute
)

type orderUseCase struct {
	db          *database.DB
	repo        order.Repository
	jobRepo     printjob.Repository
	invRepo     inventory.Repository
	projectRepo project.Repository
	settings    settings.Repository
	engine      *lifecycle.Engine
	post        *lifecycle.PostCommit
	cache       *cache.RedisClient
	logger      logger.ZapLogger
	now         func() time.Time
}

func NewOrderUseCase(
	db *database.DB,
	repo order.Repository,
	jobRepo printjob.Repository,
	invRepo inventory.Repository,
	projectRepo project.Repository,
	settingsRepo settings.Repository,
	engine *lifecycle.Engine,
	post *lifecycle.PostCommit,
	cache *cache.RedisClient,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		db:          db,
		repo:        repo,
		jobRepo:     jobRepo,
		invRepo:     invRepo,
		projectRepo: projectRepo,
		settings:    settingsRepo,
		engine:      engine,
		post:        post,
		cache:       cache,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateInput) (*model.Order, error) {
	status := strings.ToLower(input.Status)
	if status == "" {
		status = model.OrderOrdered
	}
	if !model.ValidOrderStatus(status) {
		return nil, apperror.Validation("status", "unknown order status %q", input.Status)
	}
	if input.ShippingCharge < 0 {
		return nil, apperror.Validation("shipping_charge", "must not be negative")
	}

	var (
		o         *model.Order
		s         model.AppSettings
		movements []model.StockMovement
	)
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if s, err = uc.settings.Get(ctx); err != nil {
			return err
		}
		p, err := uc.loadProject(ctx, input.ProjectID)
		if err != nil {
			return err
		}

		now := uc.now()
		o = &model.Order{
			ProjectID:        input.ProjectID,
			CustomName:       input.CustomName,
			CustomPrice:      input.CustomPrice,
			CustomerName:     input.CustomerName,
			CustomerContact:  input.CustomerContact,
			CustomerLocation: input.CustomerLocation,
			Status:           status,
			QuotedPrice:      quotedPrice(input.QuotedPrice, input.CustomPrice, p),
			DueDate:          utc(input.DueDate),
			ShippingCharge:   input.ShippingCharge,
			Notes:            input.Notes,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		order.ApplyProjectSnapshot(o, p)

		requested := input.Spools
		if len(requested) == 0 {
			requested = inventory.LegacyAllocation(input.SpoolID, projectGrams(p))
		}
		allocs, err := inventory.ResolveAllocations(ctx, uc.invRepo, requested)
		if err != nil {
			return err
		}
		lines, err := order.BuildHardwareLines(ctx, uc.invRepo, input.Hardware)
		if err != nil {
			return err
		}

		if err := uc.repo.Create(ctx, o); err != nil {
			return err
		}
		if err := uc.repo.ReplaceSpools(ctx, o.ID, allocs); err != nil {
			return err
		}
		if err := uc.repo.ReplaceHardware(ctx, o.ID, lines); err != nil {
			return err
		}
		o.Spools, o.Hardware = allocs, lines

		effects := lifecycle.Plan(lifecycle.Transition{Kind: lifecycle.KindOrder, From: lifecycle.None, To: o.Status})
		movements, err = uc.engine.Apply(ctx, s, effects,
			lifecycle.Lines{Resource: model.ResourceHardware, New: model.StockUsages(lines)},
			lifecycle.Options{Ref: reference(o.ID)})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.post.Invalidate(lifecycle.OrdersCachePattern)
	uc.post.Movements(ctx, s, movements)
	return o, nil
}

func (uc *orderUseCase) UpdateOrder(ctx context.Context, id int64, input *dto.UpdateInput) (*model.Order, error) {
	var (
		o         *model.Order
		s         model.AppSettings
		oldStatus string
		movements []model.StockMovement
	)
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if s, err = uc.settings.Get(ctx); err != nil {
			return err
		}
		o, err = uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NotFound("order", id)
		}
		oldStatus = o.Status
		oldLines := o.Hardware

		if err := uc.applyFields(ctx, o, input); err != nil {
			return err
		}

		spoolsChanged := false
		if input.Spools != nil || input.SpoolID != nil {
			requested := inventory.LegacyAllocation(input.SpoolID, snapshotGrams(o))
			if input.Spools != nil {
				requested = *input.Spools
			}
			if o.Spools, err = inventory.ResolveAllocations(ctx, uc.invRepo, requested); err != nil {
				return err
			}
			spoolsChanged = true
		}

		newLines := oldLines
		if input.Hardware != nil {
			if newLines, err = order.BuildHardwareLines(ctx, uc.invRepo, *input.Hardware); err != nil {
				return err
			}
		}

		effects := lifecycle.Plan(lifecycle.Transition{
			Kind:     lifecycle.KindOrder,
			From:     oldStatus,
			To:       o.Status,
			Replaced: input.Hardware != nil,
		})
		movements, err = uc.engine.Apply(ctx, s, effects, lifecycle.Lines{
			Resource: model.ResourceHardware,
			Old:      model.StockUsages(oldLines),
			New:      model.StockUsages(newLines),
		}, lifecycle.Options{Ref: reference(o.ID)})
		if err != nil {
			return err
		}

		o.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, o); err != nil {
			return err
		}
		if spoolsChanged {
			if err := uc.repo.ReplaceSpools(ctx, o.ID, o.Spools); err != nil {
				return err
			}
		}
		if input.Hardware != nil {
			if err := uc.repo.ReplaceHardware(ctx, o.ID, newLines); err != nil {
				return err
			}
		}
		o.Hardware = newLines
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.post.Invalidate(lifecycle.OrdersCachePattern)
	uc.post.Movements(ctx, s, movements)
	if o.Status != oldStatus {
		uc.logger.Info("order status changed",
			zap.Int64("order_id", o.ID),
			zap.String("from", oldStatus),
			zap.String("to", o.Status),
		)
		uc.post.Notify(notification.OrderStatusChanged(o, oldStatus, o.Status))
	}
	return o, nil
}

func (uc *orderUseCase) applyFields(ctx context.Context, o *model.Order, in *dto.UpdateInput) error {
	if in.Status != nil {
		status := strings.ToLower(*in.Status)
		if !model.ValidOrderStatus(status) {
			return apperror.Validation("status", "unknown order status %q", *in.Status)
		}
		o.Status = status
	}
	if in.ProjectID != nil && (o.ProjectID == nil || *o.ProjectID != *in.ProjectID) {
		p, err := uc.loadProject(ctx, in.ProjectID)
		if err != nil {
			return err
		}
		o.ProjectID = in.ProjectID
		order.ApplyProjectSnapshot(o, p)
	}
	if in.ShippingCharge != nil {
		if *in.ShippingCharge < 0 {
			return apperror.Validation("shipping_charge", "must not be negative")
		}
		o.ShippingCharge = *in.ShippingCharge
	}
	if in.CustomName != nil {
		o.CustomName = in.CustomName
	}
	if in.CustomPrice != nil {
		o.CustomPrice = in.CustomPrice
	}
	if in.CustomerName != nil {
		o.CustomerName = in.CustomerName
	}
	if in.CustomerContact != nil {
		o.CustomerContact = in.CustomerContact
	}
	if in.CustomerLocation != nil {
		o.CustomerLocation = in.CustomerLocation
	}
	if in.QuotedPrice != nil {
		o.QuotedPrice = in.QuotedPrice
	}
	if in.DueDate != nil {
		o.DueDate = utc(in.DueDate)
	}
	if in.Notes != nil {
		o.Notes = in.Notes
	}
	return nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id int64) error {
	var (
		s         model.AppSettings
		movements []model.StockMovement
	)
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if s, err = uc.settings.Get(ctx); err != nil {
			return err
		}
		o, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NotFound("order", id)
		}

		effects := lifecycle.Plan(lifecycle.Transition{Kind: lifecycle.KindOrder, From: o.Status, To: lifecycle.None})
		movements, err = uc.engine.Apply(ctx, s, effects,
			lifecycle.Lines{Resource: model.ResourceHardware, Old: model.StockUsages(o.Hardware)},
			lifecycle.Options{Ref: reference(o.ID)})
		if err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.post.Invalidate(lifecycle.OrdersCachePattern)
	uc.post.Movements(ctx, s, movements)
	return nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound("order", id)
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.Filters) ([]model.Order, int, error) {
	filters.Status = strings.ToLower(filters.Status)
	if filters.Status != "" && !model.ValidOrderStatus(filters.Status) {
		return nil, 0, apperror.Validation("status", "unknown order status %q", filters.Status)
	}
	return uc.repo.List(ctx, filters)
}

func (uc *orderUseCase) CreatePrintJob(ctx context.Context, orderID int64, force bool) (*model.PrintJob, error) {
	var (
		job       *model.PrintJob
		s         model.AppSettings
		movements []model.StockMovement
	)
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if s, err = uc.settings.Get(ctx); err != nil {
			return err
		}
		o, err := uc.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NotFound("order", orderID)
		}
		if o.ProjectID == nil {
			return apperror.Validation("project_id", "order %d has no project", orderID)
		}
		if len(o.Spools) == 0 {
			return apperror.Validation("spools", "order %d has no spool allocations", orderID)
		}
		existing, err := uc.jobRepo.GetByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return &apperror.ConflictError{
				Kind:     apperror.ConflictDuplicate,
				Message:  "order already has a print job",
				Existing: existing,
			}
		}
		p, err := uc.loadProject(ctx, o.ProjectID)
		if err != nil {
			return err
		}

		now := uc.now()
		job = &model.PrintJob{
			Name:             model.Ptr(o.DisplayName()),
			Status:           model.PrintJobCompleted,
			PrintTimeMinutes: model.Ptr(int(math.Round(p.PrintTimeHours * 60))),
			WasForCustomer:   true,
			CustomerName:     o.CustomerName,
			QuotedPrice:      o.QuotedPrice,
			Notes:            o.Notes,
			PrintedAt:        now,
			ProjectID:        o.ProjectID,
			OrderID:          model.Ptr(o.ID),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := uc.jobRepo.Create(ctx, job); err != nil {
			return err
		}
		allocs := make(model.Allocations, len(o.Spools))
		for i, a := range o.Spools {
			allocs[i] = model.SpoolAllocation{
				SpoolID:           a.SpoolID,
				Grams:             a.Grams,
				Position:          a.Position,
				CostPerKgSnapshot: a.CostPerKgSnapshot,
			}
		}
		if err := uc.jobRepo.ReplaceSpools(ctx, job.ID, allocs); err != nil {
			return err
		}
		job.Spools = allocs

		effects := lifecycle.Plan(lifecycle.Transition{Kind: lifecycle.KindPrintJob, From: lifecycle.None, To: job.Status})
		movements, err = uc.engine.Apply(ctx, s, effects,
			lifecycle.Lines{Resource: model.ResourceSpool, New: allocs.Usages()},
			lifecycle.Options{Force: force, Ref: lifecycle.Reference{Type: string(lifecycle.KindPrintJob), ID: job.ID}})
		return err
	})
	if err != nil {
		if target, ok := database.UniqueViolation(err); ok {
			uc.logger.Warn("concurrent print job for order", zap.Int64("order_id", orderID), zap.String("constraint", target))
			return nil, apperror.Conflict(apperror.ConflictDuplicate, "order already has a print job")
		}
		return nil, err
	}

	uc.post.Movements(ctx, s, movements)
	return job, nil
}

func (uc *orderUseCase) OrderProfit(ctx context.Context, id int64) (*cost.OrderProfit, error) {
	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	profit := cost.CalculateOrderProfit(o, s)
	return &profit, nil
}

func (uc *orderUseCase) OrderSummary(ctx context.Context) (*cost.Summary, error) {
	var cached cost.Summary
	if uc.cache.GetJSON(ctx, summaryCacheKey, &cached) {
		return &cached, nil
	}

	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	orders, _, err := uc.repo.List(ctx, &dto.Filters{})
	if err != nil {
		return nil, err
	}
	summary := cost.Summarize(orders, s)

	if err := uc.cache.SetJSON(ctx, summaryCacheKey, summary, summaryCacheTTL); err != nil {
		uc.logger.Warn("failed to cache order summary", zap.Error(err))
	}
	return &summary, nil
}

func (uc *orderUseCase) CheckDueOrders(ctx context.Context) (int, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	if _, ok := s.WebhookTarget(model.EventOrderDue); !ok {
		uc.logger.Debug("order due check skipped, webhook disabled for event")
		return 0, nil
	}

	days := s.WebhookOrderDueDays
	now := uc.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	due, err := uc.repo.ListDue(ctx, model.OrderOrdered, start, start.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}

	for i := range due {
		uc.post.Notify(notification.OrderDue(&due[i], days))
	}
	uc.logger.Info("order due check finished", zap.Int("due_orders", len(due)), zap.Int("days", days))
	return len(due), nil
}

func (uc *orderUseCase) loadProject(ctx context.Context, id *int64) (*model.Project, error) {
	if id == nil {
		return nil, nil
	}
	p, err := uc.projectRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("project", *id)
	}
	return p, nil
}

func quotedPrice(quoted, custom *float64, p *model.Project) *float64 {
	switch {
	case quoted != nil:
		return quoted
	case custom != nil:
		return custom
	case p != nil && p.SellPrice != nil:
		return model.Ptr(*p.SellPrice)
	}
	return nil
}

func projectGrams(p *model.Project) float64 {
	if p == nil {
		return 0
	}
	return p.FilamentGrams
}

func snapshotGrams(o *model.Order) float64 {
	if o.FilamentGramsSnapshot == nil {
		return 0
	}
	return *o.FilamentGramsSnapshot
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return model.Ptr(t.UTC())
}

func reference(id int64) lifecycle.Reference {
	return lifecycle.Reference{Type: string(lifecycle.KindOrder), ID: id}
}
