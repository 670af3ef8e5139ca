package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/cost"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
	"github.com/fekuna/printfarm-inventory-service/internal/lifecycle"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/order"
	"github.com/fekuna/printfarm-inventory-service/internal/printjob"
	"github.com/fekuna/printfarm-inventory-service/internal/product"
	"github.com/fekuna/printfarm-inventory-service/internal/product/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/project"
	"github.com/fekuna/printfarm-inventory-service/internal/settings"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type productUseCase struct {
	db          *database.DB
	repo        product.Repository
	jobRepo     printjob.Repository
	orderRepo   order.Repository
	invRepo     inventory.Repository
	projectRepo project.Repository
	settings    settings.Repository
	engine      *lifecycle.Engine
	post        *lifecycle.PostCommit
	logger      logger.ZapLogger
}

func NewProductUseCase(
	db *database.DB,
	repo product.Repository,
	jobRepo printjob.Repository,
	orderRepo order.Repository,
	invRepo inventory.Repository,
	projectRepo project.Repository,
	settingsRepo settings.Repository,
	engine *lifecycle.Engine,
	post *lifecycle.PostCommit,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		db:          db,
		repo:        repo,
		jobRepo:     jobRepo,
		orderRepo:   orderRepo,
		invRepo:     invRepo,
		projectRepo: projectRepo,
		settings:    settingsRepo,
		engine:      engine,
		post:        post,
		logger:      log,
	}
}

func validProductStatus(s string) bool {
	return s == model.ProductPrinted || s == model.ProductCompleted
}

func hasLocation(loc *string) bool {
	return loc != nil && strings.TrimSpace(*loc) != ""
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateInput) (*model.ProductOnHand, error) {
	var p *model.ProductOnHand
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		job, err := uc.jobRepo.GetByID(ctx, input.PrintJobID)
		if err != nil {
			return err
		}
		if job == nil {
			return apperror.NotFound("print job", input.PrintJobID)
		}
		if !job.IsCompleted() {
			return apperror.Validation("print_job_id", "print job %d is %s, only completed jobs can be stocked", job.ID, job.Status)
		}

		projectID := input.ProjectID
		if projectID == nil {
			projectID = job.ProjectID
		}
		// A product without a project is a custom piece with nothing to assemble.
		var proj *model.Project
		if projectID != nil {
			proj, err = uc.projectRepo.GetByID(ctx, *projectID)
			if err != nil {
				return err
			}
			if proj == nil {
				return apperror.NotFound("project", *projectID)
			}
		}
		needsAssembly := proj != nil && len(proj.Hardware) > 0

		status := input.Status
		if status == "" {
			status = model.ProductCompleted
			if needsAssembly {
				status = model.ProductPrinted
			}
		}
		if !validProductStatus(status) {
			return apperror.Validation("status", "unknown product status %q", status)
		}
		if !needsAssembly && status != model.ProductCompleted {
			return apperror.Validation("status", "product needs no assembly and must be completed")
		}
		if status == model.ProductCompleted && !hasLocation(input.Location) {
			return apperror.Validation("location", "is required for completed products")
		}

		name := input.Name
		if name == nil && proj != nil {
			name = model.Ptr(proj.Name)
		}
		now := time.Now().UTC()
		p = &model.ProductOnHand{
			PrintJobID: job.ID,
			ProjectID:  projectID,
			Name:       name,
			Status:     status,
			Location:   input.Location,
			Notes:      input.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return uc.repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id int64, input *dto.UpdateInput) (*model.ProductOnHand, error) {
	var (
		p         *model.ProductOnHand
		s         model.AppSettings
		movements []model.StockMovement
	)
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if s, err = uc.settings.Get(ctx); err != nil {
			return err
		}
		p, err = uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("product", id)
		}
		oldStatus := p.Status

		if input.Status != nil {
			if !validProductStatus(*input.Status) {
				return apperror.Validation("status", "unknown product status %q", *input.Status)
			}
			p.Status = *input.Status
		}
		if input.Name != nil {
			p.Name = input.Name
		}
		if input.Location != nil {
			p.Location = input.Location
		}
		if input.Notes != nil {
			p.Notes = input.Notes
		}
		if p.Status == model.ProductCompleted && !hasLocation(p.Location) {
			return apperror.Validation("location", "is required for completed products")
		}

		effects := lifecycle.Plan(lifecycle.Transition{Kind: lifecycle.KindProductOnHand, From: oldStatus, To: p.Status})
		if len(effects) > 0 && !p.HardwareDeducted {
			usages, err := uc.projectHardware(ctx, p.ProjectID)
			if err != nil {
				return err
			}
			movements, err = uc.engine.Apply(ctx, s, effects,
				lifecycle.Lines{Resource: model.ResourceHardware, New: usages},
				lifecycle.Options{Ref: lifecycle.Reference{Type: string(lifecycle.KindProductOnHand), ID: p.ID}})
			if err != nil {
				return err
			}
			p.HardwareDeducted = true
		}

		p.UpdatedAt = time.Now().UTC()
		return uc.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	uc.post.Movements(ctx, s, movements)
	return p, nil
}

func (uc *productUseCase) projectHardware(ctx context.Context, projectID *int64) ([]model.Usage, error) {
	if projectID == nil {
		return nil, nil
	}
	proj, err := uc.projectRepo.GetByID(ctx, *projectID)
	if err != nil {
		return nil, err
	}
	if proj == nil {
		return nil, apperror.NotFound("project", *projectID)
	}
	return proj.HardwareUsages(), nil
}

func (uc *productUseCase) ConvertToOrder(ctx context.Context, id int64, input *dto.ConvertInput) (*model.Order, error) {
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
		p, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("product", id)
		}
		job, err := uc.jobRepo.GetByID(ctx, p.PrintJobID)
		if err != nil {
			return err
		}
		if job == nil {
			return apperror.NotFound("print job", p.PrintJobID)
		}
		if job.OrderID != nil {
			return apperror.Conflict(apperror.ConflictState, "print job %d already belongs to order %d", job.ID, *job.OrderID)
		}

		var proj *model.Project
		if p.ProjectID != nil {
			if proj, err = uc.projectRepo.GetByID(ctx, *p.ProjectID); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		o = &model.Order{
			ProjectID:        p.ProjectID,
			CustomName:       p.Name,
			CustomerName:     input.CustomerName,
			CustomerContact:  input.CustomerContact,
			CustomerLocation: input.CustomerLocation,
			Status:           model.OrderSold,
			QuotedPrice:      input.QuotedPrice,
			ShippingCharge:   input.ShippingCharge,
			Notes:            input.Notes,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if o.QuotedPrice == nil && proj != nil && proj.SellPrice != nil {
			o.QuotedPrice = model.Ptr(*proj.SellPrice)
		}
		order.ApplyProjectSnapshot(o, proj)

		var lines []model.OrderHardware
		if proj != nil {
			if lines, err = order.BuildHardwareLines(ctx, uc.invRepo, order.ProjectHardwareLines(proj)); err != nil {
				return err
			}
		}
		allocs := make(model.Allocations, len(job.Spools))
		for i, a := range job.Spools {
			allocs[i] = model.SpoolAllocation{
				SpoolID:           a.SpoolID,
				Grams:             a.Grams,
				Position:          a.Position,
				CostPerKgSnapshot: a.CostPerKgSnapshot,
			}
		}

		if err := uc.orderRepo.Create(ctx, o); err != nil {
			return err
		}
		if err := uc.orderRepo.ReplaceSpools(ctx, o.ID, allocs); err != nil {
			return err
		}
		if err := uc.orderRepo.ReplaceHardware(ctx, o.ID, lines); err != nil {
			return err
		}
		o.Spools, o.Hardware = allocs, lines

		if p.Status != model.ProductCompleted && !p.HardwareDeducted {
			movements, err = uc.engine.Apply(ctx, s,
				[]lifecycle.Effect{lifecycle.Validate, lifecycle.Deduct},
				lifecycle.Lines{Resource: model.ResourceHardware, New: model.StockUsages(lines)},
				lifecycle.Options{Ref: lifecycle.Reference{Type: string(lifecycle.KindOrder), ID: o.ID}})
			if err != nil {
				return err
			}
		}

		job.OrderID = model.Ptr(o.ID)
		job.UpdatedAt = now
		if err := uc.jobRepo.Update(ctx, job); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, p.ID)
	})
	if err != nil {
		if target, ok := database.UniqueViolation(err); ok {
			uc.logger.Warn("print job linked concurrently", zap.Int64("product_id", id), zap.String("constraint", target))
			return nil, apperror.Conflict(apperror.ConflictState, "print job already belongs to an order")
		}
		return nil, err
	}

	uc.logger.Info("product converted to order", zap.Int64("product_id", id), zap.Int64("order_id", o.ID))
	uc.post.Invalidate(lifecycle.OrdersCachePattern)
	uc.post.Movements(ctx, s, movements)
	return o, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	return uc.db.WithinTx(ctx, func(ctx context.Context) error {
		p, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("product", id)
		}
		return uc.repo.Delete(ctx, id)
	})
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.ProductOnHand, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.Filters) ([]model.ProductOnHand, int, error) {
	if filters.Status != "" && !validProductStatus(filters.Status) {
		return nil, 0, apperror.Validation("status", "unknown product status %q", filters.Status)
	}
	return uc.repo.List(ctx, filters)
}

// ProductCost prices the product from its print job's frozen filament cost
// and the project's hardware at current prices.
func (uc *productUseCase) ProductCost(ctx context.Context, id int64) (float64, error) {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return 0, err
	}
	job, err := uc.jobRepo.GetByID(ctx, p.PrintJobID)
	if err != nil {
		return 0, err
	}
	if job == nil {
		return 0, apperror.NotFound("print job", p.PrintJobID)
	}

	var hardware []model.ProjectHardware
	if p.ProjectID != nil {
		proj, err := uc.projectRepo.GetByID(ctx, *p.ProjectID)
		if err != nil {
			return 0, err
		}
		if proj != nil {
			hardware = proj.Hardware
		}
	}

	ids := make([]int64, 0, len(hardware))
	for _, h := range hardware {
		ids = append(ids, h.HardwareItemID)
	}
	items, err := uc.invRepo.GetHardwareByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	byID := make(map[int64]*model.HardwareItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return cost.ProductCost(job, hardware, byID), nil
}
