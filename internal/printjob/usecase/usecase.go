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
	"github.com/fekuna/printfarm-inventory-service/internal/printjob"
	"github.com/fekuna/printfarm-inventory-service/internal/printjob/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/project"
	"github.com/fekuna/printfarm-inventory-service/internal/settings"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type printJobUseCase struct {
	db          *database.DB
	repo        printjob.Repository
	invRepo     inventory.Repository
	projectRepo project.Repository
	settings    settings.Repository
	engine      *lifecycle.Engine
	post        *lifecycle.PostCommit
	logger      logger.ZapLogger
}

func NewPrintJobUseCase(
	db *database.DB,
	repo printjob.Repository,
	invRepo inventory.Repository,
	projectRepo project.Repository,
	settingsRepo settings.Repository,
	engine *lifecycle.Engine,
	post *lifecycle.PostCommit,
	log logger.ZapLogger,
) printjob.UseCase {
	return &printJobUseCase{
		db:          db,
		repo:        repo,
		invRepo:     invRepo,
		projectRepo: projectRepo,
		settings:    settingsRepo,
		engine:      engine,
		post:        post,
		logger:      log,
	}
}

func (uc *printJobUseCase) CreatePrintJob(ctx context.Context, input *dto.CreateInput) (*model.PrintJob, error) {
	status := input.Status
	if status == "" {
		status = model.PrintJobCompleted
	}
	if !model.ValidPrintJobStatus(status) {
		return nil, apperror.Validation("status", "unknown print job status %q", status)
	}
	requested := input.Spools
	if len(requested) == 0 {
		requested = inventory.LegacyAllocation(input.SpoolID, input.FilamentUsedG)
	}
	if len(requested) == 0 {
		return nil, apperror.Validation("spools", "either spool_id or spools must be provided")
	}

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
		if err := uc.ensureProject(ctx, input.ProjectID); err != nil {
			return err
		}
		allocs, err := inventory.ResolveAllocations(ctx, uc.invRepo, requested)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		printedAt := now
		if input.PrintedAt != nil {
			printedAt = input.PrintedAt.UTC()
		}
		job = &model.PrintJob{
			Name:             input.Name,
			Description:      input.Description,
			Status:           status,
			PrintTimeMinutes: input.PrintTimeMinutes,
			WasForCustomer:   input.WasForCustomer,
			CustomerName:     input.CustomerName,
			QuotedPrice:      input.QuotedPrice,
			Notes:            input.Notes,
			PrintedAt:        printedAt,
			ProjectID:        input.ProjectID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := uc.repo.Create(ctx, job); err != nil {
			return err
		}
		if err := uc.repo.ReplaceSpools(ctx, job.ID, allocs); err != nil {
			return err
		}
		job.Spools = allocs

		effects := lifecycle.Plan(lifecycle.Transition{Kind: lifecycle.KindPrintJob, From: lifecycle.None, To: job.Status})
		movements, err = uc.engine.Apply(ctx, s, effects,
			lifecycle.Lines{Resource: model.ResourceSpool, New: allocs.Usages()},
			lifecycle.Options{Force: input.Force, Ref: reference(job.ID)})
		return err
	})
	if err != nil {
		return nil, err
	}

	if input.Force {
		uc.logger.Info("print job created with forced inventory", zap.Int64("print_job_id", job.ID))
	}
	uc.post.Movements(ctx, s, movements)
	return job, nil
}

func (uc *printJobUseCase) UpdatePrintJob(ctx context.Context, id int64, input *dto.UpdateInput) (*model.PrintJob, error) {
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
		job, err = uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if job == nil {
			return apperror.NotFound("print job", id)
		}
		oldStatus := job.Status
		oldAllocs := job.Spools

		if err := uc.applyFields(ctx, job, input); err != nil {
			return err
		}

		newAllocs := oldAllocs
		replaced, amountOnly := false, false
		switch {
		case input.Spools != nil:
			if len(*input.Spools) == 0 {
				return apperror.Validation("spools", "a print job needs at least one spool")
			}
			if newAllocs, err = inventory.ResolveAllocations(ctx, uc.invRepo, *input.Spools); err != nil {
				return err
			}
			replaced = true
		case input.FilamentUsedG != nil:
			if len(oldAllocs) != 1 {
				return apperror.Validation("filament_used_g", "amount-only edits need a job with exactly one spool, this one has %d", len(oldAllocs))
			}
			if *input.FilamentUsedG < 0 {
				return apperror.Validation("filament_used_g", "must not be negative")
			}
			newAllocs = model.Allocations{oldAllocs[0]}
			newAllocs[0].Grams = *input.FilamentUsedG
			amountOnly = true
		}

		opts := lifecycle.Options{Force: input.Force, Ref: reference(job.ID)}
		if amountOnly && oldStatus == model.PrintJobCompleted && job.Status == model.PrintJobCompleted {
			movements, err = uc.applyDelta(ctx, s, oldAllocs[0], newAllocs[0].Grams, opts)
		} else {
			effects := lifecycle.Plan(lifecycle.Transition{
				Kind:     lifecycle.KindPrintJob,
				From:     oldStatus,
				To:       job.Status,
				Replaced: replaced || amountOnly,
			})
			movements, err = uc.engine.Apply(ctx, s, effects, lifecycle.Lines{
				Resource: model.ResourceSpool,
				Old:      oldAllocs.Usages(),
				New:      newAllocs.Usages(),
			}, opts)
		}
		if err != nil {
			return err
		}

		job.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, job); err != nil {
			return err
		}
		if replaced || amountOnly {
			if err := uc.repo.ReplaceSpools(ctx, job.ID, newAllocs); err != nil {
				return err
			}
		}
		job.Spools = newAllocs
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.post.Movements(ctx, s, movements)
	return job, nil
}

// applyDelta moves only the difference between the old and new amount of a
// completed single-spool job. A decrease is handed back through the deduct
// clamp as a negative draw.
func (uc *printJobUseCase) applyDelta(ctx context.Context, s model.AppSettings, old model.SpoolAllocation, grams float64, opts lifecycle.Options) ([]model.StockMovement, error) {
	net := grams - old.Grams
	var effects []lifecycle.Effect
	switch {
	case net > 0:
		effects = []lifecycle.Effect{lifecycle.Validate, lifecycle.Deduct}
	case net < 0:
		effects = []lifecycle.Effect{lifecycle.Deduct}
	default:
		return nil, nil
	}
	return uc.engine.Apply(ctx, s, effects, lifecycle.Lines{
		Resource: model.ResourceSpool,
		New:      []model.Usage{{ResourceID: old.SpoolID, Amount: net}},
	}, opts)
}

func (uc *printJobUseCase) applyFields(ctx context.Context, job *model.PrintJob, in *dto.UpdateInput) error {
	if in.Status != nil {
		if !model.ValidPrintJobStatus(*in.Status) {
			return apperror.Validation("status", "unknown print job status %q", *in.Status)
		}
		job.Status = *in.Status
	}
	if in.ProjectID != nil {
		if err := uc.ensureProject(ctx, in.ProjectID); err != nil {
			return err
		}
		job.ProjectID = in.ProjectID
	}
	if in.Name != nil {
		job.Name = in.Name
	}
	if in.Description != nil {
		job.Description = in.Description
	}
	if in.PrintTimeMinutes != nil {
		if *in.PrintTimeMinutes < 0 {
			return apperror.Validation("print_time_minutes", "must not be negative")
		}
		job.PrintTimeMinutes = in.PrintTimeMinutes
	}
	if in.WasForCustomer != nil {
		job.WasForCustomer = *in.WasForCustomer
	}
	if in.CustomerName != nil {
		job.CustomerName = in.CustomerName
	}
	if in.QuotedPrice != nil {
		job.QuotedPrice = in.QuotedPrice
	}
	if in.Notes != nil {
		job.Notes = in.Notes
	}
	if in.PrintedAt != nil {
		job.PrintedAt = in.PrintedAt.UTC()
	}
	return nil
}

func (uc *printJobUseCase) DeletePrintJob(ctx context.Context, id int64) error {
	var (
		s         model.AppSettings
		movements []model.StockMovement
	)
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if s, err = uc.settings.Get(ctx); err != nil {
			return err
		}
		job, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if job == nil {
			return apperror.NotFound("print job", id)
		}
		products, err := uc.repo.CountProducts(ctx, id)
		if err != nil {
			return err
		}
		if products > 0 {
			return apperror.Conflict(apperror.ConflictDependent, "print job %d backs %d products on hand", id, products)
		}

		effects := lifecycle.Plan(lifecycle.Transition{Kind: lifecycle.KindPrintJob, From: job.Status, To: lifecycle.None})
		movements, err = uc.engine.Apply(ctx, s, effects,
			lifecycle.Lines{Resource: model.ResourceSpool, Old: job.Spools.Usages()},
			lifecycle.Options{Ref: reference(job.ID)})
		if err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.post.Movements(ctx, s, movements)
	return nil
}

func (uc *printJobUseCase) GetPrintJob(ctx context.Context, id int64) (*model.PrintJob, error) {
	job, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NotFound("print job", id)
	}
	return job, nil
}

func (uc *printJobUseCase) ListPrintJobs(ctx context.Context, filters *dto.Filters) ([]model.PrintJob, int, error) {
	if filters.Status != "" && !model.ValidPrintJobStatus(strings.ToLower(filters.Status)) {
		return nil, 0, apperror.Validation("status", "unknown print job status %q", filters.Status)
	}
	filters.Status = strings.ToLower(filters.Status)
	return uc.repo.List(ctx, filters)
}

// EstimateCost prices a planned print with the stored settings without
// touching stock.
func (uc *printJobUseCase) EstimateCost(ctx context.Context, input *dto.EstimateInput) (*cost.Breakdown, error) {
	if input.Grams <= 0 {
		return nil, apperror.Validation("grams", "must be positive")
	}
	if input.PrintTimeMinutes <= 0 {
		return nil, apperror.Validation("print_time_minutes", "must be positive")
	}

	var costPerKg float64
	switch {
	case input.SpoolID != nil:
		sp, err := uc.invRepo.GetSpool(ctx, *input.SpoolID)
		if err != nil {
			return nil, err
		}
		if sp == nil {
			return nil, apperror.NotFound("spool", *input.SpoolID)
		}
		costPerKg = sp.CostPerKg()
	case input.CostPerKg != nil:
		if *input.CostPerKg < 0 {
			return nil, apperror.Validation("cost_per_kg", "must not be negative")
		}
		costPerKg = *input.CostPerKg
	default:
		return nil, apperror.Validation("spool_id", "either spool_id or cost_per_kg must be provided")
	}

	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	b := cost.Calculate(input.Grams, input.PrintTimeMinutes, costPerKg, s)
	return &b, nil
}

func (uc *printJobUseCase) ensureProject(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	p, err := uc.projectRepo.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperror.NotFound("project", *id)
	}
	return nil
}

func reference(id int64) lifecycle.Reference {
	return lifecycle.Reference{Type: string(lifecycle.KindPrintJob), ID: id}
}
