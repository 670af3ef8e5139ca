package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/project"
	"github.com/fekuna/printfarm-inventory-service/internal/project/dto"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type projectUseCase struct {
	db      *database.DB
	repo    project.Repository
	invRepo inventory.Repository
	logger  logger.ZapLogger
}

func NewProjectUseCase(db *database.DB, repo project.Repository, invRepo inventory.Repository, log logger.ZapLogger) project.UseCase {
	return &projectUseCase{
		db:      db,
		repo:    repo,
		invRepo: invRepo,
		logger:  log,
	}
}

func (uc *projectUseCase) CreateProject(ctx context.Context, in *dto.ProjectInput) (*model.Project, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperror.Validation("name", "is required")
	}

	now := time.Now().UTC()
	p := &model.Project{IsActive: true, CreatedAt: now, UpdatedAt: now}

	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.apply(ctx, p, in); err != nil {
			return err
		}
		if err := uc.repo.Create(ctx, p); err != nil {
			return err
		}
		return uc.saveChildren(ctx, p, in)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("project created", zap.Int64("project_id", p.ID))
	return p, nil
}

func (uc *projectUseCase) UpdateProject(ctx context.Context, id int64, in *dto.ProjectInput) (*model.Project, error) {
	var p *model.Project
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("project", id)
		}
		if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
			return apperror.Validation("name", "must not be empty")
		}
		if err := uc.apply(ctx, p, in); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, p); err != nil {
			return err
		}
		return uc.saveChildren(ctx, p, in)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// apply copies input onto p and checks the filament and hardware lists.
func (uc *projectUseCase) apply(ctx context.Context, p *model.Project, in *dto.ProjectInput) error {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.PrintTimeHours != nil {
		if *in.PrintTimeHours < 0 {
			return apperror.Validation("print_time_hours", "must not be negative")
		}
		p.PrintTimeHours = *in.PrintTimeHours
	}
	if in.SellPrice != nil {
		p.SellPrice = in.SellPrice
	}
	if in.Notes != nil {
		p.Notes = in.Notes
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if in.Filaments != nil {
		filaments, err := buildFilaments(*in.Filaments)
		if err != nil {
			return err
		}
		p.Filaments = filaments
		if in.FilamentGrams == nil {
			var total float64
			for _, f := range filaments {
				total += f.Grams
			}
			p.FilamentGrams = total
		}
	}
	if in.FilamentGrams != nil {
		if *in.FilamentGrams < 0 {
			return apperror.Validation("filament_grams", "must not be negative")
		}
		p.FilamentGrams = *in.FilamentGrams
	}

	if in.Hardware != nil {
		hardware, err := uc.buildHardware(ctx, *in.Hardware)
		if err != nil {
			return err
		}
		p.Hardware = hardware
	}
	return nil
}

func (uc *projectUseCase) saveChildren(ctx context.Context, p *model.Project, in *dto.ProjectInput) error {
	if in.Filaments != nil {
		if err := uc.repo.ReplaceFilaments(ctx, p.ID, p.Filaments); err != nil {
			return err
		}
	}
	if in.Hardware != nil {
		if err := uc.repo.ReplaceHardware(ctx, p.ID, p.Hardware); err != nil {
			return err
		}
	}
	return nil
}

func buildFilaments(in []dto.FilamentInput) ([]model.ProjectFilament, error) {
	if len(in) > model.MaxAllocations {
		return nil, apperror.Validation("filaments", "at most %d filaments allowed", model.MaxAllocations)
	}
	used := make(map[int]bool, len(in))
	out := make([]model.ProjectFilament, 0, len(in))
	for i, f := range in {
		pos := f.Position
		if pos == 0 {
			pos = i + 1
		}
		if pos < 1 || pos > model.MaxAllocations {
			return nil, apperror.Validation("filaments", "position %d out of range 1-%d", pos, model.MaxAllocations)
		}
		if used[pos] {
			return nil, apperror.Validation("filaments", "duplicate position %d", pos)
		}
		used[pos] = true
		if strings.TrimSpace(f.FilamentType) == "" {
			return nil, apperror.Validation("filaments", "entry %d has no filament type", i+1)
		}
		if f.Grams < 0 {
			return nil, apperror.Validation("filaments", "entry %d has negative grams", i+1)
		}
		out = append(out, model.ProjectFilament{
			FilamentType: f.FilamentType,
			Grams:        f.Grams,
			Position:     pos,
			ColorNote:    f.ColorNote,
		})
	}
	return out, nil
}

func (uc *projectUseCase) buildHardware(ctx context.Context, in []dto.HardwareInput) ([]model.ProjectHardware, error) {
	out := make([]model.ProjectHardware, 0, len(in))
	for _, h := range in {
		if h.Quantity < 1 {
			return nil, apperror.Validation("hardware", "quantity must be at least 1")
		}
		item, err := uc.invRepo.GetHardware(ctx, h.HardwareItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, apperror.NotFound("hardware item", h.HardwareItemID)
		}
		out = append(out, model.ProjectHardware{HardwareItemID: h.HardwareItemID, Quantity: h.Quantity})
	}
	return out, nil
}

func (uc *projectUseCase) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("project", id)
	}
	return p, nil
}

func (uc *projectUseCase) ListProjects(ctx context.Context, activeOnly bool) ([]model.Project, error) {
	return uc.repo.List(ctx, activeOnly)
}

// DeleteProject refuses while products on hand still point at the project.
// Orders and print jobs keep their snapshots and lose the link.
func (uc *projectUseCase) DeleteProject(ctx context.Context, id int64) error {
	return uc.db.WithinTx(ctx, func(ctx context.Context) error {
		p, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("project", id)
		}
		n, err := uc.repo.CountProducts(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.Conflict(apperror.ConflictDependent, "project %d has %d products on hand", id, n)
		}
		return uc.repo.Delete(ctx, id)
	})
}
