package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/project/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/testutil"
)

func TestCreateProject(t *testing.T) {
	env := testutil.New(t)
	uc := NewProjectUseCase(env.DB, env.Projects, env.Inventory, env.Log)
	ctx := context.Background()
	h := env.Hardware(t, "Hinge pin", 10, 10, 5)

	p, err := uc.CreateProject(ctx, &dto.ProjectInput{
		Name:           model.Ptr("Articulated dragon"),
		PrintTimeHours: model.Ptr(6.5),
		Filaments: &[]dto.FilamentInput{
			{FilamentType: "PLA", Grams: 120},
			{FilamentType: "Silk PLA", Grams: 30.5, ColorNote: model.Ptr("gold")},
		},
		Hardware: &[]dto.HardwareInput{{HardwareItemID: h.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if p.FilamentGrams != 150.5 {
		t.Errorf("FilamentGrams = %v, want sum 150.5", p.FilamentGrams)
	}

	got, err := uc.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if len(got.Filaments) != 2 || got.Filaments[1].Position != 2 || len(got.Hardware) != 1 || got.Hardware[0].Quantity != 2 {
		t.Errorf("stored project = %+v", got)
	}
}

func TestCreateProjectRejects(t *testing.T) {
	tests := []struct {
		name    string
		in      dto.ProjectInput
		wantErr error
	}{
		{"no name", dto.ProjectInput{}, apperror.ErrValidation},
		{"negative hours", dto.ProjectInput{Name: model.Ptr("x"), PrintTimeHours: model.Ptr(-1.0)}, apperror.ErrValidation},
		{"duplicate filament position", dto.ProjectInput{Name: model.Ptr("x"), Filaments: &[]dto.FilamentInput{
			{FilamentType: "PLA", Grams: 1, Position: 2}, {FilamentType: "PLA", Grams: 1, Position: 2},
		}}, apperror.ErrValidation},
		{"unknown hardware", dto.ProjectInput{Name: model.Ptr("x"), Hardware: &[]dto.HardwareInput{{HardwareItemID: 99, Quantity: 1}}}, apperror.ErrNotFound},
		{"zero hardware quantity", dto.ProjectInput{Name: model.Ptr("x"), Hardware: &[]dto.HardwareInput{{HardwareItemID: 1, Quantity: 0}}}, apperror.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.New(t)
			uc := NewProjectUseCase(env.DB, env.Projects, env.Inventory, env.Log)
			if _, err := uc.CreateProject(context.Background(), &tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateProject() error = %v, want %v", err, tt.wantErr)
			}
			if list, _ := uc.ListProjects(context.Background(), false); len(list) != 0 {
				t.Errorf("projects stored after failure = %d", len(list))
			}
		})
	}
}

func TestUpdateProjectKeepsUntouchedLists(t *testing.T) {
	env := testutil.New(t)
	uc := NewProjectUseCase(env.DB, env.Projects, env.Inventory, env.Log)
	ctx := context.Background()
	h := env.Hardware(t, "Screw", 10, 10, 1)
	p := env.Project(t, "Box", 80, 2, nil, model.ProjectHardware{HardwareItemID: h.ID, Quantity: 4})

	updated, err := uc.UpdateProject(ctx, p.ID, &dto.ProjectInput{SellPrice: model.Ptr(19.99)})
	if err != nil {
		t.Fatalf("UpdateProject() error = %v", err)
	}
	if updated.SellPrice == nil || *updated.SellPrice != 19.99 {
		t.Errorf("SellPrice = %v", updated.SellPrice)
	}
	got, _ := uc.GetProject(ctx, p.ID)
	if len(got.Hardware) != 1 {
		t.Errorf("hardware lines = %d, want 1", len(got.Hardware))
	}

	if _, err := uc.UpdateProject(ctx, 404, &dto.ProjectInput{}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateProject(missing) error = %v", err)
	}
}

func TestDeleteProjectGuardsProducts(t *testing.T) {
	env := testutil.New(t)
	uc := NewProjectUseCase(env.DB, env.Projects, env.Inventory, env.Log)
	ctx := context.Background()
	p := env.Project(t, "Vase", 50, 1, nil)

	now := time.Now().UTC()
	job := &model.PrintJob{Status: model.PrintJobCompleted, PrintedAt: now, ProjectID: model.Ptr(p.ID), CreatedAt: now, UpdatedAt: now}
	if err := env.Jobs.Create(ctx, job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	prod := &model.ProductOnHand{PrintJobID: job.ID, ProjectID: model.Ptr(p.ID), Status: model.ProductCompleted, Location: model.Ptr("shelf"), CreatedAt: now, UpdatedAt: now}
	if err := env.Products.Create(ctx, prod); err != nil {
		t.Fatalf("create product: %v", err)
	}

	err := uc.DeleteProject(ctx, p.ID)
	var ce *apperror.ConflictError
	if !errors.As(err, &ce) || ce.Kind != apperror.ConflictDependent {
		t.Fatalf("DeleteProject() error = %v, want dependent conflict", err)
	}

	if err := env.Products.Delete(ctx, prod.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if err := uc.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	if _, err := uc.GetProject(ctx, p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetProject() after delete error = %v", err)
	}
}
