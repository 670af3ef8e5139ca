package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/testutil"
)

func newUseCase(t *testing.T) (inventory.UseCase, *testutil.Env) {
	t.Helper()
	env := testutil.New(t)
	return NewInventoryUseCase(env.DB, env.Inventory, env.Settings, env.Engine, env.Post, nil, nil, env.Log), env
}

func spoolInput(filamentType string) *dto.CreateSpoolInput {
	return &dto.CreateSpoolInput{
		FilamentType:  filamentType,
		Manufacturer:  "Prusament",
		ColorName:     "Galaxy Black",
		TotalWeightG:  1000,
		PurchasePrice: 25,
	}
}

func TestCreateSpoolGeneratesTrackingIDs(t *testing.T) {
	uc, env := newUseCase(t)
	ctx := context.Background()

	first, err := uc.CreateSpool(ctx, spoolInput("PLA+"))
	if err != nil {
		t.Fatalf("CreateSpool() error = %v", err)
	}
	second, err := uc.CreateSpool(ctx, spoolInput("PLA"))
	if err != nil {
		t.Fatalf("CreateSpool() error = %v", err)
	}
	if first.TrackingID == nil || *first.TrackingID != "PLA01" || second.TrackingID == nil || *second.TrackingID != "PLA02" {
		t.Errorf("tracking ids = %v, %v", first.TrackingID, second.TrackingID)
	}
	if first.RemainingWeightG != 1000 {
		t.Errorf("RemainingWeightG = %v, want full spool", first.RemainingWeightG)
	}

	mv := env.Movements(t, model.ResourceSpool, first.ID)
	if len(mv) != 1 || mv[0].QuantityAfter != 1000 || mv[0].MovementType != model.MovementManualAdjustment {
		t.Errorf("initial movement = %+v", mv)
	}

	suggested, err := uc.SuggestTrackingID(ctx, "pla")
	if err != nil || suggested != "PLA03" {
		t.Errorf("SuggestTrackingID() = %q, %v", suggested, err)
	}
}

func TestCreateSpoolWithoutAutoGeneration(t *testing.T) {
	uc, env := newUseCase(t)
	env.UpdateSettings(t, func(s *model.AppSettings) { s.EnableTrackingIDAutoGeneration = false })

	sp, err := uc.CreateSpool(context.Background(), spoolInput("PETG"))
	if err != nil {
		t.Fatalf("CreateSpool() error = %v", err)
	}
	if sp.TrackingID != nil {
		t.Errorf("TrackingID = %q, want none", *sp.TrackingID)
	}
}

func TestCreateSpoolDuplicateTrackingID(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	in := spoolInput("PLA")
	in.TrackingID = model.Ptr("SHELF-7")
	first, err := uc.CreateSpool(ctx, in)
	if err != nil {
		t.Fatalf("CreateSpool() error = %v", err)
	}

	dup := spoolInput("PETG")
	dup.TrackingID = model.Ptr(" SHELF-7 ")
	_, err = uc.CreateSpool(ctx, dup)

	var ce *apperror.ConflictError
	if !errors.As(err, &ce) || ce.Kind != apperror.ConflictDuplicate {
		t.Fatalf("CreateSpool() error = %v, want duplicate conflict", err)
	}
	existing, ok := ce.Existing.(*model.Spool)
	if !ok || existing.ID != first.ID {
		t.Errorf("Existing = %#v, want spool %d", ce.Existing, first.ID)
	}
}

func TestCreateSpoolValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *dto.CreateSpoolInput)
	}{
		{"no type", func(in *dto.CreateSpoolInput) { in.FilamentType = " " }},
		{"no weight", func(in *dto.CreateSpoolInput) { in.TotalWeightG = 0 }},
		{"negative price", func(in *dto.CreateSpoolInput) { in.PurchasePrice = -1 }},
		{"remaining above total", func(in *dto.CreateSpoolInput) { in.RemainingWeightG = model.Ptr(1001.0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newUseCase(t)
			in := spoolInput("PLA")
			tt.mutate(in)
			if _, err := uc.CreateSpool(context.Background(), in); !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("CreateSpool() error = %v, want validation", err)
			}
		})
	}
}

func TestImportSpoolsIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		rows    func() []dto.CreateSpoolInput
		wantErr error
	}{
		{
			name: "invalid row",
			rows: func() []dto.CreateSpoolInput {
				bad := *spoolInput("PETG")
				bad.TotalWeightG = -5
				return []dto.CreateSpoolInput{*spoolInput("PLA"), bad}
			},
			wantErr: apperror.ErrValidation,
		},
		{
			name: "duplicate inside batch",
			rows: func() []dto.CreateSpoolInput {
				a, b := *spoolInput("PLA"), *spoolInput("PLA")
				a.TrackingID, b.TrackingID = model.Ptr("X1"), model.Ptr("X1")
				return []dto.CreateSpoolInput{a, b}
			},
			wantErr: apperror.ErrConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newUseCase(t)
			ctx := context.Background()
			if _, err := uc.ImportSpools(ctx, tt.rows()); !errors.Is(err, tt.wantErr) {
				t.Fatalf("ImportSpools() error = %v, want %v", err, tt.wantErr)
			}
			_, total, err := uc.ListSpools(ctx, &dto.SpoolFilters{})
			if err != nil || total != 0 {
				t.Errorf("spools after failed import = %d, %v", total, err)
			}
		})
	}
}

func TestImportSpools(t *testing.T) {
	uc, env := newUseCase(t)
	ctx := context.Background()

	created, err := uc.ImportSpools(ctx, []dto.CreateSpoolInput{*spoolInput("PLA"), *spoolInput("ABS")})
	if err != nil {
		t.Fatalf("ImportSpools() error = %v", err)
	}
	if len(created) != 2 || *created[1].TrackingID != "ABS01" {
		t.Errorf("created = %+v", created)
	}
	mv := env.Movements(t, model.ResourceSpool, created[0].ID)
	if len(mv) != 1 || mv[0].MovementType != model.MovementImport {
		t.Errorf("import movement = %+v", mv)
	}

	found, total, err := uc.ListSpools(ctx, &dto.SpoolFilters{Search: "abs"})
	if err != nil || total != 1 || found[0].ID != created[1].ID {
		t.Errorf("ListSpools(search) = %v, %d, %v", found, total, err)
	}
}

func TestUpdateSpool(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	a, _ := uc.CreateSpool(ctx, spoolInput("PLA"))
	b, _ := uc.CreateSpool(ctx, spoolInput("PLA"))

	updated, err := uc.UpdateSpool(ctx, b.ID, &dto.UpdateSpoolInput{ColorName: model.Ptr("White"), IsActive: model.Ptr(false)})
	if err != nil {
		t.Fatalf("UpdateSpool() error = %v", err)
	}
	if updated.ColorName != "White" || updated.IsActive || updated.RemainingWeightG != 1000 {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := uc.UpdateSpool(ctx, b.ID, &dto.UpdateSpoolInput{TrackingID: a.TrackingID}); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("UpdateSpool() to taken id error = %v", err)
	}
	if _, err := uc.UpdateSpool(ctx, a.ID, &dto.UpdateSpoolInput{TrackingID: a.TrackingID}); err != nil {
		t.Errorf("UpdateSpool() keeping own id error = %v", err)
	}
	if _, err := uc.UpdateSpool(ctx, 404, &dto.UpdateSpoolInput{}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateSpool(missing) error = %v", err)
	}
}

func TestAdjustSpool(t *testing.T) {
	uc, env := newUseCase(t)
	ctx := context.Background()
	sp, _ := uc.CreateSpool(ctx, spoolInput("PLA"))

	if _, err := uc.AdjustSpool(ctx, &dto.AdjustInput{ID: sp.ID, Value: -1}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("AdjustSpool(-1) error = %v", err)
	}

	got, err := uc.AdjustSpool(ctx, &dto.AdjustInput{ID: sp.ID, Value: 30, Reason: "weighed"})
	if err != nil {
		t.Fatalf("AdjustSpool() error = %v", err)
	}
	if got.RemainingWeightG != 30 || env.SpoolRemaining(t, sp.ID) != 30 {
		t.Errorf("remaining = %v", got.RemainingWeightG)
	}

	mv := env.Movements(t, model.ResourceSpool, sp.ID)
	var adj *model.StockMovement
	for i := range mv {
		if mv[i].Notes == "weighed" {
			adj = &mv[i]
		}
	}
	if adj == nil || adj.QuantityBefore != 1000 || adj.QuantityChange != -970 {
		t.Errorf("adjustment movement = %+v", adj)
	}
	if n := len(env.Notifier.Events(model.EventLowStock)); n != 1 {
		t.Errorf("low stock events = %d, want 1", n)
	}
}

func TestListMovements(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	sp, _ := uc.CreateSpool(ctx, spoolInput("PLA"))
	if _, err := uc.CreateSpool(ctx, spoolInput("PETG")); err != nil {
		t.Fatalf("CreateSpool() error = %v", err)
	}
	if _, err := uc.AdjustSpool(ctx, &dto.AdjustInput{ID: sp.ID, Value: 400, Reason: "weighed"}); err != nil {
		t.Fatalf("AdjustSpool() error = %v", err)
	}

	items, total, err := uc.ListMovements(ctx, &dto.MovementFilters{
		ResourceKind: model.ResourceSpool,
		ResourceID:   sp.ID,
		MovementType: model.MovementManualAdjustment,
		PageSize:     1,
	})
	if err != nil {
		t.Fatalf("ListMovements() error = %v", err)
	}
	if total != 2 || len(items) != 1 || items[0].ResourceID != sp.ID {
		t.Errorf("ListMovements() = %+v, total %d", items, total)
	}

	_, all, err := uc.ListMovements(ctx, &dto.MovementFilters{ResourceKind: model.ResourceSpool})
	if err != nil || all != 3 {
		t.Errorf("ListMovements(all spools) total = %d, %v", all, err)
	}
}

func TestDeleteSpoolGuardsReferences(t *testing.T) {
	uc, env := newUseCase(t)
	ctx := context.Background()
	used, _ := uc.CreateSpool(ctx, spoolInput("PLA"))
	free, _ := uc.CreateSpool(ctx, spoolInput("PLA"))

	now := time.Now().UTC()
	job := &model.PrintJob{Status: model.PrintJobCompleted, PrintedAt: now, CreatedAt: now, UpdatedAt: now}
	if err := env.Jobs.Create(ctx, job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if err := env.Jobs.ReplaceSpools(ctx, job.ID, model.Allocations{{SpoolID: used.ID, Grams: 10, Position: 1}}); err != nil {
		t.Fatalf("allocate: %v", err)
	}

	var ce *apperror.ConflictError
	if err := uc.DeleteSpool(ctx, used.ID); !errors.As(err, &ce) || ce.Kind != apperror.ConflictDependent {
		t.Errorf("DeleteSpool(used) error = %v", err)
	}
	if err := uc.DeleteSpool(ctx, free.ID); err != nil {
		t.Errorf("DeleteSpool(free) error = %v", err)
	}
	if _, err := uc.GetSpool(ctx, free.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetSpool() after delete error = %v", err)
	}
}

func TestSpoolAlerts(t *testing.T) {
	uc, env := newUseCase(t)
	env.Spool(t, "PLA", 1000, 0, 20)
	env.Spool(t, "PLA", 1000, 35, 20)
	env.Spool(t, "PLA", 1000, 500, 20)

	alerts, err := uc.SpoolAlerts(context.Background())
	if err != nil {
		t.Fatalf("SpoolAlerts() error = %v", err)
	}
	if alerts.ThresholdG != 50 || len(alerts.EmptySpools) != 1 || len(alerts.LowSpools) != 1 || alerts.LowSpools[0].RemainingWeightG != 35 {
		t.Errorf("alerts = %+v", alerts)
	}
}

func TestValidateInventory(t *testing.T) {
	uc, env := newUseCase(t)
	sp := env.Spool(t, "PLA", 1000, 100, 20)

	res, err := uc.ValidateInventory(context.Background(), &dto.ValidateInput{Usages: []model.Usage{{ResourceID: sp.ID, Amount: 60}, {ResourceID: sp.ID, Amount: 40}}})
	if err != nil {
		t.Fatalf("ValidateInventory() error = %v", err)
	}
	if res.Valid || len(res.Shortages) != 1 || res.Shortages[0].Requested != 100 || !res.Shortages[0].WithinReserve {
		t.Errorf("result = %+v", res)
	}

	res, _ = uc.ValidateInventory(context.Background(), &dto.ValidateInput{Usages: []model.Usage{{ResourceID: sp.ID, Amount: 95}}})
	if !res.Valid || res.Shortages == nil {
		t.Errorf("result = %+v, want valid with empty shortages", res)
	}
}

func TestHardware(t *testing.T) {
	uc, env := newUseCase(t)
	ctx := context.Background()

	h, err := uc.CreateHardware(ctx, &dto.CreateHardwareInput{Name: "Magnet 6x2", PurchasePrice: 8, QuantityPurchased: 50})
	if err != nil {
		t.Fatalf("CreateHardware() error = %v", err)
	}
	if h.QuantityInStock != 50 {
		t.Errorf("stock = %d, want purchased quantity", h.QuantityInStock)
	}

	if _, err := uc.AdjustHardware(ctx, &dto.AdjustInput{ID: h.ID, Value: 1.5}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("AdjustHardware(1.5) error = %v", err)
	}
	if _, err := uc.AdjustHardware(ctx, &dto.AdjustInput{ID: h.ID, Value: 12}); err != nil {
		t.Fatalf("AdjustHardware() error = %v", err)
	}
	if got := env.HardwareStock(t, h.ID); got != 12 {
		t.Errorf("stock = %d, want 12", got)
	}

	env.Project(t, "Fridge magnet", 10, 1, nil, model.ProjectHardware{HardwareItemID: h.ID, Quantity: 1})
	if err := uc.DeleteHardware(ctx, h.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("DeleteHardware(used) error = %v", err)
	}

	items, err := uc.ListHardware(ctx)
	if err != nil || len(items) != 1 {
		t.Errorf("ListHardware() = %v, %v", items, err)
	}
}

func TestUpdateHardware(t *testing.T) {
	uc, env := newUseCase(t)
	ctx := context.Background()
	h, _ := uc.CreateHardware(ctx, &dto.CreateHardwareInput{Name: "Magnet", PurchasePrice: 8, QuantityPurchased: 50})

	got, err := uc.UpdateHardware(ctx, h.ID, &dto.UpdateHardwareInput{
		Name:              model.Ptr(" Neodymium magnet "),
		PurchasePrice:     model.Ptr(10.0),
		LowStockThreshold: model.Ptr(20),
	})
	if err != nil {
		t.Fatalf("UpdateHardware() error = %v", err)
	}
	if got.Name != "Neodymium magnet" || got.CostPerItem() != 0.2 || got.LowStockThreshold == nil || *got.LowStockThreshold != 20 {
		t.Errorf("updated = %+v", got)
	}
	if stock := env.HardwareStock(t, h.ID); stock != 50 {
		t.Errorf("stock = %d, update must not move stock", stock)
	}

	tests := []struct {
		name    string
		id      int64
		in      dto.UpdateHardwareInput
		wantErr error
	}{
		{"empty name", h.ID, dto.UpdateHardwareInput{Name: model.Ptr("  ")}, apperror.ErrValidation},
		{"negative price", h.ID, dto.UpdateHardwareInput{PurchasePrice: model.Ptr(-1.0)}, apperror.ErrValidation},
		{"zero purchased", h.ID, dto.UpdateHardwareInput{QuantityPurchased: model.Ptr(0)}, apperror.ErrValidation},
		{"negative threshold", h.ID, dto.UpdateHardwareInput{LowStockThreshold: model.Ptr(-1)}, apperror.ErrValidation},
		{"missing item", 404, dto.UpdateHardwareInput{}, apperror.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.UpdateHardware(ctx, tt.id, &tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateHardware() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHardwareSummary(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	if _, err := uc.CreateHardware(ctx, &dto.CreateHardwareInput{Name: "Magnet", PurchasePrice: 8, QuantityPurchased: 50}); err != nil {
		t.Fatalf("CreateHardware() error = %v", err)
	}
	screw, err := uc.CreateHardware(ctx, &dto.CreateHardwareInput{
		Name:              "Screw",
		PurchasePrice:     3,
		QuantityPurchased: 100,
		QuantityInStock:   model.Ptr(4),
		LowStockThreshold: model.Ptr(5),
	})
	if err != nil {
		t.Fatalf("CreateHardware() error = %v", err)
	}

	got, err := uc.HardwareSummary(ctx)
	if err != nil {
		t.Fatalf("HardwareSummary() error = %v", err)
	}
	want := dto.HardwareSummary{TotalItems: 2, TotalInvested: 11, TotalInStockValue: 8.12, LowStockItems: 1, CurrencySymbol: "$"}
	if *got != want {
		t.Errorf("HardwareSummary() = %+v, want %+v", *got, want)
	}

	if _, err := uc.UpdateHardware(ctx, screw.ID, &dto.UpdateHardwareInput{LowStockThreshold: model.Ptr(2)}); err != nil {
		t.Fatalf("UpdateHardware() error = %v", err)
	}
	if got, _ := uc.HardwareSummary(ctx); got.LowStockItems != 0 {
		t.Errorf("LowStockItems = %d after lowering the threshold", got.LowStockItems)
	}
}
