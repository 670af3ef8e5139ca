package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	orderdto "github.com/fekuna/printfarm-inventory-service/internal/order/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/product"
	"github.com/fekuna/printfarm-inventory-service/internal/product/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/testutil"
)

type fixture struct {
	env      *testutil.Env
	uc       product.UseCase
	spool    *model.Spool
	magnet   *model.HardwareItem
	lamp     *model.Project
	plain    *model.Project
	lampJob  *model.PrintJob
	plainJob *model.PrintJob
}

// newFixture stores a lamp project that needs two magnets and a plain
// project without hardware, each with one completed print job.
func newFixture(t *testing.T, magnets int) *fixture {
	t.Helper()
	env := testutil.New(t)
	f := &fixture{
		env: env,
		uc:  NewProductUseCase(env.DB, env.Products, env.Jobs, env.Orders, env.Inventory, env.Projects, env.Settings, env.Engine, env.Post, env.Log),
	}
	f.spool = env.Spool(t, "PLA", 1000, 1000, 20)
	f.magnet = env.Hardware(t, "Magnet", magnets, 10, 10)
	f.lamp = env.Project(t, "Lamp", 100, 2, model.Ptr(30.0), model.ProjectHardware{HardwareItemID: f.magnet.ID, Quantity: 2})
	f.plain = env.Project(t, "Coaster", 20, 0.5, nil)
	f.lampJob = f.job(t, model.PrintJobCompleted, &f.lamp.ID)
	f.plainJob = f.job(t, model.PrintJobCompleted, &f.plain.ID)
	return f
}

func (f *fixture) job(t *testing.T, status string, projectID *int64) *model.PrintJob {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	job := &model.PrintJob{Status: status, ProjectID: projectID, PrintedAt: now, CreatedAt: now, UpdatedAt: now}
	if err := f.env.Jobs.Create(ctx, job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	allocs := model.Allocations{{SpoolID: f.spool.ID, Grams: 100, Position: 1, CostPerKgSnapshot: 20}}
	if err := f.env.Jobs.ReplaceSpools(ctx, job.ID, allocs); err != nil {
		t.Fatalf("allocate job: %v", err)
	}
	job.Spools = allocs
	return job
}

func (f *fixture) printed(t *testing.T) *model.ProductOnHand {
	t.Helper()
	p, err := f.uc.CreateProduct(context.Background(), &dto.CreateInput{PrintJobID: f.lampJob.ID})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	return p
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	p := f.printed(t)
	if p.Status != model.ProductPrinted || *p.Name != "Lamp" || *p.ProjectID != f.lamp.ID {
		t.Errorf("product = %+v", p)
	}

	plain, err := f.uc.CreateProduct(ctx, &dto.CreateInput{PrintJobID: f.plainJob.ID, Location: model.Ptr("Shelf B")})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if plain.Status != model.ProductCompleted {
		t.Errorf("status = %s, want completed for a project without hardware", plain.Status)
	}

	direct, err := f.uc.CreateProduct(ctx, &dto.CreateInput{PrintJobID: f.lampJob.ID, Status: model.ProductCompleted, Location: model.Ptr("Shelf A")})
	if err != nil {
		t.Fatalf("CreateProduct(completed) error = %v", err)
	}
	if direct.HardwareDeducted || f.env.HardwareStock(t, f.magnet.ID) != 10 {
		t.Errorf("creation as completed touched hardware")
	}
}

func TestCreateCustomProduct(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	job := f.job(t, model.PrintJobCompleted, nil)

	p, err := f.uc.CreateProduct(ctx, &dto.CreateInput{
		PrintJobID: job.ID,
		Name:       model.Ptr("Keychain"),
		Status:     model.ProductCompleted,
		Location:   model.Ptr("Shelf A"),
	})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if p.ProjectID != nil || p.Name == nil || *p.Name != "Keychain" || p.Status != model.ProductCompleted {
		t.Errorf("product = %+v", p)
	}

	unnamed, err := f.uc.CreateProduct(ctx, &dto.CreateInput{PrintJobID: f.job(t, model.PrintJobCompleted, nil).ID, Location: model.Ptr("Shelf B")})
	if err != nil {
		t.Fatalf("CreateProduct() default status error = %v", err)
	}
	if unnamed.Status != model.ProductCompleted || unnamed.Name != nil {
		t.Errorf("unnamed product = %+v", unnamed)
	}

	o, err := f.uc.ConvertToOrder(ctx, p.ID, &dto.ConvertInput{QuotedPrice: model.Ptr(12.0)})
	if err != nil {
		t.Fatalf("ConvertToOrder() error = %v", err)
	}
	if o.ProjectID != nil || o.CustomName == nil || *o.CustomName != "Keychain" || len(o.Hardware) != 0 {
		t.Errorf("order = %+v", o)
	}
	if got := f.env.HardwareStock(t, f.magnet.ID); got != 10 {
		t.Errorf("stock = %d, want untouched 10", got)
	}
}

func TestCreateProductRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   func(t *testing.T, f *fixture) dto.CreateInput
		wantErr error
	}{
		{"missing job", func(t *testing.T, f *fixture) dto.CreateInput { return dto.CreateInput{PrintJobID: 404} }, apperror.ErrNotFound},
		{"failed job", func(t *testing.T, f *fixture) dto.CreateInput {
			return dto.CreateInput{PrintJobID: f.job(t, model.PrintJobFailed, &f.lamp.ID).ID}
		}, apperror.ErrValidation},
		{"custom product without location", func(t *testing.T, f *fixture) dto.CreateInput {
			return dto.CreateInput{PrintJobID: f.job(t, model.PrintJobCompleted, nil).ID}
		}, apperror.ErrValidation},
		{"custom product left printed", func(t *testing.T, f *fixture) dto.CreateInput {
			return dto.CreateInput{PrintJobID: f.job(t, model.PrintJobCompleted, nil).ID, Status: model.ProductPrinted, Location: model.Ptr("Shelf A")}
		}, apperror.ErrValidation},
		{"unknown project", func(t *testing.T, f *fixture) dto.CreateInput {
			return dto.CreateInput{PrintJobID: f.lampJob.ID, ProjectID: model.Ptr(int64(404))}
		}, apperror.ErrNotFound},
		{"plain project left printed", func(t *testing.T, f *fixture) dto.CreateInput {
			return dto.CreateInput{PrintJobID: f.plainJob.ID, Status: model.ProductPrinted}
		}, apperror.ErrValidation},
		{"completed without location", func(t *testing.T, f *fixture) dto.CreateInput {
			return dto.CreateInput{PrintJobID: f.lampJob.ID, Status: model.ProductCompleted, Location: model.Ptr("  ")}
		}, apperror.ErrValidation},
		{"unknown status", func(t *testing.T, f *fixture) dto.CreateInput {
			return dto.CreateInput{PrintJobID: f.lampJob.ID, Status: "boxed"}
		}, apperror.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 10)
			in := tt.input(t, f)
			if _, err := f.uc.CreateProduct(context.Background(), &in); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateProduct() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompleteProductDeductsHardwareOnce(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	p := f.printed(t)

	if _, err := f.uc.UpdateProduct(ctx, p.ID, &dto.UpdateInput{Status: model.Ptr(model.ProductCompleted)}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("UpdateProduct() without location error = %v", err)
	}

	done, err := f.uc.UpdateProduct(ctx, p.ID, &dto.UpdateInput{Status: model.Ptr(model.ProductCompleted), Location: model.Ptr("Shelf A")})
	if err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}
	if !done.HardwareDeducted || f.env.HardwareStock(t, f.magnet.ID) != 8 {
		t.Errorf("deducted = %v, stock = %d", done.HardwareDeducted, f.env.HardwareStock(t, f.magnet.ID))
	}

	for _, status := range []string{model.ProductPrinted, model.ProductCompleted} {
		if _, err := f.uc.UpdateProduct(ctx, p.ID, &dto.UpdateInput{Status: model.Ptr(status)}); err != nil {
			t.Fatalf("UpdateProduct(%s) error = %v", status, err)
		}
	}
	if got := f.env.HardwareStock(t, f.magnet.ID); got != 8 {
		t.Errorf("stock = %d after re-completing, want 8", got)
	}
	mv := f.env.Movements(t, model.ResourceHardware, f.magnet.ID)
	if len(mv) != 1 || *mv[0].ReferenceType != "product_on_hand" || *mv[0].ReferenceID != p.ID {
		t.Errorf("movements = %+v", mv)
	}
}

func TestCompleteProductShortage(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	p := f.printed(t)

	_, err := f.uc.UpdateProduct(ctx, p.ID, &dto.UpdateInput{Status: model.Ptr(model.ProductCompleted), Location: model.Ptr("Shelf A")})
	if !errors.Is(err, apperror.ErrShortage) {
		t.Fatalf("UpdateProduct() error = %v, want shortage", err)
	}
	got, _ := f.uc.GetProduct(ctx, p.ID)
	if got.Status != model.ProductPrinted || got.HardwareDeducted || got.Location != nil {
		t.Errorf("product changed after shortage: %+v", got)
	}
	if stock := f.env.HardwareStock(t, f.magnet.ID); stock != 1 {
		t.Errorf("stock = %d, want 1", stock)
	}
}

func TestConvertToOrder(t *testing.T) {
	tests := []struct {
		name      string
		complete  bool
		wantStock int
	}{
		{"printed product deducts hardware", false, 8},
		{"completed product was already deducted", true, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 10)
			ctx := context.Background()
			p := f.printed(t)
			if tt.complete {
				if _, err := f.uc.UpdateProduct(ctx, p.ID, &dto.UpdateInput{Status: model.Ptr(model.ProductCompleted), Location: model.Ptr("Shelf A")}); err != nil {
					t.Fatalf("UpdateProduct() error = %v", err)
				}
			}

			o, err := f.uc.ConvertToOrder(ctx, p.ID, &dto.ConvertInput{CustomerName: model.Ptr("Ada"), ShippingCharge: 4})
			if err != nil {
				t.Fatalf("ConvertToOrder() error = %v", err)
			}
			if o.Status != model.OrderSold || *o.QuotedPrice != 30 || *o.CustomName != "Lamp" {
				t.Errorf("order = %+v", o)
			}
			if len(o.Spools) != 1 || o.Spools[0].Grams != 100 || len(o.Hardware) != 1 || o.Hardware[0].Quantity != 2 {
				t.Errorf("order lines = %+v / %+v", o.Spools, o.Hardware)
			}
			if got := f.env.HardwareStock(t, f.magnet.ID); got != tt.wantStock {
				t.Errorf("stock = %d, want %d", got, tt.wantStock)
			}

			if _, err := f.uc.GetProduct(ctx, p.ID); !errors.Is(err, apperror.ErrNotFound) {
				t.Errorf("GetProduct() after convert error = %v", err)
			}
			job, _ := f.env.Jobs.GetByID(ctx, f.lampJob.ID)
			if job.OrderID == nil || *job.OrderID != o.ID {
				t.Errorf("job order = %v, want %d", job.OrderID, o.ID)
			}
			stored, _ := f.env.Orders.GetByID(ctx, o.ID)
			if stored == nil || stored.ShippingCharge != 4 || len(stored.Hardware) != 1 {
				t.Errorf("stored order = %+v", stored)
			}
		})
	}
}

func TestConvertToOrderRejects(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	first := f.printed(t)
	second := f.printed(t)

	if _, err := f.uc.ConvertToOrder(ctx, first.ID, &dto.ConvertInput{}); err != nil {
		t.Fatalf("ConvertToOrder() error = %v", err)
	}

	var ce *apperror.ConflictError
	if _, err := f.uc.ConvertToOrder(ctx, second.ID, &dto.ConvertInput{}); !errors.As(err, &ce) || ce.Kind != apperror.ConflictState {
		t.Errorf("ConvertToOrder() for a linked job error = %v, want state conflict", err)
	}
	if _, err := f.uc.GetProduct(ctx, second.ID); err != nil {
		t.Errorf("product after rejected convert: %v", err)
	}
	if _, total, err := f.env.Orders.List(ctx, &orderdto.Filters{}); err != nil || total != 1 {
		t.Errorf("orders after rejected convert = %d, %v, want 1", total, err)
	}
	if got := f.env.HardwareStock(t, f.magnet.ID); got != 8 {
		t.Errorf("stock = %d, want 8", got)
	}
	if _, err := f.uc.ConvertToOrder(ctx, second.ID, &dto.ConvertInput{ShippingCharge: -1}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("ConvertToOrder() negative shipping error = %v", err)
	}
	if _, err := f.uc.ConvertToOrder(ctx, 404, &dto.ConvertInput{}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ConvertToOrder(missing) error = %v", err)
	}
}

func TestConvertToOrderShortage(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	p := f.printed(t)

	if _, err := f.uc.ConvertToOrder(ctx, p.ID, &dto.ConvertInput{}); !errors.Is(err, apperror.ErrShortage) {
		t.Fatalf("ConvertToOrder() error = %v, want shortage", err)
	}
	if _, err := f.uc.GetProduct(ctx, p.ID); err != nil {
		t.Errorf("product removed after failed convert: %v", err)
	}
	job, _ := f.env.Jobs.GetByID(ctx, f.lampJob.ID)
	if job.OrderID != nil {
		t.Errorf("job linked to order %d after failed convert", *job.OrderID)
	}
}

func TestProductCostAndList(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	p := f.printed(t)

	// 100g at 20/kg plus two magnets at 1 each
	got, err := f.uc.ProductCost(ctx, p.ID)
	if err != nil || got != 4 {
		t.Errorf("ProductCost() = %v, %v, want 4", got, err)
	}

	if _, err := f.uc.CreateProduct(ctx, &dto.CreateInput{PrintJobID: f.plainJob.ID, Location: model.Ptr("Shelf B")}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	items, total, err := f.uc.ListProducts(ctx, &dto.Filters{Status: model.ProductPrinted})
	if err != nil || total != 1 || items[0].ID != p.ID {
		t.Errorf("ListProducts(printed) = %v, %d, %v", items, total, err)
	}
	if _, _, err := f.uc.ListProducts(ctx, &dto.Filters{Status: "boxed"}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("ListProducts(bad status) error = %v", err)
	}

	if err := f.uc.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}
	if err := f.uc.DeleteProduct(ctx, p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second DeleteProduct() error = %v", err)
	}
}
