// Package testutil wires the repositories and the lifecycle engine against a
// private in-memory SQLite database for usecase tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/inventory/dto"
	invrepo "github.com/fekuna/printfarm-inventory-service/internal/inventory/repository"
	"github.com/fekuna/printfarm-inventory-service/internal/lifecycle"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/notification"
	orderrepo "github.com/fekuna/printfarm-inventory-service/internal/order/repository"
	jobrepo "github.com/fekuna/printfarm-inventory-service/internal/printjob/repository"
	productrepo "github.com/fekuna/printfarm-inventory-service/internal/product/repository"
	projectrepo "github.com/fekuna/printfarm-inventory-service/internal/project/repository"
	"github.com/fekuna/printfarm-inventory-service/internal/schema"
	settingsrepo "github.com/fekuna/printfarm-inventory-service/internal/settings/repository"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
)

// Recorder is a Notifier that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []notification.Event
}

func (r *Recorder) Notify(ev notification.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns the recorded events of eventType, or all of them when
// eventType is empty.
func (r *Recorder) Events(eventType string) []notification.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Event
	for _, ev := range r.events {
		if eventType == "" || ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

type Env struct {
	DB        *database.DB
	Log       logger.ZapLogger
	Settings  *settingsrepo.SQLRepository
	Inventory *invrepo.SQLRepository
	Projects  *projectrepo.SQLRepository
	Jobs      *jobrepo.SQLRepository
	Orders    *orderrepo.SQLRepository
	Products  *productrepo.SQLRepository
	Engine    *lifecycle.Engine
	Post      *lifecycle.PostCommit
	Notifier  *Recorder
}

func New(t *testing.T) *Env {
	t.Helper()

	db, err := database.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := schema.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logger.NewNop()
	inv := invrepo.NewSQLRepository(db)
	rec := &Recorder{}

	return &Env{
		DB:        db,
		Log:       log,
		Settings:  settingsrepo.NewSQLRepository(db),
		Inventory: inv,
		Projects:  projectrepo.NewSQLRepository(db),
		Jobs:      jobrepo.NewSQLRepository(db),
		Orders:    orderrepo.NewSQLRepository(db),
		Products:  productrepo.NewSQLRepository(db),
		Engine:    lifecycle.NewEngine(inv, log),
		Post:      lifecycle.NewPostCommit(inv, nil, rec, log),
		Notifier:  rec,
	}
}

// UpdateSettings applies fn to the stored settings and saves them.
func (e *Env) UpdateSettings(t *testing.T, fn func(s *model.AppSettings)) model.AppSettings {
	t.Helper()
	ctx := context.Background()
	s, err := e.Settings.Get(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	fn(&s)
	if err := e.Settings.Save(ctx, &s); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	return s
}

// Spool stores an active spool of total grams with remaining grams left.
func (e *Env) Spool(t *testing.T, filamentType string, total, remaining, price float64) *model.Spool {
	t.Helper()
	now := time.Now().UTC()
	sp := &model.Spool{
		FilamentType:     filamentType,
		Manufacturer:     "Acme",
		ColorName:        "Black",
		TotalWeightG:     total,
		RemainingWeightG: remaining,
		PurchasePrice:    price,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := e.Inventory.CreateSpool(context.Background(), sp); err != nil {
		t.Fatalf("create spool: %v", err)
	}
	return sp
}

// Hardware stores an item bought as purchased units for price with stock
// units on the shelf.
func (e *Env) Hardware(t *testing.T, name string, stock, purchased int, price float64) *model.HardwareItem {
	t.Helper()
	now := time.Now().UTC()
	h := &model.HardwareItem{
		Name:              name,
		PurchasePrice:     price,
		QuantityPurchased: purchased,
		QuantityInStock:   stock,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := e.Inventory.CreateHardware(context.Background(), h); err != nil {
		t.Fatalf("create hardware: %v", err)
	}
	return h
}

// Project stores a project and its hardware requirements and returns it as
// loaded from storage.
func (e *Env) Project(t *testing.T, name string, grams, hours float64, sellPrice *float64, hardware ...model.ProjectHardware) *model.Project {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	p := &model.Project{
		Name:           name,
		FilamentGrams:  grams,
		PrintTimeHours: hours,
		SellPrice:      sellPrice,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.Projects.Create(ctx, p); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if len(hardware) > 0 {
		if err := e.Projects.ReplaceHardware(ctx, p.ID, hardware); err != nil {
			t.Fatalf("set project hardware: %v", err)
		}
	}
	loaded, err := e.Projects.GetByID(ctx, p.ID)
	if err != nil || loaded == nil {
		t.Fatalf("reload project %d: %v", p.ID, err)
	}
	return loaded
}

func (e *Env) SpoolRemaining(t *testing.T, id int64) float64 {
	t.Helper()
	sp, err := e.Inventory.GetSpool(context.Background(), id)
	if err != nil || sp == nil {
		t.Fatalf("get spool %d: %v", id, err)
	}
	return sp.RemainingWeightG
}

func (e *Env) HardwareStock(t *testing.T, id int64) int {
	t.Helper()
	h, err := e.Inventory.GetHardware(context.Background(), id)
	if err != nil || h == nil {
		t.Fatalf("get hardware %d: %v", id, err)
	}
	return h.QuantityInStock
}

// Movements lists the ledger rows of one resource, newest first.
func (e *Env) Movements(t *testing.T, kind model.ResourceKind, id int64) []model.StockMovement {
	t.Helper()
	items, _, err := e.Inventory.ListMovements(context.Background(), &dto.MovementFilters{ResourceKind: kind, ResourceID: id})
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	return items
}
