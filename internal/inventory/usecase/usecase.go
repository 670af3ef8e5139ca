package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory/dto"
	"github.com/fekuna/printfarm-inventory-service/internal/lifecycle"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/settings"
	"github.com/fekuna/printfarm-inventory-service/pkg/cache"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"github.com/fekuna/printfarm-inventory-service/pkg/search"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	spoolIndex        = "spools"
	alertsCacheKey    = "inventory:spool_alerts"
	alertsCacheTTL    = 5 * time.Minute
	spoolIndexMapping = `{
		"mappings": {
			"properties": {
				"filament_type": { "type": "text" },
				"manufacturer": { "type": "text" },
				"color_name": { "type": "text" },
				"tracking_id": { "type": "keyword" },
				"location": { "type": "text" },
				"is_active": { "type": "boolean" }
			}
		}
	}`
)

type inventoryUseCase struct {
	db       *database.DB
	repo     inventory.Repository
	settings settings.Repository
	engine   *lifecycle.Engine
	post     *lifecycle.PostCommit
	cache    *cache.RedisClient
	es       *search.Client
	logger   logger.ZapLogger
}

func NewInventoryUseCase(
	db *database.DB,
	repo inventory.Repository,
	settingsRepo settings.Repository,
	engine *lifecycle.Engine,
	post *lifecycle.PostCommit,
	cache *cache.RedisClient,
	es *search.Client,
	log logger.ZapLogger,
) inventory.UseCase {
	return &inventoryUseCase{
		db:       db,
		repo:     repo,
		settings: settingsRepo,
		engine:   engine,
		post:     post,
		cache:    cache,
		es:       es,
		logger:   log,
	}
}

func (uc *inventoryUseCase) ValidateInventory(ctx context.Context, input *dto.ValidateInput) (*dto.ValidationResult, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	shortages, err := uc.engine.Check(ctx, s, model.ResourceSpool, input.Usages)
	if err != nil {
		return nil, err
	}
	if shortages == nil {
		shortages = []model.Shortage{}
	}
	return &dto.ValidationResult{Valid: len(shortages) == 0, Shortages: shortages}, nil
}

func (uc *inventoryUseCase) CreateSpool(ctx context.Context, input *dto.CreateSpoolInput) (*model.Spool, error) {
	var sp *model.Spool
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		s, err := uc.settings.Get(ctx)
		if err != nil {
			return err
		}
		sp, err = uc.insertSpool(ctx, s, input, model.MovementManualAdjustment)
		return err
	})
	if err != nil {
		return nil, uc.classify(err)
	}

	uc.post.Invalidate(lifecycle.InventoryCachePattern)
	go uc.syncToElastic(context.Background(), sp)
	return sp, nil
}

// ImportSpools creates every spool or none.
func (uc *inventoryUseCase) ImportSpools(ctx context.Context, inputs []dto.CreateSpoolInput) ([]model.Spool, error) {
	created := make([]model.Spool, 0, len(inputs))
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		s, err := uc.settings.Get(ctx)
		if err != nil {
			return err
		}
		seen := map[string]int{}
		for i := range inputs {
			if tid := trimmed(inputs[i].TrackingID); tid != "" {
				if prev, dup := seen[tid]; dup {
					return apperror.Conflict(apperror.ConflictDuplicate, "rows %d and %d share tracking id %s", prev+1, i+1, tid)
				}
				seen[tid] = i
			}
			sp, err := uc.insertSpool(ctx, s, &inputs[i], model.MovementImport)
			if err != nil {
				return errors.Wrapf(err, "row %d", i+1)
			}
			created = append(created, *sp)
		}
		return nil
	})
	if err != nil {
		return nil, uc.classify(err)
	}

	uc.logger.Info("spools imported", zap.Int("count", len(created)))
	uc.post.Invalidate(lifecycle.InventoryCachePattern)
	go func() {
		for i := range created {
			uc.syncToElastic(context.Background(), &created[i])
		}
	}()
	return created, nil
}

func (uc *inventoryUseCase) insertSpool(ctx context.Context, s model.AppSettings, in *dto.CreateSpoolInput, movementType string) (*model.Spool, error) {
	if strings.TrimSpace(in.FilamentType) == "" {
		return nil, apperror.Validation("filament_type", "is required")
	}
	if in.TotalWeightG <= 0 {
		return nil, apperror.Validation("total_weight_g", "must be positive")
	}
	if in.PurchasePrice < 0 {
		return nil, apperror.Validation("purchase_price", "must not be negative")
	}
	remaining := in.TotalWeightG
	if in.RemainingWeightG != nil {
		remaining = *in.RemainingWeightG
	}
	if remaining < 0 || remaining > in.TotalWeightG {
		return nil, apperror.Validation("remaining_weight_g", "must be between 0 and total_weight_g")
	}

	now := time.Now().UTC()
	sp := &model.Spool{
		FilamentType:     strings.TrimSpace(in.FilamentType),
		Manufacturer:     strings.TrimSpace(in.Manufacturer),
		ColorName:        strings.TrimSpace(in.ColorName),
		ColorHex:         in.ColorHex,
		TotalWeightG:     in.TotalWeightG,
		RemainingWeightG: remaining,
		PurchasePrice:    in.PurchasePrice,
		Location:         in.Location,
		Notes:            in.Notes,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if tid := trimmed(in.TrackingID); tid != "" {
		if err := uc.ensureTrackingIDFree(ctx, tid, 0); err != nil {
			return nil, err
		}
		sp.TrackingID = &tid
	} else if s.EnableTrackingIDAutoGeneration {
		tid, err := uc.nextTrackingID(ctx, sp.FilamentType)
		if err != nil {
			return nil, err
		}
		sp.TrackingID = &tid
	}

	if err := uc.repo.CreateSpool(ctx, sp); err != nil {
		return nil, err
	}

	mv := &model.StockMovement{
		ID:             uuid.New().String(),
		ResourceKind:   model.ResourceSpool,
		ResourceID:     sp.ID,
		MovementType:   movementType,
		QuantityChange: remaining,
		QuantityBefore: 0,
		QuantityAfter:  remaining,
		Notes:          "initial stock",
		CreatedAt:      now,
	}
	if err := uc.repo.LogMovement(ctx, mv); err != nil {
		return nil, err
	}
	return sp, nil
}

func (uc *inventoryUseCase) ensureTrackingIDFree(ctx context.Context, trackingID string, selfID int64) error {
	existing, err := uc.repo.FindSpoolByTrackingID(ctx, trackingID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return &apperror.ConflictError{
			Kind:     apperror.ConflictDuplicate,
			Message:  fmt.Sprintf("tracking id %s already used by spool %d (%s)", trackingID, existing.ID, existing.Label()),
			Existing: existing,
		}
	}
	return nil
}

func (uc *inventoryUseCase) nextTrackingID(ctx context.Context, filamentType string) (string, error) {
	prefix := inventory.Abbreviation(filamentType)
	existing, err := uc.repo.ListTrackingIDs(ctx, prefix)
	if err != nil {
		return "", err
	}
	return inventory.NextTrackingID(prefix, existing), nil
}

func (uc *inventoryUseCase) SuggestTrackingID(ctx context.Context, filamentType string) (string, error) {
	if strings.TrimSpace(filamentType) == "" {
		return "", apperror.Validation("filament_type", "is required")
	}
	return uc.nextTrackingID(ctx, filamentType)
}

func (uc *inventoryUseCase) UpdateSpool(ctx context.Context, id int64, input *dto.UpdateSpoolInput) (*model.Spool, error) {
	var sp *model.Spool
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		sp, err = uc.repo.GetSpool(ctx, id)
		if err != nil {
			return err
		}
		if sp == nil {
			return apperror.NotFound("spool", id)
		}

		if input.FilamentType != nil {
			if strings.TrimSpace(*input.FilamentType) == "" {
				return apperror.Validation("filament_type", "must not be empty")
			}
			sp.FilamentType = strings.TrimSpace(*input.FilamentType)
		}
		if input.Manufacturer != nil {
			sp.Manufacturer = strings.TrimSpace(*input.Manufacturer)
		}
		if input.ColorName != nil {
			sp.ColorName = strings.TrimSpace(*input.ColorName)
		}
		if input.ColorHex != nil {
			sp.ColorHex = input.ColorHex
		}
		if input.PurchasePrice != nil {
			if *input.PurchasePrice < 0 {
				return apperror.Validation("purchase_price", "must not be negative")
			}
			sp.PurchasePrice = *input.PurchasePrice
		}
		if input.TrackingID != nil {
			tid := strings.TrimSpace(*input.TrackingID)
			if tid == "" {
				sp.TrackingID = nil
			} else {
				if err := uc.ensureTrackingIDFree(ctx, tid, sp.ID); err != nil {
					return err
				}
				sp.TrackingID = &tid
			}
		}
		if input.Location != nil {
			sp.Location = input.Location
		}
		if input.Notes != nil {
			sp.Notes = input.Notes
		}
		if input.IsActive != nil {
			sp.IsActive = *input.IsActive
		}
		sp.UpdatedAt = time.Now().UTC()
		return uc.repo.UpdateSpool(ctx, sp)
	})
	if err != nil {
		return nil, uc.classify(err)
	}

	uc.post.Invalidate(lifecycle.InventoryCachePattern)
	go uc.syncToElastic(context.Background(), sp)
	return sp, nil
}

func (uc *inventoryUseCase) GetSpool(ctx context.Context, id int64) (*model.Spool, error) {
	sp, err := uc.repo.GetSpool(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, apperror.NotFound("spool", id)
	}
	return sp, nil
}

func (uc *inventoryUseCase) ListSpools(ctx context.Context, filters *dto.SpoolFilters) ([]model.Spool, int, error) {
	if filters.Search != "" && uc.es != nil {
		items, total, err := uc.searchSpools(ctx, filters)
		if err == nil {
			return items, total, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}
	return uc.repo.ListSpools(ctx, filters)
}

// searchSpools matches ids in Elasticsearch and loads current ledger values
// from the database, so stock figures are never stale.
func (uc *inventoryUseCase) searchSpools(ctx context.Context, f *dto.SpoolFilters) ([]model.Spool, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", f.Search),
				"fields": []string{"tracking_id^3", "filament_type^2", "manufacturer", "color_name", "location"},
			},
		},
	}
	if f.ActiveOnly {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"is_active": true}})
	}
	q := map[string]interface{}{
		"query": map[string]interface{}{"bool": map[string]interface{}{"must": must}},
	}
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * f.PageSize
		q["size"] = f.PageSize
	}

	res, err := uc.es.Search(ctx, spoolIndex, q)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]int64, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err == nil {
			ids = append(ids, id)
		}
	}
	spools, err := uc.repo.GetSpoolsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	byID := make(map[int64]model.Spool, len(spools))
	for _, s := range spools {
		byID[s.ID] = s
	}
	ordered := make([]model.Spool, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, res.Hits.Total.Value, nil
}

func (uc *inventoryUseCase) syncToElastic(ctx context.Context, sp *model.Spool) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, spoolIndex, spoolIndexMapping)
	if err := uc.es.Index(ctx, spoolIndex, strconv.FormatInt(sp.ID, 10), sp); err != nil {
		uc.logger.Error("failed to index spool", zap.Int64("spool_id", sp.ID), zap.Error(err))
	}
}

func (uc *inventoryUseCase) DeleteSpool(ctx context.Context, id int64) error {
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		sp, err := uc.repo.GetSpool(ctx, id)
		if err != nil {
			return err
		}
		if sp == nil {
			return apperror.NotFound("spool", id)
		}
		refs, err := uc.repo.CountSpoolReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperror.Conflict(apperror.ConflictDependent, "spool %d is used by %d print jobs or orders", id, refs)
		}
		return uc.repo.DeleteSpool(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.post.Invalidate(lifecycle.InventoryCachePattern)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), spoolIndex, strconv.FormatInt(id, 10)); err != nil {
				uc.logger.Error("failed to remove spool from index", zap.Int64("spool_id", id), zap.Error(err))
			}
		}()
	}
	return nil
}

// AdjustSpool overwrites the remaining weight. It is a correction, so no
// shortage check applies.
func (uc *inventoryUseCase) AdjustSpool(ctx context.Context, input *dto.AdjustInput) (*model.Spool, error) {
	if input.Value < 0 {
		return nil, apperror.Validation("value", "must not be negative")
	}

	var (
		sp *model.Spool
		s  model.AppSettings
		mv model.StockMovement
	)
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if s, err = uc.settings.Get(ctx); err != nil {
			return err
		}
		sp, err = uc.repo.GetSpool(ctx, input.ID)
		if err != nil {
			return err
		}
		if sp == nil {
			return apperror.NotFound("spool", input.ID)
		}

		before := sp.RemainingWeightG
		if err := uc.repo.SetSpoolRemaining(ctx, sp.ID, input.Value); err != nil {
			return err
		}
		sp.RemainingWeightG = input.Value

		mv = model.StockMovement{
			ID:             uuid.New().String(),
			ResourceKind:   model.ResourceSpool,
			ResourceID:     sp.ID,
			MovementType:   model.MovementManualAdjustment,
			QuantityChange: input.Value - before,
			QuantityBefore: before,
			QuantityAfter:  input.Value,
			Notes:          input.Reason,
			CreatedAt:      time.Now().UTC(),
		}
		return uc.repo.LogMovement(ctx, &mv)
	})
	if err != nil {
		return nil, err
	}

	uc.post.Movements(ctx, s, []model.StockMovement{mv})
	return sp, nil
}

func (uc *inventoryUseCase) SpoolAlerts(ctx context.Context) (*dto.SpoolAlerts, error) {
	var cached dto.SpoolAlerts
	if uc.cache.GetJSON(ctx, alertsCacheKey, &cached) {
		return &cached, nil
	}

	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	spools, err := uc.repo.ListLowSpools(ctx, s.LowSpoolThresholdG)
	if err != nil {
		return nil, err
	}

	out := &dto.SpoolAlerts{
		ThresholdG:  s.LowSpoolThresholdG,
		EmptySpools: []model.Spool{},
		LowSpools:   []model.Spool{},
	}
	for _, sp := range spools {
		if sp.RemainingWeightG <= 0 {
			out.EmptySpools = append(out.EmptySpools, sp)
		} else {
			out.LowSpools = append(out.LowSpools, sp)
		}
	}

	if err := uc.cache.SetJSON(ctx, alertsCacheKey, out, alertsCacheTTL); err != nil {
		uc.logger.Warn("failed to cache spool alerts", zap.Error(err))
	}
	return out, nil
}

func (uc *inventoryUseCase) CreateHardware(ctx context.Context, input *dto.CreateHardwareInput) (*model.HardwareItem, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.Validation("name", "is required")
	}
	if input.QuantityPurchased < 0 || input.PurchasePrice < 0 {
		return nil, apperror.Validation("quantity_purchased", "quantity and price must not be negative")
	}
	stock := input.QuantityPurchased
	if input.QuantityInStock != nil {
		stock = *input.QuantityInStock
	}
	if stock < 0 {
		return nil, apperror.Validation("quantity_in_stock", "must not be negative")
	}

	now := time.Now().UTC()
	h := &model.HardwareItem{
		Name:              strings.TrimSpace(input.Name),
		Brand:             input.Brand,
		PurchasePrice:     input.PurchasePrice,
		QuantityPurchased: input.QuantityPurchased,
		QuantityInStock:   stock,
		LowStockThreshold: input.LowStockThreshold,
		Notes:             input.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.CreateHardware(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (uc *inventoryUseCase) UpdateHardware(ctx context.Context, id int64, input *dto.UpdateHardwareInput) (*model.HardwareItem, error) {
	var h *model.HardwareItem
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		h, err = uc.repo.GetHardware(ctx, id)
		if err != nil {
			return err
		}
		if h == nil {
			return apperror.NotFound("hardware item", id)
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apperror.Validation("name", "must not be empty")
			}
			h.Name = name
		}
		if input.Brand != nil {
			h.Brand = input.Brand
		}
		if input.PurchasePrice != nil {
			if *input.PurchasePrice < 0 {
				return apperror.Validation("purchase_price", "must not be negative")
			}
			h.PurchasePrice = *input.PurchasePrice
		}
		if input.QuantityPurchased != nil {
			if *input.QuantityPurchased < 1 {
				return apperror.Validation("quantity_purchased", "must be at least 1")
			}
			h.QuantityPurchased = *input.QuantityPurchased
		}
		if input.LowStockThreshold != nil {
			if *input.LowStockThreshold < 0 {
				return apperror.Validation("low_stock_threshold", "must not be negative")
			}
			h.LowStockThreshold = input.LowStockThreshold
		}
		if input.Notes != nil {
			h.Notes = input.Notes
		}

		h.UpdatedAt = time.Now().UTC()
		return uc.repo.UpdateHardware(ctx, h)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (uc *inventoryUseCase) ListHardware(ctx context.Context) ([]model.HardwareItem, error) {
	return uc.repo.ListHardware(ctx)
}

// HardwareSummary values stock at each item's current cost per piece.
func (uc *inventoryUseCase) HardwareSummary(ctx context.Context) (*dto.HardwareSummary, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	items, err := uc.repo.ListHardware(ctx)
	if err != nil {
		return nil, err
	}

	sum := &dto.HardwareSummary{TotalItems: len(items), CurrencySymbol: s.CurrencySymbol}
	invested, value := 0.0, 0.0
	for i := range items {
		invested += items[i].PurchasePrice
		value += items[i].CostPerItem() * float64(items[i].QuantityInStock)
		if items[i].IsLowStock() {
			sum.LowStockItems++
		}
	}
	sum.TotalInvested = model.Round(invested, 2)
	sum.TotalInStockValue = model.Round(value, 2)
	return sum, nil
}

func (uc *inventoryUseCase) DeleteHardware(ctx context.Context, id int64) error {
	return uc.db.WithinTx(ctx, func(ctx context.Context) error {
		h, err := uc.repo.GetHardware(ctx, id)
		if err != nil {
			return err
		}
		if h == nil {
			return apperror.NotFound("hardware item", id)
		}
		refs, err := uc.repo.CountHardwareReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperror.Conflict(apperror.ConflictDependent, "hardware item %d is used by %d orders or projects", id, refs)
		}
		return uc.repo.DeleteHardware(ctx, id)
	})
}

func (uc *inventoryUseCase) AdjustHardware(ctx context.Context, input *dto.AdjustInput) (*model.HardwareItem, error) {
	qty := int(input.Value)
	if input.Value < 0 || float64(qty) != input.Value {
		return nil, apperror.Validation("value", "must be a non-negative whole number")
	}

	var h *model.HardwareItem
	err := uc.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		h, err = uc.repo.GetHardware(ctx, input.ID)
		if err != nil {
			return err
		}
		if h == nil {
			return apperror.NotFound("hardware item", input.ID)
		}
		before := h.QuantityInStock
		if err := uc.repo.SetHardwareStock(ctx, h.ID, qty); err != nil {
			return err
		}
		h.QuantityInStock = qty

		return uc.repo.LogMovement(ctx, &model.StockMovement{
			ID:             uuid.New().String(),
			ResourceKind:   model.ResourceHardware,
			ResourceID:     h.ID,
			MovementType:   model.MovementManualAdjustment,
			QuantityChange: float64(qty - before),
			QuantityBefore: float64(before),
			QuantityAfter:  float64(qty),
			Notes:          input.Reason,
			CreatedAt:      time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	uc.post.Invalidate(lifecycle.InventoryCachePattern)
	return h, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

// classify turns a unique violation that slipped past the pre-checks into a
// Conflict.
func (uc *inventoryUseCase) classify(err error) error {
	if target, ok := database.UniqueViolation(err); ok {
		uc.logger.Warn("unique violation on spool write", zap.String("constraint", target), zap.Error(err))
		return apperror.Conflict(apperror.ConflictDuplicate, "spool already exists (%s)", target)
	}
	return err
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
