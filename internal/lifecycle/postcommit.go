package lifecycle

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/notification"
	"github.com/fekuna/printfarm-inventory-service/pkg/cache"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	InventoryCachePattern = "inventory:*"
	OrdersCachePattern    = "orders:*"
)

// PostCommit runs the side effects of committed ledger work: cache
// invalidation and low-stock alerts. Every method is safe with a nil cache
// or notifier.
type PostCommit struct {
	repo     inventory.Repository
	cache    *cache.RedisClient
	notifier notification.Notifier
	logger   logger.ZapLogger
}

func NewPostCommit(repo inventory.Repository, c *cache.RedisClient, n notification.Notifier, log logger.ZapLogger) *PostCommit {
	return &PostCommit{repo: repo, cache: c, notifier: n, logger: log}
}

// Movements reacts to ledger movements written by a committed transaction.
func (p *PostCommit) Movements(ctx context.Context, settings model.AppSettings, movements []model.StockMovement) {
	if len(movements) == 0 {
		return
	}
	p.Invalidate(InventoryCachePattern)

	if p.notifier == nil {
		return
	}
	for _, id := range notification.LowStockSpools(settings, movements) {
		sp, err := p.repo.GetSpool(ctx, id)
		if err != nil || sp == nil {
			p.logger.Warn("low stock alert skipped", zap.Int64("spool_id", id), zap.Error(err))
			continue
		}
		p.notifier.Notify(notification.LowStock(sp))
	}
}

// Invalidate drops cached reads matching pattern in the background.
func (p *PostCommit) Invalidate(pattern string) {
	if p.cache == nil {
		return
	}
	go func() {
		if err := p.cache.DeleteByPattern(context.Background(), pattern); err != nil {
			p.logger.Error("failed to invalidate cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}()
}

func (p *PostCommit) Notify(ev notification.Event) {
	if p.notifier == nil {
		return
	}
	p.notifier.Notify(ev)
}
