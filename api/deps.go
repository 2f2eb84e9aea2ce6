package api

import (
	"context"

	"go.uber.org/zap"

	"inventory.GO/core/cache"
)

// LowStockCacheKey holds the cached /api/stock/low report.
var LowStockCacheKey = cache.Key("stock", "low")

// InvalidateLowStock drops the cached low-stock report after a stock change.
func (d *Deps) InvalidateLowStock(ctx context.Context) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Delete(ctx, LowStockCacheKey); err != nil {
		d.Logger.Warn("low stock cache invalidation failed", zap.Error(err))
	}
}
