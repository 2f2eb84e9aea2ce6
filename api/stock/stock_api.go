package stock

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory.GO/api"
	"inventory.GO/core/auth"
	"inventory.GO/model/entity"
	catalogRepo "inventory.GO/model/repository/catalog"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

// LowStockReport is the body of GET /api/stock/low.
type LowStockReport struct {
	Count int                       `json:"count"`
	Items []entity.ProductVariation `json:"items"`
}

type adjustRequest struct {
	Delta int    `json:"delta"`
	Note  string `json:"note"`
}

func RegisterStockRoutes(apiGroup *echo.Group, deps *api.Deps) {
	variations := catalogRepo.NewVariationRepository(deps.DB)
	g := apiGroup.Group("/stock")

	// GET /api/stock/low – variations at or below reorder level, cached for LOW_STOCK_CACHE_TTL
	g.GET("/low", func(c echo.Context) error {
		ctx := c.Request().Context()
		var report LowStockReport
		if hit, err := deps.Cache.Get(ctx, api.LowStockCacheKey, &report); err == nil && hit {
			c.Response().Header().Set("X-Cache", "HIT")
			return c.JSON(http.StatusOK, report)
		}
		items, err := deps.Ledger.ScanLowStock(ctx)
		if err != nil {
			return api.Error(c, err)
		}
		if items == nil {
			items = []entity.ProductVariation{}
		}
		report = LowStockReport{Count: len(items), Items: items}
		if err := deps.Cache.Set(ctx, api.LowStockCacheKey, report, deps.Config.LowStockCacheTTL); err != nil {
			deps.Logger.Warn("low stock cache write failed", zap.Error(err))
		}
		c.Response().Header().Set("X-Cache", "MISS")
		return c.JSON(http.StatusOK, report)
	})

	// POST /api/stock/check – run the scheduled low-stock check now
	g.POST("/check", func(c echo.Context) error {
		sum, err := deps.Notifier.RunDailyCheck(c.Request().Context())
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"run_id":  sum.RunID,
			"scanned": sum.Scanned,
			"flagged": sum.Flagged,
			"sent":    sum.Sent,
			"failed":  sum.Failed,
			"message": sum.String(),
		})
	}, auth.RequireStaff())

	// POST /api/variations/:id/adjust – signed manual correction
	apiGroup.POST("/variations/:id/adjust", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		var req adjustRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		ctx := c.Request().Context()
		level, err := deps.Ledger.Adjust(ctx, id, req.Delta, req.Note)
		if err != nil {
			return api.Error(c, err)
		}
		deps.InvalidateLowStock(ctx)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "stock_level": level})
	}, auth.RequireStaff())

	// GET /api/variations/:id/movements?limit=N – newest first
	apiGroup.GET("/variations/:id/movements", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		limit := 100
		if s := c.QueryParam("limit"); s != "" {
			if limit, err = strconv.Atoi(s); err != nil || limit <= 0 {
				return api.BadRequest(c, "invalid limit")
			}
		}
		ctx := c.Request().Context()
		if _, err := variations.GetVariation(ctx, id); err != nil {
			return api.Error(c, err)
		}
		ms, err := variations.ListMovements(ctx, id, limit)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, ms)
	})
}
