package realtime

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"inventory.GO/api"
	catalogRepo "inventory.GO/model/repository/catalog"
)

func init() {
	api.RegisterModule(RegisterRealtimeRoutes)
}

// StockPriceResponse for the stock+price endpoint
type StockPriceResponse struct {
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	StockLevel int             `json:"stock_level"`
}

// RegisterRealtimeRoutes sets up the single-SKU lookup used by storefront widgets.
func RegisterRealtimeRoutes(apiGroup *echo.Group, deps *api.Deps) {
	products := catalogRepo.NewProductRepository(deps.DB)
	variations := catalogRepo.NewVariationRepository(deps.DB)
	g := apiGroup.Group("/realtime")

	// GET /api/realtime/stock?sku=XXX
	g.GET("/stock", func(c echo.Context) error {
		start := time.Now()
		sku := c.QueryParam("sku")
		if sku == "" {
			return api.BadRequest(c, "sku required")
		}
		ctx := c.Request().Context()

		var (
			price      decimal.Decimal
			priceFound bool
			stock      int
			stockFound bool
		)
		eg := new(errgroup.Group)
		eg.Go(func() error {
			price, priceFound = products.PriceBySKU(ctx, sku)
			return nil
		})
		eg.Go(func() error {
			stock, stockFound = variations.StockLevelBySKU(ctx, sku)
			return nil
		})
		_ = eg.Wait()

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		if !priceFound && !stockFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":               "sku not found",
				"request_duration_ms": duration,
			})
		}
		return c.JSON(http.StatusOK, StockPriceResponse{SKU: sku, Price: price, StockLevel: stock})
	})
}
