package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"inventory.GO/api"
	"inventory.GO/model/entity"
	catalogRepo "inventory.GO/model/repository/catalog"
)

// DefaultReorderLevel applies when a new variation omits reorder_level.
const DefaultReorderLevel = 10

func init() {
	api.RegisterModule(RegisterCatalogRoutes)
}

type productRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type variationRequest struct {
	SKUCode      string            `json:"sku_code"`
	Attributes   datatypes.JSONMap `json:"attributes"`
	StockLevel   int               `json:"stock_level"`
	ReorderLevel *int              `json:"reorder_level"`
}

type variationView struct {
	entity.ProductVariation
	IsLowStock bool `json:"is_low_stock"`
}

type supplierRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func RegisterCatalogRoutes(apiGroup *echo.Group, deps *api.Deps) {
	products := catalogRepo.NewProductRepository(deps.DB)
	variations := catalogRepo.NewVariationRepository(deps.DB)
	suppliers := catalogRepo.NewSupplierRepository(deps.DB)

	apiGroup.GET("/products", func(c echo.Context) error {
		ps, err := products.List(c.Request().Context())
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, ps)
	})

	apiGroup.POST("/products", func(c echo.Context) error {
		var req productRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return api.BadRequest(c, "name is required")
		}
		if req.Price.IsNegative() {
			return api.BadRequest(c, "price must not be negative")
		}
		if req.Category == "" {
			req.Category = "General"
		}
		p := entity.Product{Name: req.Name, Category: req.Category, Description: req.Description, Price: req.Price}
		if err := products.Create(c.Request().Context(), &p); err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusCreated, p)
	})

	apiGroup.GET("/products/:id", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		p, err := products.Get(c.Request().Context(), id)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})

	apiGroup.GET("/products/:id/variations", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		ctx := c.Request().Context()
		if _, err := products.Get(ctx, id); err != nil {
			return api.Error(c, err)
		}
		vs, err := variations.List(ctx, id)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, vs)
	})

	apiGroup.POST("/products/:id/variations", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		var req variationRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		req.SKUCode = strings.TrimSpace(req.SKUCode)
		if req.SKUCode == "" {
			return api.BadRequest(c, "sku_code is required")
		}
		reorder := DefaultReorderLevel
		if req.ReorderLevel != nil {
			reorder = *req.ReorderLevel
		}
		if req.StockLevel < 0 || reorder < 0 {
			return api.BadRequest(c, "stock_level and reorder_level must not be negative")
		}

		ctx := c.Request().Context()
		if _, err := products.Get(ctx, id); err != nil {
			return api.Error(c, err)
		}
		if _, err := variations.GetBySKU(ctx, req.SKUCode); err == nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "sku_code already exists"})
		}
		v := entity.ProductVariation{
			ProductID:    id,
			SKUCode:      req.SKUCode,
			Attributes:   req.Attributes,
			StockLevel:   req.StockLevel,
			ReorderLevel: reorder,
		}
		if v.Attributes == nil {
			v.Attributes = datatypes.JSONMap{}
		}
		if err := variations.Create(ctx, &v); err != nil {
			return api.Error(c, err)
		}
		deps.InvalidateLowStock(ctx)
		return c.JSON(http.StatusCreated, v)
	})

	apiGroup.GET("/variations", func(c echo.Context) error {
		var productID uint64
		if s := c.QueryParam("product_id"); s != "" {
			var err error
			if productID, err = strconv.ParseUint(s, 10, 64); err != nil {
				return api.BadRequest(c, "invalid product_id")
			}
		}
		vs, err := variations.List(c.Request().Context(), uint(productID))
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, vs)
	})

	apiGroup.GET("/variations/:id", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		v, err := variations.GetVariation(c.Request().Context(), id)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, variationView{ProductVariation: *v, IsLowStock: v.IsLowStock()})
	})

	apiGroup.GET("/suppliers", func(c echo.Context) error {
		ss, err := suppliers.List(c.Request().Context())
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, ss)
	})

	apiGroup.POST("/suppliers", func(c echo.Context) error {
		var req supplierRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return api.BadRequest(c, "name is required")
		}
		s := entity.Supplier{Name: req.Name, Email: req.Email, Phone: req.Phone}
		if err := suppliers.Create(c.Request().Context(), &s); err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusCreated, s)
	})
}
