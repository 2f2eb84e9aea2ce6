package order

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"inventory.GO/api"
	"inventory.GO/model/entity"
	orderService "inventory.GO/service/order"
)

func init() {
	api.RegisterModule(RegisterOrderRoutes)
}

type purchaseItemRequest struct {
	ProductVariation uint            `json:"product_variation"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	CostPerUnit      decimal.Decimal `json:"cost_per_unit"`
}

type purchaseOrderRequest struct {
	Supplier uint                  `json:"supplier"`
	Items    []purchaseItemRequest `json:"items"`
}

type salesItemRequest struct {
	ProductVariation uint            `json:"product_variation"`
	QuantitySold     int             `json:"quantity_sold"`
	SalePricePerUnit decimal.Decimal `json:"sale_price_per_unit"`
}

type salesOrderRequest struct {
	CustomerEmail string             `json:"customer_email"`
	Items         []salesItemRequest `json:"items"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func RegisterOrderRoutes(apiGroup *echo.Group, deps *api.Deps) {
	orders := deps.Orders

	po := apiGroup.Group("/purchase-orders")

	po.GET("", func(c echo.Context) error {
		list, err := orders.ListPurchaseOrders(c.Request().Context(), entity.PurchaseOrderStatus(c.QueryParam("status")))
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	po.POST("", func(c echo.Context) error {
		var req purchaseOrderRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		if req.Supplier == 0 {
			return api.BadRequest(c, "supplier is required")
		}
		items := make([]orderService.ItemInput, len(req.Items))
		for i, it := range req.Items {
			items[i] = orderService.ItemInput{VariationID: it.ProductVariation, Quantity: it.QuantityOrdered, UnitPrice: it.CostPerUnit}
		}
		created, err := orders.CreatePurchaseOrder(c.Request().Context(), req.Supplier, items)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusCreated, created)
	})

	po.GET("/:id", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		o, err := orders.GetPurchaseOrder(c.Request().Context(), id)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, o)
	})

	po.PATCH("/:id", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		var req statusRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		ctx := c.Request().Context()
		o, err := orders.SetPurchaseOrderStatus(ctx, id, entity.PurchaseOrderStatus(req.Status))
		if err != nil {
			return api.Error(c, err)
		}
		deps.InvalidateLowStock(ctx)
		return c.JSON(http.StatusOK, o)
	})

	so := apiGroup.Group("/sales-orders")

	so.GET("", func(c echo.Context) error {
		list, err := orders.ListSalesOrders(c.Request().Context(), entity.SalesOrderStatus(c.QueryParam("status")))
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	so.POST("", func(c echo.Context) error {
		var req salesOrderRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		items := make([]orderService.ItemInput, len(req.Items))
		for i, it := range req.Items {
			items[i] = orderService.ItemInput{VariationID: it.ProductVariation, Quantity: it.QuantitySold, UnitPrice: it.SalePricePerUnit}
		}
		created, err := orders.CreateSalesOrder(c.Request().Context(), req.CustomerEmail, items)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusCreated, created)
	})

	so.GET("/:id", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		o, err := orders.GetSalesOrder(c.Request().Context(), id)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, o)
	})

	so.PATCH("/:id", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		var req statusRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		ctx := c.Request().Context()
		o, err := orders.SetSalesOrderStatus(ctx, id, entity.SalesOrderStatus(req.Status))
		if err != nil {
			return api.Error(c, err)
		}
		deps.InvalidateLowStock(ctx)
		return c.JSON(http.StatusOK, o)
	})
}
