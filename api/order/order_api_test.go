package order_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory.GO/api/apitest"
	"inventory.GO/api/order"
	"inventory.GO/api/stock"
	"inventory.GO/model/testdb"
)

type orderBody struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

func TestOrders_RestockThenOversell(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, order.RegisterOrderRoutes, stock.RegisterStockRoutes)
	admin := apitest.Admin()
	v := testdb.Variation(t, deps.DB, "TEE-RED-M", 5, 10)
	s := testdb.Supplier(t, deps.DB, "Acme")

	var low stock.LowStockReport
	rec := apitest.Do(e, http.MethodGet, "/api/stock/low", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	apitest.Decode(t, rec, &low)
	require.Equal(t, 1, low.Count)

	rec = apitest.Do(e, http.MethodPost, "/api/purchase-orders", map[string]interface{}{
		"supplier": s.ID,
		"items":    []map[string]interface{}{{"product_variation": v.ID, "quantity_ordered": 20, "cost_per_unit": "4.50"}},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var po orderBody
	apitest.Decode(t, rec, &po)
	assert.Equal(t, "Draft", po.Status)

	poPath := fmt.Sprintf("/api/purchase-orders/%d", po.ID)
	rec = apitest.Do(e, http.MethodPatch, poPath, map[string]string{"status": "Received"}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 25, testdb.StockLevel(t, deps.DB, v.ID))

	// a second Received is a no-op
	rec = apitest.Do(e, http.MethodPatch, poPath, map[string]string{"status": "Received"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, testdb.StockLevel(t, deps.DB, v.ID))

	rec = apitest.Do(e, http.MethodGet, "/api/stock/low", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	apitest.Decode(t, rec, &low)
	assert.Equal(t, 0, low.Count)

	rec = apitest.Do(e, http.MethodPost, "/api/sales-orders", map[string]interface{}{
		"customer_email": "buyer@example.com",
		"items":          []map[string]interface{}{{"product_variation": v.ID, "quantity_sold": 30, "sale_price_per_unit": "12.00"}},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var so orderBody
	apitest.Decode(t, rec, &so)
	assert.Equal(t, "Pending", so.Status)

	rec = apitest.Do(e, http.MethodPatch, fmt.Sprintf("/api/sales-orders/%d", so.ID), map[string]string{"status": "Fulfilled"}, admin)
	require.Equal(t, http.StatusConflict, rec.Code)
	var conflict struct {
		Error string   `json:"error"`
		SKUs  []string `json:"skus"`
	}
	apitest.Decode(t, rec, &conflict)
	assert.Equal(t, "Insufficient stock for TEE-RED-M", conflict.Error)
	assert.Equal(t, []string{"TEE-RED-M"}, conflict.SKUs)
	assert.Equal(t, 25, testdb.StockLevel(t, deps.DB, v.ID))

	rec = apitest.Do(e, http.MethodGet, fmt.Sprintf("/api/sales-orders/%d", so.ID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	apitest.Decode(t, rec, &so)
	assert.Equal(t, "Pending", so.Status)
}

func TestOrders_StatusErrors(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, order.RegisterOrderRoutes)
	admin := apitest.Admin()
	v := testdb.Variation(t, deps.DB, "MUG-01", 3, 1)

	rec := apitest.Do(e, http.MethodPost, "/api/sales-orders", map[string]interface{}{
		"customer_email": "a@b.test",
		"items":          []map[string]interface{}{{"product_variation": v.ID, "quantity_sold": 1, "sale_price_per_unit": "5"}},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	var so orderBody
	apitest.Decode(t, rec, &so)
	path := fmt.Sprintf("/api/sales-orders/%d", so.ID)

	rec = apitest.Do(e, http.MethodPatch, path, map[string]string{"status": "Shipped"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = apitest.Do(e, http.MethodPatch, path, map[string]string{"status": "Fulfilled"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, testdb.StockLevel(t, deps.DB, v.ID))

	rec = apitest.Do(e, http.MethodPatch, path, map[string]string{"status": "Pending"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = apitest.Do(e, http.MethodPatch, "/api/sales-orders/999", map[string]string{"status": "Fulfilled"}, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = apitest.Do(e, http.MethodGet, "/api/sales-orders?status=Fulfilled", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []orderBody
	apitest.Decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, so.ID, list[0].ID)
}

func TestOrders_CreateValidation(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, order.RegisterOrderRoutes)
	admin := apitest.Admin()
	v := testdb.Variation(t, deps.DB, "PEN-01", 3, 1)
	s := testdb.Supplier(t, deps.DB, "Pens")

	tests := []struct {
		name string
		path string
		body map[string]interface{}
		want int
	}{
		{"missing supplier", "/api/purchase-orders", map[string]interface{}{
			"items": []map[string]interface{}{{"product_variation": v.ID, "quantity_ordered": 1}},
		}, http.StatusBadRequest},
		{"unknown supplier", "/api/purchase-orders", map[string]interface{}{
			"supplier": 77,
			"items":    []map[string]interface{}{{"product_variation": v.ID, "quantity_ordered": 1}},
		}, http.StatusNotFound},
		{"zero quantity", "/api/purchase-orders", map[string]interface{}{
			"supplier": s.ID,
			"items":    []map[string]interface{}{{"product_variation": v.ID, "quantity_ordered": 0}},
		}, http.StatusBadRequest},
		{"unknown variation", "/api/sales-orders", map[string]interface{}{
			"customer_email": "a@b.test",
			"items":          []map[string]interface{}{{"product_variation": 404, "quantity_sold": 1}},
		}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := apitest.Do(e, http.MethodPost, tt.path, tt.body, admin)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}
