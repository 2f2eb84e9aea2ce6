package stock_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory.GO/api/apitest"
	"inventory.GO/api/stock"
	"inventory.GO/core/auth"
	"inventory.GO/model/entity"
	"inventory.GO/model/testdb"
)

func TestLowStock_CachedUntilStockChanges(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, stock.RegisterStockRoutes)
	admin := apitest.Admin()
	low := testdb.Variation(t, deps.DB, "LOW-1", 2, 5)
	testdb.Variation(t, deps.DB, "OK-1", 50, 5)
	testdb.Variation(t, deps.DB, "EDGE-1", 5, 5)

	rec := apitest.Do(e, http.MethodGet, "/api/stock/low", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	var report stock.LowStockReport
	apitest.Decode(t, rec, &report)
	assert.Equal(t, 2, report.Count)

	rec = apitest.Do(e, http.MethodGet, "/api/stock/low", nil, admin)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = apitest.Do(e, http.MethodPost, fmt.Sprintf("/api/variations/%d/adjust", low.ID), map[string]interface{}{
		"delta": 10, "note": "cycle count",
	}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var adjusted struct {
		StockLevel int `json:"stock_level"`
	}
	apitest.Decode(t, rec, &adjusted)
	assert.Equal(t, 12, adjusted.StockLevel)

	rec = apitest.Do(e, http.MethodGet, "/api/stock/low", nil, admin)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	report = stock.LowStockReport{}
	apitest.Decode(t, rec, &report)
	require.Equal(t, 1, report.Count)
	assert.Equal(t, "EDGE-1", report.Items[0].SKUCode)
}

func TestAdjust_Rules(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, stock.RegisterStockRoutes)
	admin := apitest.Admin()
	v := testdb.Variation(t, deps.DB, "ADJ-1", 3, 1)
	path := fmt.Sprintf("/api/variations/%d/adjust", v.ID)

	rec := apitest.Do(e, http.MethodPost, path, map[string]int{"delta": -4}, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 3, testdb.StockLevel(t, deps.DB, v.ID))

	rec = apitest.Do(e, http.MethodPost, path, map[string]int{"delta": 0}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = apitest.Do(e, http.MethodPost, "/api/variations/999/adjust", map[string]int{"delta": 1}, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = apitest.Do(e, http.MethodPost, path, map[string]interface{}{"delta": -3, "note": "damaged"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, testdb.StockLevel(t, deps.DB, v.ID))

	rec = apitest.Do(e, http.MethodGet, path[:len(path)-len("adjust")]+"movements", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var ms []entity.StockMovement
	apitest.Decode(t, rec, &ms)
	require.Len(t, ms, 1)
	assert.Equal(t, -3, ms[0].Delta)
	assert.Equal(t, 0, ms[0].StockAfter)
	assert.Equal(t, entity.RefManual, ms[0].ReferenceType)
	assert.Equal(t, "damaged", ms[0].Note)
}

func TestStaffOnlyRoutes(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, stock.RegisterStockRoutes)
	v := testdb.Variation(t, deps.DB, "STAFF-1", 3, 1)

	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, deps.DB.Create(&entity.User{Username: "clerk", PasswordHash: hash, IsActive: true}).Error)
	clerk := apitest.BasicAuth("clerk", "pw")

	rec := apitest.Do(e, http.MethodGet, "/api/stock/low", nil, clerk)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = apitest.Do(e, http.MethodPost, "/api/stock/check", nil, clerk)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = apitest.Do(e, http.MethodPost, fmt.Sprintf("/api/variations/%d/adjust", v.ID), map[string]int{"delta": 1}, clerk)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 3, testdb.StockLevel(t, deps.DB, v.ID))
}

func TestStockCheck_RunsNotifier(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, stock.RegisterStockRoutes)
	testdb.Variation(t, deps.DB, "CHK-1", 1, 5)
	testdb.Variation(t, deps.DB, "CHK-2", 9, 5)

	rec := apitest.Do(e, http.MethodPost, "/api/stock/check", nil, apitest.Admin())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		RunID   string `json:"run_id"`
		Scanned int64  `json:"scanned"`
		Flagged int    `json:"flagged"`
		Message string `json:"message"`
	}
	apitest.Decode(t, rec, &body)
	assert.NotEmpty(t, body.RunID)
	assert.Equal(t, int64(2), body.Scanned)
	assert.Equal(t, 1, body.Flagged)
	assert.Equal(t, "Checked 2 items, 1 low stock", body.Message)
}
