package catalog_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory.GO/api/apitest"
	"inventory.GO/api/catalog"
)

func TestCatalog_ProductAndVariationLifecycle(t *testing.T) {
	e, _ := apitest.NewServer(t, nil, catalog.RegisterCatalogRoutes)
	admin := apitest.Admin()

	rec := apitest.Do(e, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Hoodie", "price": "39.90",
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product struct {
		ID       uint   `json:"id"`
		Category string `json:"category"`
	}
	apitest.Decode(t, rec, &product)
	assert.Equal(t, "General", product.Category)

	path := "/api/products/" + itoa(product.ID) + "/variations"
	rec = apitest.Do(e, http.MethodPost, path, map[string]interface{}{
		"sku_code":   "HOOD-M",
		"attributes": map[string]string{"size": "M"},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var v struct {
		ID           uint `json:"id"`
		StockLevel   int  `json:"stock_level"`
		ReorderLevel int  `json:"reorder_level"`
	}
	apitest.Decode(t, rec, &v)
	assert.Equal(t, 0, v.StockLevel)
	assert.Equal(t, catalog.DefaultReorderLevel, v.ReorderLevel)

	rec = apitest.Do(e, http.MethodPost, path, map[string]interface{}{"sku_code": "HOOD-M"}, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = apitest.Do(e, http.MethodGet, "/api/variations/"+itoa(v.ID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		SKUCode    string `json:"sku_code"`
		IsLowStock bool   `json:"is_low_stock"`
	}
	apitest.Decode(t, rec, &view)
	assert.Equal(t, "HOOD-M", view.SKUCode)
	assert.True(t, view.IsLowStock)

	rec = apitest.Do(e, http.MethodGet, "/api/variations?product_id="+itoa(product.ID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	apitest.Decode(t, rec, &list)
	assert.Len(t, list, 1)
}

func TestCatalog_Validation(t *testing.T) {
	e, _ := apitest.NewServer(t, nil, catalog.RegisterCatalogRoutes)
	admin := apitest.Admin()

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"product without name", http.MethodPost, "/api/products", map[string]string{"name": " "}, http.StatusBadRequest},
		{"negative price", http.MethodPost, "/api/products", map[string]string{"name": "x", "price": "-1"}, http.StatusBadRequest},
		{"variation of missing product", http.MethodPost, "/api/products/99/variations", map[string]string{"sku_code": "A"}, http.StatusNotFound},
		{"bad product id", http.MethodGet, "/api/products/abc", nil, http.StatusBadRequest},
		{"unknown variation", http.MethodGet, "/api/variations/42", nil, http.StatusNotFound},
		{"supplier without name", http.MethodPost, "/api/suppliers", map[string]string{"email": "a@b.c"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := apitest.Do(e, tt.method, tt.path, tt.body, admin)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCatalog_RequiresCredentials(t *testing.T) {
	e, _ := apitest.NewServer(t, nil, catalog.RegisterCatalogRoutes)

	rec := apitest.Do(e, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = apitest.Do(e, http.MethodGet, "/api/products", nil, apitest.BasicAuth("admin", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalog_Suppliers(t *testing.T) {
	e, _ := apitest.NewServer(t, nil, catalog.RegisterCatalogRoutes)
	admin := apitest.Admin()

	rec := apitest.Do(e, http.MethodPost, "/api/suppliers", map[string]string{"name": "Acme", "email": "sales@acme.test"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = apitest.Do(e, http.MethodGet, "/api/suppliers", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var ss []struct {
		Name string `json:"name"`
	}
	apitest.Decode(t, rec, &ss)
	require.Len(t, ss, 1)
	assert.Equal(t, "Acme", ss[0].Name)
}
