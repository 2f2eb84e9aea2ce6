package graphql_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory.GO/api/apitest"
	apigraphql "inventory.GO/api/graphql"
	"inventory.GO/model/entity"
	"inventory.GO/model/testdb"
	orderService "inventory.GO/service/order"
)

type gqlResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func TestGraphQL_VariationWithMovements(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, apigraphql.RegisterGraphQLRoutes)
	v := testdb.Variation(t, deps.DB, "GQL-1", 4, 5)
	_, err := deps.Ledger.Adjust(context.Background(), v.ID, 3, "recount")
	require.NoError(t, err)

	rec := apitest.Do(e, http.MethodPost, "/api/graphql", map[string]string{
		"query": `{ variation(sku: "GQL-1") { sku stockLevel isLowStock movements { delta stockAfter referenceType note } } lowStock { sku } }`,
	}, apitest.Admin())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp gqlResponse
	apitest.Decode(t, rec, &resp)
	require.Empty(t, resp.Errors)

	got := resp.Data["variation"].(map[string]interface{})
	assert.Equal(t, "GQL-1", got["sku"])
	assert.EqualValues(t, 7, got["stockLevel"])
	assert.Equal(t, false, got["isLowStock"])
	ms := got["movements"].([]interface{})
	require.Len(t, ms, 1)
	m := ms[0].(map[string]interface{})
	assert.EqualValues(t, 3, m["delta"])
	assert.EqualValues(t, 7, m["stockAfter"])
	assert.Equal(t, entity.RefManual, m["referenceType"])
	assert.Equal(t, "recount", m["note"])
	assert.Empty(t, resp.Data["lowStock"])
}

func TestGraphQL_Orders(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, apigraphql.RegisterGraphQLRoutes)
	v := testdb.Variation(t, deps.DB, "GQL-PO", 0, 5)
	s := testdb.Supplier(t, deps.DB, "Globex")
	po, err := deps.Orders.CreatePurchaseOrder(context.Background(), s.ID, []orderService.ItemInput{
		{VariationID: v.ID, Quantity: 12, UnitPrice: decimal.RequireFromString("2.5")},
	})
	require.NoError(t, err)

	rec := apitest.Do(e, http.MethodPost, "/api/graphql", map[string]string{
		"query": fmt.Sprintf(`{ purchaseOrder(id: "%d") { status supplier items { sku quantity unitPrice } } salesOrder(id: "999") { id } }`, po.ID),
	}, apitest.Admin())
	require.Equal(t, http.StatusOK, rec.Code)
	var resp gqlResponse
	apitest.Decode(t, rec, &resp)
	require.Empty(t, resp.Errors)

	got := resp.Data["purchaseOrder"].(map[string]interface{})
	assert.Equal(t, "Draft", got["status"])
	assert.Equal(t, "Globex", got["supplier"])
	items := got["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "GQL-PO", item["sku"])
	assert.EqualValues(t, 12, item["quantity"])
	assert.Equal(t, "2.50", item["unitPrice"])
	assert.Nil(t, resp.Data["salesOrder"])
}

func TestGraphQL_RequiresCredentials(t *testing.T) {
	e, _ := apitest.NewServer(t, nil, apigraphql.RegisterGraphQLRoutes)
	rec := apitest.Do(e, http.MethodPost, "/api/graphql", map[string]string{"query": "{ lowStock { sku } }"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
