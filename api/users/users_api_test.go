package users_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory.GO/api/apitest"
	"inventory.GO/api/users"
	"inventory.GO/model/entity"
)

type userBody struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	IsActive bool   `json:"is_active"`
	Groups   []struct {
		Name string `json:"name"`
	} `json:"groups"`
}

func TestUsers_CreateAndAuthenticate(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, users.RegisterUserRoutes)
	admin := apitest.Admin()

	g := entity.Group{Name: "Warehouse Manager"}
	require.NoError(t, deps.DB.Create(&g).Error)

	rec := apitest.Do(e, http.MethodPost, "/api/users", map[string]interface{}{
		"username": "dana",
		"email":    "dana@example.com",
		"password": "s3cret",
		"groups":   []uint{g.ID},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var u userBody
	apitest.Decode(t, rec, &u)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsStaff)
	require.Len(t, u.Groups, 1)
	assert.Equal(t, "Warehouse Manager", u.Groups[0].Name)
	assert.NotContains(t, rec.Body.String(), "s3cret")

	rec = apitest.Do(e, http.MethodPost, "/api/users", map[string]interface{}{
		"username": "dana", "password": "other",
	}, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	dana := apitest.BasicAuth("dana", "s3cret")
	rec = apitest.Do(e, http.MethodGet, "/api/users/me", nil, dana)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Principal struct {
			UserID   uint   `json:"user_id"`
			Username string `json:"username"`
		} `json:"principal"`
	}
	apitest.Decode(t, rec, &me)
	assert.Equal(t, u.ID, me.Principal.UserID)
	assert.Equal(t, "dana", me.Principal.Username)

	rec = apitest.Do(e, http.MethodGet, "/api/users", nil, dana)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = apitest.Do(e, http.MethodGet, "/api/users/me", nil, apitest.BasicAuth("dana", "nope"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsers_PatchPromotesAndDeactivates(t *testing.T) {
	e, _ := apitest.NewServer(t, nil, users.RegisterUserRoutes)
	admin := apitest.Admin()

	rec := apitest.Do(e, http.MethodPost, "/api/users", map[string]interface{}{
		"username": "lee", "password": "pw",
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	var u userBody
	apitest.Decode(t, rec, &u)
	path := fmt.Sprintf("/api/users/%d", u.ID)
	lee := apitest.BasicAuth("lee", "pw")

	rec = apitest.Do(e, http.MethodPatch, path, map[string]bool{"is_staff": true}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = apitest.Do(e, http.MethodGet, "/api/users", nil, lee)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = apitest.Do(e, http.MethodPatch, path, map[string]bool{"is_active": false}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = apitest.Do(e, http.MethodGet, "/api/users/me", nil, lee)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGroups(t *testing.T) {
	e, deps := apitest.NewServer(t, nil, users.RegisterUserRoutes)
	admin := apitest.Admin()

	p := entity.Permission{Name: "Can adjust stock", Codename: "adjust_stock"}
	require.NoError(t, deps.DB.Create(&p).Error)

	rec := apitest.Do(e, http.MethodPost, "/api/groups", map[string]interface{}{
		"name": "Auditors", "permissions": []uint{p.ID},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var g struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Permissions []struct {
			Codename string `json:"codename"`
		} `json:"permissions"`
	}
	apitest.Decode(t, rec, &g)
	require.Len(t, g.Permissions, 1)
	assert.Equal(t, "adjust_stock", g.Permissions[0].Codename)

	rec = apitest.Do(e, http.MethodPatch, fmt.Sprintf("/api/groups/%d", g.ID), map[string]interface{}{
		"permissions": []uint{},
	}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	apitest.Decode(t, rec, &g)
	assert.Equal(t, "Auditors", g.Name)
	assert.Empty(t, g.Permissions)

	rec = apitest.Do(e, http.MethodPost, "/api/groups", map[string]string{"name": ""}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
