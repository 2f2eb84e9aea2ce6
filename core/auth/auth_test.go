package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inventory.GO/config"
	"inventory.GO/core/auth"
	"inventory.GO/model/entity"
	"inventory.GO/model/testdb"
)

func newEcho(db *gorm.DB, cfg *config.Config) *echo.Echo {
	e := echo.New()
	g := e.Group("/api")
	g.Use(auth.Middleware(db, cfg))
	g.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	g.GET("/whoami", func(c echo.Context) error {
		p, _ := auth.FromContext(c)
		return c.JSON(http.StatusOK, p)
	})
	g.GET("/staff", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, auth.RequireStaff())
	return e
}

func get(e *echo.Echo, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedUser(t *testing.T, db *gorm.DB, name, password string, staff bool) *entity.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := entity.User{Username: name, PasswordHash: hash, IsStaff: staff, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func TestBasic(t *testing.T) {
	db := testdb.Open(t)
	seedUser(t, db, "pat", "hunter2", false)
	e := newEcho(db, &config.Config{AuthType: "basic", APIUser: "admin", APIPass: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_staff":true`)

	req = httptest.NewRequest(http.MethodGet, "/api/staff", nil)
	req.SetBasicAuth("pat", "hunter2")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.SetBasicAuth("pat", "wrong")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, http.StatusOK, get(e, "/api/health").Code, "health is skipped")
	assert.Equal(t, http.StatusUnauthorized, get(e, "/api/whoami").Code)
}

func TestKey(t *testing.T) {
	db := testdb.Open(t)
	e := newEcho(db, &config.Config{AuthType: "key", APIKey: "k-123"})

	assert.Equal(t, http.StatusOK, get(e, "/api/staff", echo.HeaderAuthorization, "Bearer k-123").Code)
	assert.Equal(t, http.StatusUnauthorized, get(e, "/api/staff", echo.HeaderAuthorization, "Bearer nope").Code)
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusUnauthorized}, get(e, "/api/staff").Code, "missing key")
}

func TestKey_EmptyKeyRejectsEverything(t *testing.T) {
	db := testdb.Open(t)
	e := newEcho(db, &config.Config{AuthType: "key"})
	assert.Equal(t, http.StatusUnauthorized, get(e, "/api/whoami", echo.HeaderAuthorization, "Bearer anything").Code)
}

func TestToken(t *testing.T) {
	db := testdb.Open(t)
	u := seedUser(t, db, "robin", "pw", false)
	require.NoError(t, db.Create(&entity.APIToken{UserID: u.ID, Token: "tok-live"}).Error)
	require.NoError(t, db.Create(&entity.APIToken{UserID: u.ID, Token: "tok-dead", Revoked: true}).Error)
	e := newEcho(db, &config.Config{AuthType: "token", APIKey: "static"})

	rec := get(e, "/api/whoami", echo.HeaderAuthorization, "Bearer tok-live")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"robin"`)
	assert.Contains(t, rec.Body.String(), `"auth_type":"token"`)

	assert.Equal(t, http.StatusUnauthorized, get(e, "/api/whoami", echo.HeaderAuthorization, "Bearer tok-dead").Code)
	assert.Equal(t, http.StatusOK, get(e, "/api/staff", echo.HeaderAuthorization, "Bearer static").Code)

	require.NoError(t, db.Model(u).Update("is_active", false).Error)
	assert.Equal(t, http.StatusUnauthorized, get(e, "/api/whoami", echo.HeaderAuthorization, "Bearer tok-live").Code)
}
