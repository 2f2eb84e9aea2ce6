// Package apitest builds in-process servers for API package tests.
package apitest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory.GO/api"
	"inventory.GO/config"
	"inventory.GO/core/auth"
	"inventory.GO/core/cache"
	"inventory.GO/model/testdb"
	"inventory.GO/service"
	"inventory.GO/service/alert"
)

const (
	User = "admin"
	Pass = "secret"
)

// Config is the configuration test servers run with.
func Config() *config.Config {
	return &config.Config{
		AppName:          "inventory-test",
		AuthType:         "basic",
		APIUser:          User,
		APIPass:          Pass,
		LowStockGroup:    "Warehouse Manager",
		CronTimezone:     "UTC",
		AlertConcurrency: 2,
		LowStockCacheTTL: time.Minute,
		MailConfig:       config.MailConfig{Backend: "console", From: "noreply@inventory.com"},
	}
}

// NewServer mounts modules on an authenticated /api group over a fresh sqlite database.
// A nil cfg means Config().
func NewServer(t testing.TB, cfg *config.Config, modules ...api.ModuleFunc) (*echo.Echo, *api.Deps) {
	t.Helper()
	if cfg == nil {
		cfg = Config()
	}
	db := testdb.Open(t)
	logger := zap.NewNop()
	deps := &api.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Cache:    cache.NewMemory(),
		Services: service.New(db, cfg, &alert.LogMailer{From: cfg.From, Logger: logger}, logger),
	}

	e := echo.New()
	g := e.Group("/api")
	g.Use(auth.Middleware(db, cfg))
	for _, fn := range modules {
		fn(g, deps)
	}
	return e, deps
}

func BasicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

// Admin is the Authorization header of the configured API user.
func Admin() string {
	return BasicAuth(User, Pass)
}

// Do sends body as JSON (nil for none) with the given Authorization header.
func Do(e *echo.Echo, method, path string, body interface{}, authorization string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals the recorder body into v, failing the test on error.
func Decode(t testing.TB, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}
