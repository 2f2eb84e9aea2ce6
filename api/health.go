package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func init() {
	RegisterModule(RegisterHealthRoutes)
}

// RegisterHealthRoutes adds GET /api/health, left open by the auth skipper.
func RegisterHealthRoutes(apiGroup *echo.Group, deps *Deps) {
	apiGroup.GET("/health", func(c echo.Context) error {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "down", "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
