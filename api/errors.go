package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory.GO/model/entity"
)

// Error writes err as a JSON error response with the matching status code.
func Error(c echo.Context, err error) error {
	var short *entity.InsufficientStockError
	switch {
	case errors.As(err, &short):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     short.Error(),
			"skus":      short.SKUs(),
			"shortages": short.Shortages,
		})
	case errors.Is(err, entity.ErrInsufficientStock), errors.Is(err, entity.ErrTransitionConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	zap.L().Error("request failed",
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.String("route", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// BadRequest writes a 400 with msg.
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// ParamID parses a positive numeric path parameter.
func ParamID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, c.Param(name))
	}
	return uint(id), nil
}
