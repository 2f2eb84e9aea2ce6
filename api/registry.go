package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"inventory.GO/config"
	"inventory.GO/core/cache"
	"inventory.GO/core/registry"
	"inventory.GO/service"
)

// Deps is what route modules build their handlers from.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *zap.Logger
	Cache  cache.Store
	*service.Services
}

// ModuleFunc mounts handlers on the authenticated /api group.
type ModuleFunc func(g *echo.Group, deps *Deps)

// RouteFunc mounts handlers on the root Echo instance, outside /api auth.
type RouteFunc func(e *echo.Echo, deps *Deps)

// RegisterModule queues an /api module. Call from init(); panics after ApplyModules.
func RegisterModule(fn ModuleFunc) {
	registry.Append(registry.GlobalRegistry, registry.KeyRegistryAPI, fn)
}

// ApplyModules mounts every queued module on g and freezes the module list.
func ApplyModules(g *echo.Group, deps *Deps) {
	for _, fn := range registry.Items[ModuleFunc](registry.GlobalRegistry, registry.KeyRegistryAPI) {
		fn(g, deps)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryAPI)
}

// RegisterRoute queues a root-level route module. Call from init(); panics after ApplyRoutes.
func RegisterRoute(fn RouteFunc) {
	registry.Append(registry.GlobalRegistry, registry.KeyRegistryRoutes, fn)
}

// RegisterGET is shorthand for a single public GET route.
func RegisterGET(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *Deps) {
		e.GET(path, handler)
	})
}

// ApplyRoutes mounts every queued root-level module on e and freezes the list.
func ApplyRoutes(e *echo.Echo, deps *Deps) {
	for _, fn := range registry.Items[RouteFunc](registry.GlobalRegistry, registry.KeyRegistryRoutes) {
		fn(e, deps)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
}
