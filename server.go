//go:build !cli

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"inventory.GO/api"
	_ "inventory.GO/api/catalog"
	_ "inventory.GO/api/graphql"
	_ "inventory.GO/api/order"
	_ "inventory.GO/api/realtime"
	_ "inventory.GO/api/stock"
	_ "inventory.GO/api/users"
	"inventory.GO/config"
	"inventory.GO/core/auth"
	"inventory.GO/core/cache"
	"inventory.GO/model/entity"
	"inventory.GO/service"
	"inventory.GO/service/alert"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	cfg := config.AppConfig

	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.InitRedis()
	if config.PingRedis(ctx) {
		logger.Info("Redis connection successful, caching in Redis")
	} else {
		logger.Info("Redis not configured or not reachable, caching in memory")
	}
	store := cache.New(config.RedisClient)

	db, err := config.NewDB()
	if err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}
	sqldb, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get DB instance", zap.Error(err))
	}
	if err := sqldb.PingContext(ctx); err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := entity.AutoMigrate(db); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	logger.Info("Database connection successful", zap.String("dialect", db.Dialector.Name()))

	mailer, err := alert.NewMailer(cfg.MailConfig, logger.Named("mail"))
	if err != nil {
		logger.Fatal("mailer", zap.Error(err))
	}
	deps := &api.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Cache:    store,
		Services: service.New(db, cfg, mailer, logger),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware(db, cfg))
	api.ApplyModules(apiGroup, deps)
	api.ApplyRoutes(e, deps)

	figure.NewFigure(cfg.AppName, "small", true).Print()
	fmt.Println()

	go func() {
		logger.Info("Server running", zap.String("port", cfg.Port), zap.String("auth", cfg.AuthType))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
