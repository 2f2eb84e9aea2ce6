package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"inventory.GO/config"
	"inventory.GO/model/entity"
	"inventory.GO/service"
	"inventory.GO/service/alert"
)

// app is what a command needs to touch the database and services.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	logger   *zap.Logger
	services *service.Services
}

func newApp() (*app, error) {
	config.LoadAppConfig()
	cfg := config.AppConfig
	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	db, err := config.NewDB()
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	mailer, err := alert.NewMailer(cfg.MailConfig, logger.Named("mail"))
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		db:       db,
		logger:   logger,
		services: service.New(db, cfg, mailer, logger),
	}, nil
}

func (a *app) migrate(ctx context.Context) error {
	if err := entity.AutoMigrate(a.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (a *app) close() {
	_ = a.logger.Sync()
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}
