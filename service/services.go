// Package service assembles the domain services shared by the HTTP server and the CLI.
package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"inventory.GO/config"
	catalogRepo "inventory.GO/model/repository/catalog"
	userRepo "inventory.GO/model/repository/user"
	"inventory.GO/service/alert"
	"inventory.GO/service/ledger"
	"inventory.GO/service/order"
)

type Services struct {
	Ledger   *ledger.Ledger
	Orders   *order.Service
	Notifier *alert.Notifier
}

func New(db *gorm.DB, cfg *config.Config, mailer alert.Mailer, logger *zap.Logger) *Services {
	led := ledger.New(catalogRepo.NewVariationRepository(db), logger.Named("ledger"))
	return &Services{
		Ledger: led,
		Orders: order.NewService(db, led, logger.Named("orders")),
		Notifier: alert.NewNotifier(
			led,
			userRepo.NewUserRepository(db),
			mailer,
			cfg.LowStockGroup,
			cfg.AlertConcurrency,
			logger.Named("alert"),
		),
	}
}
