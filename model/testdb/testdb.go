// Package testdb opens throwaway sqlite databases for package tests.
package testdb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inventory.GO/config"
	"inventory.GO/model/entity"
)

// Open returns a migrated sqlite database in a temp file removed at test cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("inventory_test_%s_%d.db", name, time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(config.SQLiteDSN(tmpFile)), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
		os.Remove(tmpFile)
		os.Remove(tmpFile + "-wal")
		os.Remove(tmpFile + "-shm")
	})
	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Variation seeds a product with one variation.
func Variation(t testing.TB, db *gorm.DB, sku string, stock, reorder int) *entity.ProductVariation {
	t.Helper()
	p := entity.Product{Name: "Product " + sku, Description: "test"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	v := entity.ProductVariation{ProductID: p.ID, SKUCode: sku, StockLevel: stock, ReorderLevel: reorder}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("seed variation: %v", err)
	}
	return &v
}

// Supplier seeds a supplier.
func Supplier(t testing.TB, db *gorm.DB, name string) *entity.Supplier {
	t.Helper()
	s := entity.Supplier{Name: name, Email: "orders@" + strings.ToLower(name) + ".test"}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return &s
}

// StockLevel reads the current level straight from the table.
func StockLevel(t testing.TB, db *gorm.DB, id uint) int {
	t.Helper()
	var v entity.ProductVariation
	if err := db.First(&v, id).Error; err != nil {
		t.Fatalf("read variation %d: %v", id, err)
	}
	return v.StockLevel
}
