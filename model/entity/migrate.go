package entity

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Product{},
		&ProductVariation{},
		&Supplier{},
		&PurchaseOrder{},
		&PurchaseOrderItem{},
		&SalesOrder{},
		&SalesOrderItem{},
		&StockMovement{},
		&Permission{},
		&Group{},
		&User{},
		&APIToken{},
	)
}
