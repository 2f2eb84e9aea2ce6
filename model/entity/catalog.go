package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Name        string             `gorm:"type:varchar(200);not null" json:"name"`
	Category    string             `gorm:"type:varchar(100);not null;default:'General'" json:"category"`
	Description string             `gorm:"type:text" json:"description"`
	Price       decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Variations  []ProductVariation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variations,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductVariation is a SKU. StockLevel is only ever mutated through the ledger.
type ProductVariation struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	ProductID    uint              `gorm:"not null;index" json:"product_id"`
	SKUCode      string            `gorm:"column:sku_code;type:varchar(100);not null;uniqueIndex" json:"sku_code"`
	Attributes   datatypes.JSONMap `json:"attributes"`
	StockLevel   int               `gorm:"not null;default:0" json:"stock_level"`
	ReorderLevel int               `gorm:"not null" json:"reorder_level"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (ProductVariation) TableName() string {
	return "product_variations"
}

// IsLowStock reports stock at or below the reorder threshold.
func (v ProductVariation) IsLowStock() bool {
	return v.StockLevel <= v.ReorderLevel
}

type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Email     string    `gorm:"type:varchar(254)" json:"email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
