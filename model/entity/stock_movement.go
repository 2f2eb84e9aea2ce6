package entity

import "time"

// Reference types recorded on stock movements.
const (
	RefPurchaseOrder = "purchase_order"
	RefSalesOrder    = "sales_order"
	RefManual        = "manual"
)

// MovementRef ties a ledger mutation to whatever caused it.
type MovementRef struct {
	Type string
	ID   uint
	Note string
}

// StockMovement is an append-only audit row written with every stock mutation.
type StockMovement struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ProductVariationID uint      `gorm:"not null;index" json:"product_variation"`
	Delta              int       `gorm:"not null" json:"delta"`
	StockAfter         int       `gorm:"not null" json:"stock_after"`
	ReferenceType      string    `gorm:"type:varchar(32);not null;index:idx_movement_ref" json:"reference_type"`
	ReferenceID        uint      `gorm:"index:idx_movement_ref" json:"reference_id,omitempty"`
	Note               string    `gorm:"type:varchar(255)" json:"note,omitempty"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
