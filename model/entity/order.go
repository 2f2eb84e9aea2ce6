package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "Draft"
	PurchaseOrderSubmitted PurchaseOrderStatus = "Submitted"
	PurchaseOrderReceived  PurchaseOrderStatus = "Received"
)

func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case PurchaseOrderDraft, PurchaseOrderSubmitted, PurchaseOrderReceived:
		return true
	}
	return false
}

type PurchaseOrder struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	SupplierID uint                `gorm:"not null;index" json:"supplier"`
	Supplier   *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier_details,omitempty"`
	Status     PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'Draft'" json:"status"`
	Items      []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

type PurchaseOrderItem struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	PurchaseOrderID    uint              `gorm:"not null;index" json:"-"`
	ProductVariationID uint              `gorm:"not null;index" json:"product_variation"`
	ProductVariation   *ProductVariation `gorm:"foreignKey:ProductVariationID" json:"product_variation_details,omitempty"`
	QuantityOrdered    int               `gorm:"not null" json:"quantity_ordered"`
	CostPerUnit        decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"cost_per_unit"`
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

type SalesOrderStatus string

const (
	SalesOrderPending   SalesOrderStatus = "Pending"
	SalesOrderFulfilled SalesOrderStatus = "Fulfilled"
)

func (s SalesOrderStatus) Valid() bool {
	return s == SalesOrderPending || s == SalesOrderFulfilled
}

type SalesOrder struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	CustomerEmail string           `gorm:"type:varchar(254);not null" json:"customer_email"`
	Status        SalesOrderStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	Items         []SalesOrderItem `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (SalesOrder) TableName() string {
	return "sales_orders"
}

type SalesOrderItem struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	SalesOrderID       uint              `gorm:"not null;index" json:"-"`
	ProductVariationID uint              `gorm:"not null;index" json:"product_variation"`
	ProductVariation   *ProductVariation `gorm:"foreignKey:ProductVariationID" json:"product_variation_details,omitempty"`
	QuantitySold       int               `gorm:"not null" json:"quantity_sold"`
	SalePricePerUnit   decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"sale_price_per_unit"`
}

func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}
