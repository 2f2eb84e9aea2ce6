package order

import (
	"context"

	"gorm.io/gorm"

	"inventory.GO/model/entity"
	"inventory.GO/model/repository"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// --- purchase orders ---

// CreatePurchaseOrder inserts the order and its items in one statement batch.
func (r *OrderRepository) CreatePurchaseOrder(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

// GetPurchaseOrder loads an order with items. lock takes a row lock on the order for the
// rest of the enclosing transaction.
func (r *OrderRepository) GetPurchaseOrder(ctx context.Context, id uint, lock bool) (*entity.PurchaseOrder, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = repository.ForUpdate(q)
	}
	var po entity.PurchaseOrder
	err := q.Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.ProductVariation").
		First(&po, id).Error
	if err != nil {
		return nil, repository.NotFound(err)
	}
	return &po, nil
}

func (r *OrderRepository) ListPurchaseOrders(ctx context.Context, status entity.PurchaseOrderStatus) ([]entity.PurchaseOrder, error) {
	q := r.db.WithContext(ctx).Preload("Items").Order("id")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var pos []entity.PurchaseOrder
	err := q.Find(&pos).Error
	return pos, err
}

// UpdatePurchaseOrderStatus moves the order from -> to and reports whether this call made
// the change. A false result means the row no longer holds from.
func (r *OrderRepository) UpdatePurchaseOrderStatus(ctx context.Context, id uint, from, to entity.PurchaseOrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

// --- sales orders ---

func (r *OrderRepository) CreateSalesOrder(ctx context.Context, so *entity.SalesOrder) error {
	return r.db.WithContext(ctx).Create(so).Error
}

func (r *OrderRepository) GetSalesOrder(ctx context.Context, id uint, lock bool) (*entity.SalesOrder, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = repository.ForUpdate(q)
	}
	var so entity.SalesOrder
	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.ProductVariation").
		First(&so, id).Error
	if err != nil {
		return nil, repository.NotFound(err)
	}
	return &so, nil
}

func (r *OrderRepository) ListSalesOrders(ctx context.Context, status entity.SalesOrderStatus) ([]entity.SalesOrder, error) {
	q := r.db.WithContext(ctx).Preload("Items").Order("id")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var sos []entity.SalesOrder
	err := q.Find(&sos).Error
	return sos, err
}

func (r *OrderRepository) UpdateSalesOrderStatus(ctx context.Context, id uint, from, to entity.SalesOrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.SalesOrder{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}
