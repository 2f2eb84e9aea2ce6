// Package order drives purchase and sales order status changes and the stock effects
// attached to them.
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"inventory.GO/model/entity"
	catalogRepo "inventory.GO/model/repository/catalog"
	orderRepo "inventory.GO/model/repository/order"
	"inventory.GO/service/ledger"
)

// ItemInput is one order line at creation time.
type ItemInput struct {
	VariationID uint
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Service runs every status change inside one transaction: the guarded status update and
// the ledger effect commit or roll back together.
type Service struct {
	db         *gorm.DB
	orders     *orderRepo.OrderRepository
	variations *catalogRepo.VariationRepository
	suppliers  *catalogRepo.SupplierRepository
	ledger     *ledger.Ledger
	logger     *zap.Logger
}

func NewService(db *gorm.DB, l *ledger.Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:         db,
		orders:     orderRepo.NewOrderRepository(db),
		variations: catalogRepo.NewVariationRepository(db),
		suppliers:  catalogRepo.NewSupplierRepository(db),
		ledger:     l,
		logger:     logger,
	}
}

func validateItems(items []ItemInput) error {
	for i, it := range items {
		if it.VariationID == 0 {
			return fmt.Errorf("item %d: product_variation is required: %w", i, entity.ErrInvalidQuantity)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity %d must be positive: %w", i, it.Quantity, entity.ErrInvalidQuantity)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("item %d: unit price %s must not be negative: %w", i, it.UnitPrice, entity.ErrInvalidQuantity)
		}
	}
	return nil
}

// requireVariations fails with entity.ErrNotFound on the first unknown variation.
func requireVariations(ctx context.Context, repo *catalogRepo.VariationRepository, items []ItemInput) error {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VariationID)
	}
	found, err := repo.GetVariations(ctx, ids, false)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return fmt.Errorf("variation %d: %w", id, entity.ErrNotFound)
		}
	}
	return nil
}

// --- purchase orders ---

// CreatePurchaseOrder stores a Draft order with its items.
func (s *Service) CreatePurchaseOrder(ctx context.Context, supplierID uint, items []ItemInput) (*entity.PurchaseOrder, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.suppliers.WithTx(tx).Get(ctx, supplierID); err != nil {
			return fmt.Errorf("supplier %d: %w", supplierID, err)
		}
		if err := requireVariations(ctx, s.variations.WithTx(tx), items); err != nil {
			return err
		}
		po := &entity.PurchaseOrder{SupplierID: supplierID, Status: entity.PurchaseOrderDraft}
		for _, it := range items {
			po.Items = append(po.Items, entity.PurchaseOrderItem{
				ProductVariationID: it.VariationID,
				QuantityOrdered:    it.Quantity,
				CostPerUnit:        it.UnitPrice,
			})
		}
		if err := s.orders.WithTx(tx).CreatePurchaseOrder(ctx, po); err != nil {
			return fmt.Errorf("create purchase order: %w", err)
		}
		id = po.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.orders.GetPurchaseOrder(ctx, id, false)
}

func (s *Service) GetPurchaseOrder(ctx context.Context, id uint) (*entity.PurchaseOrder, error) {
	return s.orders.GetPurchaseOrder(ctx, id, false)
}

func (s *Service) ListPurchaseOrders(ctx context.Context, status entity.PurchaseOrderStatus) ([]entity.PurchaseOrder, error) {
	return s.orders.ListPurchaseOrders(ctx, status)
}

// SetPurchaseOrderStatus moves the order along PurchaseFlow. Entering Received adds every
// item's quantity to stock exactly once; re-saving the current status changes nothing.
func (s *Service) SetPurchaseOrderStatus(ctx context.Context, id uint, to entity.PurchaseOrderStatus) (*entity.PurchaseOrder, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("purchase order status %q: %w", to, entity.ErrInvalidStatus)
	}
	var from entity.PurchaseOrderStatus
	var received int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		po, err := orders.GetPurchaseOrder(ctx, id, true)
		if err != nil {
			return err
		}
		from = po.Status
		change, err := PurchaseFlow.Check(from, to)
		if err != nil || !change {
			return err
		}
		ok, err := orders.UpdatePurchaseOrderStatus(ctx, id, from, to)
		if err != nil {
			return fmt.Errorf("update purchase order %d: %w", id, err)
		}
		if !ok {
			return entity.ErrTransitionConflict
		}
		if !PurchaseFlow.Fires(from, to) {
			return nil
		}

		l := s.ledger.WithStore(s.variations.WithTx(tx))
		ref := entity.MovementRef{Type: entity.RefPurchaseOrder, ID: po.ID}
		for _, item := range po.Items {
			if _, err := l.Increase(ctx, item.ProductVariationID, item.QuantityOrdered, ref); err != nil {
				return err
			}
			received += item.QuantityOrdered
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if from != to {
		s.logger.Info("purchase order status changed",
			zap.Uint("purchase_order_id", id),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Int("units_received", received),
		)
	}
	return s.orders.GetPurchaseOrder(ctx, id, false)
}

// --- sales orders ---

// CreateSalesOrder stores a Pending order with its items.
func (s *Service) CreateSalesOrder(ctx context.Context, customerEmail string, items []ItemInput) (*entity.SalesOrder, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVariations(ctx, s.variations.WithTx(tx), items); err != nil {
			return err
		}
		so := &entity.SalesOrder{CustomerEmail: customerEmail, Status: entity.SalesOrderPending}
		for _, it := range items {
			so.Items = append(so.Items, entity.SalesOrderItem{
				ProductVariationID: it.VariationID,
				QuantitySold:       it.Quantity,
				SalePricePerUnit:   it.UnitPrice,
			})
		}
		if err := s.orders.WithTx(tx).CreateSalesOrder(ctx, so); err != nil {
			return fmt.Errorf("create sales order: %w", err)
		}
		id = so.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.orders.GetSalesOrder(ctx, id, false)
}

func (s *Service) GetSalesOrder(ctx context.Context, id uint) (*entity.SalesOrder, error) {
	return s.orders.GetSalesOrder(ctx, id, false)
}

func (s *Service) ListSalesOrders(ctx context.Context, status entity.SalesOrderStatus) ([]entity.SalesOrder, error) {
	return s.orders.ListSalesOrders(ctx, status)
}

// SetSalesOrderStatus moves the order along SalesFlow. Entering Fulfilled first checks every
// item against current stock and rejects the whole order, naming each short SKU, before any
// decrement runs. A decrement that still loses a race rolls the transaction back.
func (s *Service) SetSalesOrderStatus(ctx context.Context, id uint, to entity.SalesOrderStatus) (*entity.SalesOrder, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("sales order status %q: %w", to, entity.ErrInvalidStatus)
	}
	var from entity.SalesOrderStatus
	var shipped int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		variations := s.variations.WithTx(tx)
		so, err := orders.GetSalesOrder(ctx, id, true)
		if err != nil {
			return err
		}
		from = so.Status
		change, err := SalesFlow.Check(from, to)
		if err != nil || !change {
			return err
		}

		fires := SalesFlow.Fires(from, to)
		var stock map[uint]entity.ProductVariation
		if fires {
			stock, err = checkStock(ctx, variations, so.Items)
			if err != nil {
				return err
			}
		}

		ok, err := orders.UpdateSalesOrderStatus(ctx, id, from, to)
		if err != nil {
			return fmt.Errorf("update sales order %d: %w", id, err)
		}
		if !ok {
			return entity.ErrTransitionConflict
		}
		if !fires {
			return nil
		}

		l := s.ledger.WithStore(variations)
		ref := entity.MovementRef{Type: entity.RefSalesOrder, ID: so.ID}
		for _, item := range so.Items {
			if _, err := l.Decrease(ctx, item.ProductVariationID, item.QuantitySold, ref); err != nil {
				if errors.Is(err, entity.ErrInsufficientStock) {
					return lostRace(ctx, variations, stock[item.ProductVariationID], item.QuantitySold)
				}
				return err
			}
			shipped += item.QuantitySold
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if from != to {
		s.logger.Info("sales order status changed",
			zap.Uint("sales_order_id", id),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Int("units_shipped", shipped),
		)
	}
	return s.orders.GetSalesOrder(ctx, id, false)
}

// checkStock is the validation pass. Lines for the same variation are summed so two lines
// cannot each pass against stock that only covers one of them.
func checkStock(ctx context.Context, variations *catalogRepo.VariationRepository, items []entity.SalesOrderItem) (map[uint]entity.ProductVariation, error) {
	need := make(map[uint]int, len(items))
	var ids []uint
	for _, item := range items {
		if _, seen := need[item.ProductVariationID]; !seen {
			ids = append(ids, item.ProductVariationID)
		}
		need[item.ProductVariationID] += item.QuantitySold
	}

	stock, err := variations.GetVariations(ctx, ids, true)
	if err != nil {
		return nil, err
	}
	var shortages []entity.Shortage
	for _, id := range ids {
		v, ok := stock[id]
		if !ok {
			return nil, fmt.Errorf("variation %d: %w", id, entity.ErrNotFound)
		}
		if v.StockLevel < need[id] {
			shortages = append(shortages, entity.Shortage{SKU: v.SKUCode, Requested: need[id], Available: v.StockLevel})
		}
	}
	if len(shortages) > 0 {
		return nil, &entity.InsufficientStockError{Shortages: shortages}
	}
	return stock, nil
}

func lostRace(ctx context.Context, variations *catalogRepo.VariationRepository, v entity.ProductVariation, requested int) error {
	available := v.StockLevel
	if cur, err := variations.GetVariation(ctx, v.ID); err == nil {
		available = cur.StockLevel
	}
	return &entity.InsufficientStockError{Shortages: []entity.Shortage{{SKU: v.SKUCode, Requested: requested, Available: available}}}
}
