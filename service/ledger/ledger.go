// Package ledger owns every stock-level mutation and low-stock classification.
package ledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"inventory.GO/model/entity"
)

// Store is the persistence the ledger needs. AdjustStock must apply delta atomically and
// refuse, with entity.ErrInsufficientStock, any delta that would leave stock below zero.
type Store interface {
	AdjustStock(ctx context.Context, variationID uint, delta int, ref entity.MovementRef) (int, error)
	ListLowStock(ctx context.Context) ([]entity.ProductVariation, error)
	CountVariations(ctx context.Context) (int64, error)
}

type Ledger struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{store: store, logger: logger}
}

// WithStore returns a ledger writing through store, typically one bound to a transaction.
func (l *Ledger) WithStore(store Store) *Ledger {
	return &Ledger{store: store, logger: l.logger}
}

// Increase adds amount to the variation's stock and returns the new level.
func (l *Ledger) Increase(ctx context.Context, variationID uint, amount int, ref entity.MovementRef) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("increase by %d: %w", amount, entity.ErrInvalidQuantity)
	}
	level, err := l.store.AdjustStock(ctx, variationID, amount, ref)
	if err != nil {
		return 0, fmt.Errorf("increase variation %d: %w", variationID, err)
	}
	l.logger.Debug("stock increased",
		zap.Uint("variation_id", variationID),
		zap.Int("amount", amount),
		zap.Int("stock_level", level),
		zap.String("ref", ref.Type),
		zap.Uint("ref_id", ref.ID),
	)
	return level, nil
}

// Decrease subtracts amount. When stock cannot cover it the level is left untouched and
// the error matches entity.ErrInsufficientStock.
func (l *Ledger) Decrease(ctx context.Context, variationID uint, amount int, ref entity.MovementRef) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("decrease by %d: %w", amount, entity.ErrInvalidQuantity)
	}
	level, err := l.store.AdjustStock(ctx, variationID, -amount, ref)
	if err != nil {
		return 0, fmt.Errorf("decrease variation %d: %w", variationID, err)
	}
	l.logger.Debug("stock decreased",
		zap.Uint("variation_id", variationID),
		zap.Int("amount", amount),
		zap.Int("stock_level", level),
		zap.String("ref", ref.Type),
		zap.Uint("ref_id", ref.ID),
	)
	return level, nil
}

// Adjust applies a signed manual correction.
func (l *Ledger) Adjust(ctx context.Context, variationID uint, delta int, note string) (int, error) {
	ref := entity.MovementRef{Type: entity.RefManual, Note: note}
	switch {
	case delta > 0:
		return l.Increase(ctx, variationID, delta, ref)
	case delta < 0:
		return l.Decrease(ctx, variationID, -delta, ref)
	}
	return 0, fmt.Errorf("adjust by 0: %w", entity.ErrInvalidQuantity)
}

// ScanLowStock is a snapshot read of variations with stock_level <= reorder_level.
func (l *Ledger) ScanLowStock(ctx context.Context) ([]entity.ProductVariation, error) {
	vs, err := l.store.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan low stock: %w", err)
	}
	return vs, nil
}

// Count returns how many variations a scan covers.
func (l *Ledger) Count(ctx context.Context) (int64, error) {
	return l.store.CountVariations(ctx)
}
