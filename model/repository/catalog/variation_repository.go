package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"inventory.GO/model/entity"
	"inventory.GO/model/repository"
)

// VariationRepository is the catalog store behind the inventory ledger.
// Every stock change is a single relative UPDATE; stock is never written back from memory.
type VariationRepository struct {
	db *gorm.DB
}

func NewVariationRepository(db *gorm.DB) *VariationRepository {
	return &VariationRepository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *VariationRepository) WithTx(tx *gorm.DB) *VariationRepository {
	return &VariationRepository{db: tx}
}

func (r *VariationRepository) GetVariation(ctx context.Context, id uint) (*entity.ProductVariation, error) {
	var v entity.ProductVariation
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, repository.NotFound(err)
	}
	return &v, nil
}

// GetVariations loads the given ids keyed by id. Missing ids are simply absent.
func (r *VariationRepository) GetVariations(ctx context.Context, ids []uint, lock bool) (map[uint]entity.ProductVariation, error) {
	out := make(map[uint]entity.ProductVariation, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := r.db.WithContext(ctx)
	if lock {
		q = repository.ForUpdate(q)
	}
	var vs []entity.ProductVariation
	if err := q.Where("id IN ?", ids).Find(&vs).Error; err != nil {
		return nil, err
	}
	for _, v := range vs {
		out[v.ID] = v
	}
	return out, nil
}

func (r *VariationRepository) GetBySKU(ctx context.Context, sku string) (*entity.ProductVariation, error) {
	var v entity.ProductVariation
	if err := r.db.WithContext(ctx).Where("sku_code = ?", sku).First(&v).Error; err != nil {
		return nil, repository.NotFound(err)
	}
	return &v, nil
}

// StockLevelBySKU reads a single column with raw SQL for minimal overhead.
func (r *VariationRepository) StockLevelBySKU(ctx context.Context, sku string) (int, bool) {
	sqlDB, err := r.db.DB()
	if err != nil {
		return 0, false
	}
	const query = `SELECT stock_level FROM product_variations WHERE sku_code = ? LIMIT 1`
	var level sql.NullInt64
	if err := sqlDB.QueryRowContext(ctx, query, sku).Scan(&level); err != nil || !level.Valid {
		return 0, false
	}
	return int(level.Int64), true
}

func (r *VariationRepository) List(ctx context.Context, productID uint) ([]entity.ProductVariation, error) {
	var vs []entity.ProductVariation
	q := r.db.WithContext(ctx).Order("id")
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}
	err := q.Find(&vs).Error
	return vs, err
}

func (r *VariationRepository) Create(ctx context.Context, v *entity.ProductVariation) error {
	return r.db.WithContext(ctx).Create(v).Error
}

// AdjustStock applies delta as one conditional relative update and records a movement.
// It returns entity.ErrInsufficientStock, leaving stock untouched, when delta would take
// the level below zero.
func (r *VariationRepository) AdjustStock(ctx context.Context, id uint, delta int, ref entity.MovementRef) (int, error) {
	var level int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.ProductVariation{}).
			Where("id = ? AND stock_level + ? >= 0", id, delta).
			Update("stock_level", gorm.Expr("stock_level + ?", delta))
		if res.Error != nil {
			return fmt.Errorf("adjust stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&entity.ProductVariation{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return entity.ErrNotFound
			}
			return entity.ErrInsufficientStock
		}

		if err := tx.Model(&entity.ProductVariation{}).Select("stock_level").Where("id = ?", id).Row().Scan(&level); err != nil {
			return fmt.Errorf("read stock level: %w", err)
		}
		return tx.Create(&entity.StockMovement{
			ProductVariationID: id,
			Delta:              delta,
			StockAfter:         level,
			ReferenceType:      ref.Type,
			ReferenceID:        ref.ID,
			Note:               ref.Note,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return level, nil
}

// ListLowStock returns variations at or below their reorder level.
func (r *VariationRepository) ListLowStock(ctx context.Context) ([]entity.ProductVariation, error) {
	var vs []entity.ProductVariation
	err := r.db.WithContext(ctx).
		Where("stock_level <= reorder_level").
		Order("id").
		Find(&vs).Error
	return vs, err
}

func (r *VariationRepository) CountVariations(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.ProductVariation{}).Count(&n).Error
	return n, err
}

// ListMovements returns the newest movements first.
func (r *VariationRepository) ListMovements(ctx context.Context, variationID uint, limit int) ([]entity.StockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	var ms []entity.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_variation_id = ?", variationID).
		Order("id DESC").
		Limit(limit).
		Find(&ms).Error
	return ms, err
}
