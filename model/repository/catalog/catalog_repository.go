package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"inventory.GO/model/entity"
	"inventory.GO/model/repository"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	var ps []entity.Product
	err := r.db.WithContext(ctx).Preload("Variations").Order("id").Find(&ps).Error
	return ps, err
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*entity.Product, error) {
	var p entity.Product
	if err := r.db.WithContext(ctx).Preload("Variations").First(&p, id).Error; err != nil {
		return nil, repository.NotFound(err)
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// PriceBySKU returns the list price of the product owning sku.
func (r *ProductRepository) PriceBySKU(ctx context.Context, sku string) (decimal.Decimal, bool) {
	var p entity.Product
	err := r.db.WithContext(ctx).
		Select("products.price").
		Joins("JOIN product_variations ON product_variations.product_id = products.id").
		Where("product_variations.sku_code = ?", sku).
		Take(&p).Error
	if err != nil {
		return decimal.Zero, false
	}
	return p.Price, true
}

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) WithTx(tx *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: tx}
}

func (r *SupplierRepository) List(ctx context.Context) ([]entity.Supplier, error) {
	var ss []entity.Supplier
	err := r.db.WithContext(ctx).Order("id").Find(&ss).Error
	return ss, err
}

func (r *SupplierRepository) Get(ctx context.Context, id uint) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, repository.NotFound(err)
	}
	return &s, nil
}

func (r *SupplierRepository) Create(ctx context.Context, s *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}
