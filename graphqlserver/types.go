package graphqlserver

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	gql "github.com/graph-gophers/graphql-go"

	"inventory.GO/model/entity"
	catalogRepo "inventory.GO/model/repository/catalog"
)

func toID(id uint) gql.ID {
	return gql.ID(strconv.FormatUint(uint64(id), 10))
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type VariationResolver struct {
	v    entity.ProductVariation
	repo *catalogRepo.VariationRepository
}

func (r *VariationResolver) ID() gql.ID          { return toID(r.v.ID) }
func (r *VariationResolver) ProductID() gql.ID   { return toID(r.v.ProductID) }
func (r *VariationResolver) Sku() string         { return r.v.SKUCode }
func (r *VariationResolver) StockLevel() int32   { return int32(r.v.StockLevel) }
func (r *VariationResolver) ReorderLevel() int32 { return int32(r.v.ReorderLevel) }
func (r *VariationResolver) IsLowStock() bool    { return r.v.IsLowStock() }

// Attributes is the JSON object as a string; the schema has no map scalar.
func (r *VariationResolver) Attributes() string {
	if r.v.Attributes == nil {
		return "{}"
	}
	b, err := json.Marshal(r.v.Attributes)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (r *VariationResolver) Movements(ctx context.Context, args struct{ Limit int32 }) ([]*MovementResolver, error) {
	ms, err := r.repo.ListMovements(ctx, r.v.ID, int(args.Limit))
	if err != nil {
		return nil, err
	}
	out := make([]*MovementResolver, len(ms))
	for i := range ms {
		out[i] = &MovementResolver{m: ms[i]}
	}
	return out, nil
}

type MovementResolver struct {
	m entity.StockMovement
}

func (r *MovementResolver) ID() gql.ID            { return toID(r.m.ID) }
func (r *MovementResolver) Delta() int32          { return int32(r.m.Delta) }
func (r *MovementResolver) StockAfter() int32     { return int32(r.m.StockAfter) }
func (r *MovementResolver) ReferenceType() string { return r.m.ReferenceType }
func (r *MovementResolver) Note() string          { return r.m.Note }
func (r *MovementResolver) CreatedAt() string     { return timestamp(r.m.CreatedAt) }

func (r *MovementResolver) ReferenceID() *gql.ID {
	if r.m.ReferenceID == 0 {
		return nil
	}
	id := toID(r.m.ReferenceID)
	return &id
}

func skuOf(v *entity.ProductVariation) string {
	if v == nil {
		return ""
	}
	return v.SKUCode
}

type OrderItemResolver struct {
	variationID uint
	sku         string
	quantity    int
	unitPrice   string
}

func (r *OrderItemResolver) VariationID() gql.ID { return toID(r.variationID) }
func (r *OrderItemResolver) Sku() string         { return r.sku }
func (r *OrderItemResolver) Quantity() int32     { return int32(r.quantity) }
func (r *OrderItemResolver) UnitPrice() string   { return r.unitPrice }

type PurchaseOrderResolver struct {
	po *entity.PurchaseOrder
}

func (r *PurchaseOrderResolver) ID() gql.ID        { return toID(r.po.ID) }
func (r *PurchaseOrderResolver) Status() string    { return string(r.po.Status) }
func (r *PurchaseOrderResolver) CreatedAt() string { return timestamp(r.po.CreatedAt) }

func (r *PurchaseOrderResolver) Supplier() string {
	if r.po.Supplier == nil {
		return ""
	}
	return r.po.Supplier.Name
}

func (r *PurchaseOrderResolver) Items() []*OrderItemResolver {
	out := make([]*OrderItemResolver, len(r.po.Items))
	for i, it := range r.po.Items {
		out[i] = &OrderItemResolver{
			variationID: it.ProductVariationID,
			sku:         skuOf(it.ProductVariation),
			quantity:    it.QuantityOrdered,
			unitPrice:   it.CostPerUnit.StringFixed(2),
		}
	}
	return out
}

type SalesOrderResolver struct {
	so *entity.SalesOrder
}

func (r *SalesOrderResolver) ID() gql.ID            { return toID(r.so.ID) }
func (r *SalesOrderResolver) Status() string        { return string(r.so.Status) }
func (r *SalesOrderResolver) CustomerEmail() string { return r.so.CustomerEmail }
func (r *SalesOrderResolver) CreatedAt() string     { return timestamp(r.so.CreatedAt) }

func (r *SalesOrderResolver) Items() []*OrderItemResolver {
	out := make([]*OrderItemResolver, len(r.so.Items))
	for i, it := range r.so.Items {
		out[i] = &OrderItemResolver{
			variationID: it.ProductVariationID,
			sku:         skuOf(it.ProductVariation),
			quantity:    it.QuantitySold,
			unitPrice:   it.SalePricePerUnit.StringFixed(2),
		}
	}
	return out
}
