package graphqlserver

import (
	"context"
	"errors"
	"strconv"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"inventory.GO/graphql"
	"inventory.GO/model/entity"
	catalogRepo "inventory.GO/model/repository/catalog"
	orderRepo "inventory.GO/model/repository/order"
)

// RootResolver is the root for graphql-go.
type RootResolver struct {
	variations *catalogRepo.VariationRepository
	orders     *orderRepo.OrderRepository
}

func parseID(id gql.ID) (uint, error) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New("invalid id " + strconv.Quote(string(id)))
	}
	return uint(n), nil
}

func (r *RootResolver) Variation(ctx context.Context, args struct{ Sku string }) (*VariationResolver, error) {
	v, err := r.variations.GetBySKU(ctx, args.Sku)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &VariationResolver{v: *v, repo: r.variations}, nil
}

func (r *RootResolver) Variations(ctx context.Context, args struct{ ProductID *gql.ID }) ([]*VariationResolver, error) {
	var productID uint
	if args.ProductID != nil {
		id, err := parseID(*args.ProductID)
		if err != nil {
			return nil, err
		}
		productID = id
	}
	vs, err := r.variations.List(ctx, productID)
	if err != nil {
		return nil, err
	}
	return r.wrap(vs), nil
}

func (r *RootResolver) LowStock(ctx context.Context) ([]*VariationResolver, error) {
	vs, err := r.variations.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return r.wrap(vs), nil
}

func (r *RootResolver) PurchaseOrder(ctx context.Context, args struct{ ID gql.ID }) (*PurchaseOrderResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	po, err := r.orders.GetPurchaseOrder(ctx, id, false)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResolver{po: po}, nil
}

func (r *RootResolver) SalesOrder(ctx context.Context, args struct{ ID gql.ID }) (*SalesOrderResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	so, err := r.orders.GetSalesOrder(ctx, id, false)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &SalesOrderResolver{so: so}, nil
}

func (r *RootResolver) wrap(vs []entity.ProductVariation) []*VariationResolver {
	out := make([]*VariationResolver, len(vs))
	for i := range vs {
		out[i] = &VariationResolver{v: vs[i], repo: r.variations}
	}
	return out
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	root := &RootResolver{
		variations: catalogRepo.NewVariationRepository(db),
		orders:     orderRepo.NewOrderRepository(db),
	}
	return gql.ParseSchema(graphql.Schema, root, gql.MaxDepth(8))
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
