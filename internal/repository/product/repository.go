package product

import (
	"context"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/foodcart/internal/database"
	"github.com/Additional-Code/foodcart/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/foodcart/repository/product")

// Repository reads the product catalog.
type Repository struct {
	reader *bun.DB
}

// NewRepository wires a repository backed by the read connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader}
}

// GetByIDs returns the products matching the given ids. Missing ids are
// simply absent from the result; the caller decides whether that is an error.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.GetByIDs",
		trace.WithAttributes(attribute.Int("product.count", len(ids))))
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	var products []entity.Product
	err := r.reader.NewSelect().Model(&products).
		Where("p.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return products, nil
}

// ListAvailable returns products offered by at least one restaurant, with the
// available menu rows (and their restaurants) preloaded.
func (r *Repository) ListAvailable(ctx context.Context) ([]entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.ListAvailable")
	defer span.End()

	var products []entity.Product
	err := r.reader.NewSelect().Model(&products).
		Relation("MenuItems", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("available = TRUE")
		}).
		Relation("MenuItems.Restaurant").
		Where("EXISTS (SELECT 1 FROM menu_items mi2 WHERE mi2.product_id = p.id AND mi2.available = TRUE)").
		Order("p.name ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return products, nil
}
