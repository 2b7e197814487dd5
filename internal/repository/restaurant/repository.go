package restaurant

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/foodcart/internal/database"
	"github.com/Additional-Code/foodcart/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/foodcart/repository/restaurant")

// ErrNotFound is returned when a restaurant is missing.
var ErrNotFound = errors.New("restaurant not found")

// Repository reads restaurants and their menus.
type Repository struct {
	reader *bun.DB
}

// NewRepository wires a repository backed by the read connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader}
}

// GetByID fetches a single restaurant.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Restaurant, error) {
	ctx, span := repoTracer.Start(ctx, "RestaurantRepository.GetByID",
		trace.WithAttributes(attribute.Int64("restaurant.id", id)))
	defer span.End()

	rest := new(entity.Restaurant)
	err := r.reader.NewSelect().Model(rest).Where("r.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return rest, nil
}

// List returns all restaurants ordered by name.
func (r *Repository) List(ctx context.Context) ([]entity.Restaurant, error) {
	ctx, span := repoTracer.Start(ctx, "RestaurantRepository.List")
	defer span.End()

	var restaurants []entity.Restaurant
	err := r.reader.NewSelect().Model(&restaurants).Order("r.name ASC").Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return restaurants, nil
}

// ListAvailableMenuItems returns every menu row currently on sale, with its
// restaurant preloaded. This is the raw input of the availability index.
func (r *Repository) ListAvailableMenuItems(ctx context.Context) ([]entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "RestaurantRepository.ListAvailableMenuItems")
	defer span.End()

	var items []entity.MenuItem
	err := r.reader.NewSelect().Model(&items).
		Relation("Restaurant").
		Where("mi.available = TRUE").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return items, nil
}
