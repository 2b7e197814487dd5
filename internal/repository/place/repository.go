package place

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

var repoTracer = otel.Tracer("github.com/Additional-Code/foodcart/repository/place")

// Repository persists geocoding results keyed by address.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// GetByAddresses loads cached places for the given addresses, keyed by the
// stored address string. Unknown addresses are simply absent from the map.
func (r *Repository) GetByAddresses(ctx context.Context, addresses []string) (map[string]entity.Place, error) {
	ctx, span := repoTracer.Start(ctx, "PlaceRepository.GetByAddresses",
		trace.WithAttributes(attribute.Int("place.count", len(addresses))))
	defer span.End()

	if len(addresses) == 0 {
		return map[string]entity.Place{}, nil
	}

	var places []entity.Place
	err := r.reader.NewSelect().Model(&places).
		Where("pl.address IN (?)", bun.In(addresses)).
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}

	byAddress := make(map[string]entity.Place, len(places))
	for _, p := range places {
		byAddress[p.Address] = p
	}
	return byAddress, nil
}

// Upsert writes a place keyed by address, overwriting coordinates and the
// freshness timestamp. Concurrent writers race harmlessly; last write wins.
func (r *Repository) Upsert(ctx context.Context, place *entity.Place) error {
	ctx, span := repoTracer.Start(ctx, "PlaceRepository.Upsert",
		trace.WithAttributes(attribute.String("place.address", place.Address)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(place).
		On("CONFLICT (address) DO UPDATE").
		Set("latitude = EXCLUDED.latitude").
		Set("longitude = EXCLUDED.longitude").
		Set("last_updated = EXCLUDED.last_updated").
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
	}
	return err
}
