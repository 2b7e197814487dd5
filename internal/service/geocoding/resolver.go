// Package geocoding resolves free-text addresses to coordinates through the
// persistent place cache, falling back to the external geocoder on misses.
package geocoding

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/config"
	"github.com/Additional-Code/foodcart/internal/entity"
	"github.com/Additional-Code/foodcart/internal/geo"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/foodcart/service/geocoding")

// PlaceStore is the slice of the place repository the resolver needs.
type PlaceStore interface {
	GetByAddresses(ctx context.Context, addresses []string) (map[string]entity.Place, error)
	Upsert(ctx context.Context, place *entity.Place) error
}

// Geocoder resolves a single address over the network. ok=false with a nil
// error is a definitive miss; a non-nil error is a transient upstream problem.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, bool, error)
}

// Resolver implements cache-then-network address resolution with request
// throttling towards the upstream service.
type Resolver struct {
	places   PlaceStore
	client   Geocoder
	ttl      time.Duration
	throttle time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewResolver builds a Resolver from the geocoder configuration.
func NewResolver(places PlaceStore, client Geocoder, cfg config.Geocoder, logger *zap.Logger) *Resolver {
	return &Resolver{
		places:   places,
		client:   client,
		ttl:      cfg.CacheTTL,
		throttle: cfg.Throttle,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve maps each distinct address to coordinates, or nil when the address
// cannot be resolved. Cached entries younger than the TTL are served without
// a network call; misses are fetched sequentially with a minimum inter-call
// delay. One address failing never aborts the batch, and cancellation keeps
// the cache writes already made.
func (r *Resolver) Resolve(ctx context.Context, addresses []string) map[string]*geo.Point {
	ctx, span := serviceTracer.Start(ctx, "GeocodingResolver.Resolve",
		trace.WithAttributes(attribute.Int("address.count", len(addresses))))
	defer span.End()

	distinct := dedupe(addresses)
	results := make(map[string]*geo.Point, len(distinct))
	for _, addr := range distinct {
		results[addr] = nil
	}

	cached, err := r.places.GetByAddresses(ctx, distinct)
	if err != nil {
		r.logger.Warn("place cache read failed", zap.Error(err))
		cached = map[string]entity.Place{}
	}

	var misses []string
	for _, addr := range distinct {
		place, ok := cached[addr]
		if ok && r.fresh(&place) {
			results[addr] = &geo.Point{Lat: *place.Latitude, Lon: *place.Longitude}
			continue
		}
		misses = append(misses, addr)
	}

	span.SetAttributes(attribute.Int("address.misses", len(misses)))

	for i, addr := range misses {
		if ctx.Err() != nil {
			return results
		}
		if i > 0 && r.throttle > 0 {
			select {
			case <-time.After(r.throttle):
			case <-ctx.Done():
				return results
			}
		}
		if point := r.fetch(ctx, addr); point != nil {
			results[addr] = point
		}
	}

	return results
}

// ResolveOne resolves a single address; nil means unresolved.
func (r *Resolver) ResolveOne(ctx context.Context, address string) *geo.Point {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil
	}
	return r.Resolve(ctx, []string{address})[address]
}

// fetch performs the network lookup and back-fills the cache. Definitive
// not-found results are persisted as unresolved rows; transient failures are
// not cached so the next view retries.
func (r *Resolver) fetch(ctx context.Context, address string) *geo.Point {
	point, ok, err := r.client.Geocode(ctx, address)
	if err != nil {
		r.logger.Warn("geocode failed", zap.String("address", address), zap.Error(err))
		return nil
	}

	place := &entity.Place{
		Address:     address,
		LastUpdated: r.now().UTC(),
	}
	if ok {
		place.Latitude = &point.Lat
		place.Longitude = &point.Lon
	}
	if err := r.places.Upsert(ctx, place); err != nil {
		r.logger.Warn("place cache write failed", zap.String("address", address), zap.Error(err))
	}

	if !ok {
		return nil
	}
	return &point
}

// fresh reports whether a cached place can be served: it must carry
// coordinates and be younger than the staleness TTL. Unresolved rows always
// count as misses so the upstream gets another chance.
func (r *Resolver) fresh(place *entity.Place) bool {
	if !place.Resolved() {
		return false
	}
	return r.now().Sub(place.LastUpdated) <= r.ttl
}

// dedupe trims and de-duplicates addresses, preserving first-seen order.
func dedupe(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	out := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}
