// Package matching orchestrates the order-to-restaurant pipeline: feasibility
// through the availability index, address resolution through the geocode
// cache, and distance ranking.
package matching

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/dto"
	"github.com/Additional-Code/foodcart/internal/entity"
	"github.com/Additional-Code/foodcart/internal/geo"
	"github.com/Additional-Code/foodcart/internal/service/menu"
	"github.com/Additional-Code/foodcart/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/foodcart/service/matching")

// Availability builds feasibility snapshots from the current menu state.
type Availability interface {
	AvailabilityIndex(ctx context.Context) (*menu.Index, error)
}

// AddressResolver maps addresses to coordinates, nil when unresolved.
type AddressResolver interface {
	Resolve(ctx context.Context, addresses []string) map[string]*geo.Point
}

// OrderLister supplies the open orders for the batch admin view.
type OrderLister interface {
	ListOpen(ctx context.Context) ([]entity.Order, error)
}

// Service is the order matching pipeline.
type Service struct {
	availability Availability
	resolver     AddressResolver
	orders       OrderLister
	logger       *zap.Logger
}

// NewService wires the matching pipeline.
func NewService(availability Availability, resolver AddressResolver, orders OrderLister, logger *zap.Logger) *Service {
	return &Service{
		availability: availability,
		resolver:     resolver,
		orders:       orders,
		logger:       logger,
	}
}

// Match produces the ranked restaurant candidates for one order. Geocoding
// trouble degrades to unknown distances; the pipeline itself never fails
// because of the upstream geocoder.
func (s *Service) Match(ctx context.Context, order *entity.Order) (dto.MatchResult, error) {
	ctx, span := serviceTracer.Start(ctx, "MatchingService.Match",
		trace.WithAttributes(attribute.Int64("order.id", order.ID)))
	defer span.End()

	productIDs := order.ProductIDs()
	if len(productIDs) == 0 {
		return dto.MatchResult{}, errorbank.BadRequest("order has no products")
	}

	ix, err := s.availability.AvailabilityIndex(ctx)
	if err != nil {
		return dto.MatchResult{}, err
	}
	feasible := ix.Feasible(productIDs)

	addresses := make([]string, 0, len(feasible)+1)
	addresses = append(addresses, order.Address)
	for _, rest := range feasible {
		addresses = append(addresses, rest.Address)
	}
	coords := s.resolver.Resolve(ctx, addresses)

	span.SetAttributes(attribute.Int("match.candidates", len(feasible)))
	return dto.MatchResult{
		OrderID:    order.ID,
		Candidates: rank(order.Address, feasible, coords),
	}, nil
}

// OpenOrderMatch pairs an open order with its ranked candidates.
type OpenOrderMatch struct {
	Order      entity.Order
	Candidates []dto.Candidate
}

// MatchOpen runs the pipeline over every non-completed order, building the
// availability snapshot once and resolving the union of all addresses in a
// single batch.
func (s *Service) MatchOpen(ctx context.Context) ([]OpenOrderMatch, error) {
	ctx, span := serviceTracer.Start(ctx, "MatchingService.MatchOpen")
	defer span.End()

	orders, err := s.orders.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	ix, err := s.availability.AvailabilityIndex(ctx)
	if err != nil {
		return nil, err
	}

	feasibleByOrder := make([][]entity.Restaurant, len(orders))
	var addresses []string
	for i := range orders {
		addresses = append(addresses, orders[i].Address)
		feasible := ix.Feasible(orders[i].ProductIDs())
		feasibleByOrder[i] = feasible
		for _, rest := range feasible {
			addresses = append(addresses, rest.Address)
		}
	}
	coords := s.resolver.Resolve(ctx, addresses)

	matches := make([]OpenOrderMatch, len(orders))
	for i := range orders {
		matches[i] = OpenOrderMatch{
			Order:      orders[i],
			Candidates: rank(orders[i].Address, feasibleByOrder[i], coords),
		}
	}

	span.SetAttributes(attribute.Int("match.orders", len(orders)))
	return matches, nil
}

// rank orders candidates ascending by distance from the delivery address.
// A candidate sharing the order's exact address string is distance zero with
// no geocoding round-trip. Candidates whose coordinates (or whose order's
// coordinates) are unknown sort last, keeping their input order.
func rank(orderAddress string, restaurants []entity.Restaurant, coords map[string]*geo.Point) []dto.Candidate {
	orderAddress = strings.TrimSpace(orderAddress)
	origin := coords[orderAddress]

	known := make([]dto.Candidate, 0, len(restaurants))
	var unknown []dto.Candidate
	for _, rest := range restaurants {
		cand := dto.Candidate{
			RestaurantID: rest.ID,
			Name:         rest.Name,
			Address:      rest.Address,
		}
		restAddress := strings.TrimSpace(rest.Address)

		if restAddress == orderAddress {
			zero := 0.0
			cand.DistanceKm = &zero
			known = append(known, cand)
			continue
		}

		point := coords[restAddress]
		if origin == nil || point == nil {
			unknown = append(unknown, cand)
			continue
		}

		km := geo.RoundKm(geo.DistanceKm(*origin, *point))
		cand.DistanceKm = &km
		known = append(known, cand)
	}

	sort.SliceStable(known, func(i, j int) bool {
		return *known[i].DistanceKm < *known[j].DistanceKm
	})
	return append(known, unknown...)
}
