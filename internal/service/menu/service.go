// Package menu maintains the availability index: which restaurants can
// fulfill which products, derived from menu rows currently on sale.
package menu

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/cache"
	"github.com/Additional-Code/foodcart/internal/dto"
	"github.com/Additional-Code/foodcart/internal/entity"
	"github.com/Additional-Code/foodcart/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/foodcart/service/menu")

const productsCacheKey = "products:available"

// MenuReader loads the menu rows the index is built from.
type MenuReader interface {
	ListAvailableMenuItems(ctx context.Context) ([]entity.MenuItem, error)
}

// ProductReader loads catalog entries for the product listing.
type ProductReader interface {
	ListAvailable(ctx context.Context) ([]entity.Product, error)
}

// Service builds availability snapshots and serves the product catalog.
type Service struct {
	menus    MenuReader
	products ProductReader
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService wires a menu Service.
func NewService(menus MenuReader, products ProductReader, store cache.Store, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		menus:    menus,
		products: products,
		cache:    store,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Index is a point-in-time snapshot of which products each restaurant has on
// sale. It may go stale if availability changes concurrently; matching is
// advisory and recomputed on every view.
type Index struct {
	restaurants []entity.Restaurant
	available   map[int64]map[int64]struct{}
}

// Feasible returns the restaurants whose available-product set is a superset
// of the given product ids, sorted by name. An empty input yields nil; the
// caller is expected to reject orders without lines upstream.
func (ix *Index) Feasible(productIDs []int64) []entity.Restaurant {
	if len(productIDs) == 0 {
		return nil
	}

	var feasible []entity.Restaurant
	for _, rest := range ix.restaurants {
		products := ix.available[rest.ID]
		if containsAll(products, productIDs) {
			feasible = append(feasible, rest)
		}
	}
	sort.Slice(feasible, func(i, j int) bool { return feasible[i].Name < feasible[j].Name })
	return feasible
}

func containsAll(set map[int64]struct{}, ids []int64) bool {
	if len(set) == 0 {
		return false
	}
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// AvailabilityIndex builds a fresh snapshot from the current menu state.
func (s *Service) AvailabilityIndex(ctx context.Context) (*Index, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.AvailabilityIndex")
	defer span.End()

	items, err := s.menus.ListAvailableMenuItems(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "menu read failed")
		return nil, errorbank.Internal("failed to load menu", errorbank.WithCause(err))
	}

	ix := &Index{available: make(map[int64]map[int64]struct{})}
	seen := make(map[int64]struct{})
	for _, item := range items {
		if _, ok := ix.available[item.RestaurantID]; !ok {
			ix.available[item.RestaurantID] = make(map[int64]struct{})
		}
		ix.available[item.RestaurantID][item.ProductID] = struct{}{}
		if item.Restaurant != nil {
			if _, ok := seen[item.RestaurantID]; !ok {
				seen[item.RestaurantID] = struct{}{}
				ix.restaurants = append(ix.restaurants, *item.Restaurant)
			}
		}
	}

	span.SetAttributes(attribute.Int("menu.restaurants", len(ix.restaurants)))
	return ix, nil
}

// FeasibleRestaurants returns the restaurants able to prepare every product
// in the set. Orders without products are invalid input.
func (s *Service) FeasibleRestaurants(ctx context.Context, productIDs []int64) ([]entity.Restaurant, error) {
	if len(productIDs) == 0 {
		return nil, errorbank.BadRequest("order has no products")
	}
	ix, err := s.AvailabilityIndex(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Feasible(productIDs), nil
}

// ListProducts serves the public catalog: products on sale somewhere,
// together with the restaurants offering them. The rendered listing is kept
// in the shared cache.
func (s *Service) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.ListProducts")
	defer span.End()

	if cached, err := s.listFromCache(ctx); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("products cache read failed", zap.Error(err))
	}

	products, err := s.products.ListAvailable(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog read failed")
		return nil, errorbank.Internal("failed to load products", errorbank.WithCause(err))
	}

	listing := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		item := dto.ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Special:     p.Special,
			Restaurants: []dto.ProductRestaurant{},
		}
		for _, mi := range p.MenuItems {
			if mi.Restaurant == nil || !mi.Available {
				continue
			}
			item.Restaurants = append(item.Restaurants, dto.ProductRestaurant{
				ID:   mi.Restaurant.ID,
				Name: mi.Restaurant.Name,
			})
		}
		listing = append(listing, item)
	}

	if err := s.storeInCache(ctx, listing); err != nil {
		s.logger.Warn("products cache write failed", zap.Error(err))
	}
	return listing, nil
}

func (s *Service) listFromCache(ctx context.Context) ([]dto.ProductResponse, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, productsCacheKey)
	if err != nil {
		return nil, err
	}
	var listing []dto.ProductResponse
	if err := json.Unmarshal(bytes, &listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *Service) storeInCache(ctx context.Context, listing []dto.ProductResponse) error {
	if s.cache == nil {
		return nil
	}
	bytes, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, productsCacheKey, bytes, s.cacheTTL)
}
