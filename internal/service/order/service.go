package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/cache"
	"github.com/Additional-Code/foodcart/internal/dto"
	"github.com/Additional-Code/foodcart/internal/entity"
	"github.com/Additional-Code/foodcart/internal/messaging"
	orderrepo "github.com/Additional-Code/foodcart/internal/repository/order"
	restaurantrepo "github.com/Additional-Code/foodcart/internal/repository/restaurant"
	"github.com/Additional-Code/foodcart/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/foodcart/service/order")

// defaultPhoneRegion is assumed when a submitted number carries no country
// prefix.
const defaultPhoneRegion = "RU"

// OrderStore is the slice of the order repository the service needs.
type OrderStore interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	ListOpen(ctx context.Context) ([]entity.Order, error)
	UpdateAssignment(ctx context.Context, order *entity.Order) error
}

// ProductReader loads products for price snapshotting.
type ProductReader interface {
	GetByIDs(ctx context.Context, ids []int64) ([]entity.Product, error)
}

// RestaurantReader checks assignment targets.
type RestaurantReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Restaurant, error)
}

// Service encapsulates order ingestion and lifecycle management.
type Service struct {
	orders      OrderStore
	products    ProductReader
	restaurants RestaurantReader
	cache       cache.Store
	cacheTTL    time.Duration
	logger      *zap.Logger
	publisher   messaging.Client
	publish     bool
}

// NewService wires a new order Service.
func NewService(orders OrderStore, products ProductReader, restaurants RestaurantReader, store cache.Store, cacheTTL time.Duration, publisher messaging.Client, publishEvents bool, logger *zap.Logger) *Service {
	return &Service{
		orders:      orders,
		products:    products,
		restaurants: restaurants,
		cache:       store,
		cacheTTL:    cacheTTL,
		logger:      logger,
		publisher:   publisher,
		publish:     publishEvents,
	}
}

// Create validates an order submission, snapshots line prices from the live
// catalog, and persists the order in UNPROCESSED state.
func (s *Service) Create(ctx context.Context, req dto.CreateOrderRequest) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create",
		trace.WithAttributes(attribute.Int("order.lines", len(req.Products))))
	defer span.End()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	payment := entity.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod)))
	switch payment {
	case "":
		payment = entity.PaymentCash
	case entity.PaymentCash, entity.PaymentOnline:
	default:
		return nil, errorbank.BadRequest("unknown payment method",
			errorbank.WithDetail("payment_method", req.PaymentMethod))
	}

	lines, err := s.buildLines(ctx, req.Products)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		Firstname:     strings.TrimSpace(req.Firstname),
		Lastname:      strings.TrimSpace(req.Lastname),
		Phonenumber:   strings.TrimSpace(req.Phonenumber),
		Address:       strings.TrimSpace(req.Address),
		Comment:       strings.TrimSpace(req.Comment),
		PaymentMethod: payment,
		Status:        entity.StatusUnprocessed,
		CreatedAt:     time.Now().UTC(),
		Lines:         lines,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", order.ID), zap.Error(err))
	}

	s.publishOrderCreated(ctx, order)
	return order, nil
}

// buildLines resolves the submitted product references and captures their
// current prices. The snapshot is final; later catalog edits never touch it.
func (s *Service) buildLines(ctx context.Context, items []dto.CreateOrderLineRequest) ([]entity.OrderLine, error) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Product)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errorbank.Internal("failed to load products", errorbank.WithCause(err))
	}
	byID := make(map[int64]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]entity.OrderLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.Product]
		if !ok {
			return nil, errorbank.BadRequest("unknown product",
				errorbank.WithDetail("product", item.Product))
		}
		lines = append(lines, entity.OrderLine{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
	}
	return lines, nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get",
		trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", id), zap.Error(err))
	}

	return order, nil
}

// ListOpen returns all orders that have not been completed.
func (s *Service) ListOpen(ctx context.Context) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListOpen")
	defer span.End()

	orders, err := s.orders.ListOpen(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// AssignRestaurant attaches a restaurant to an order and promotes it to
// COOKING. The transition is only valid from UNPROCESSED or NEW; anything
// later in the lifecycle is rejected.
func (s *Service) AssignRestaurant(ctx context.Context, orderID, restaurantID int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.AssignRestaurant",
		trace.WithAttributes(
			attribute.Int64("order.id", orderID),
			attribute.Int64("restaurant.id", restaurantID),
		))
	defer span.End()

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, errorbank.NotFound("order not found")
		}
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if order.Status != entity.StatusUnprocessed && order.Status != entity.StatusNew {
		return nil, errorbank.Unprocessable("order can no longer be assigned",
			errorbank.WithDetail("status", string(order.Status)))
	}

	if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
		if isRepoNotFound(err) {
			return nil, errorbank.NotFound("restaurant not found")
		}
		return nil, errorbank.Internal("failed to load restaurant", errorbank.WithCause(err))
	}

	order.RestaurantID = &restaurantID
	order.Status = entity.StatusCooking
	if err := s.orders.UpdateAssignment(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to assign restaurant", errorbank.WithCause(err))
	}

	s.invalidateCache(ctx, order.ID)
	return order, nil
}

// AdvanceStatus moves an order to the next lifecycle state. Only single
// forward steps are allowed; skipping and backward moves are rejected.
func (s *Service) AdvanceStatus(ctx context.Context, orderID int64, next entity.Status) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.AdvanceStatus",
		trace.WithAttributes(
			attribute.Int64("order.id", orderID),
			attribute.String("order.next_status", string(next)),
		))
	defer span.End()

	if !next.Valid() {
		return nil, errorbank.BadRequest("unknown status", errorbank.WithDetail("status", string(next)))
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, errorbank.NotFound("order not found")
		}
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if !order.Status.CanAdvance(next) {
		return nil, errorbank.Unprocessable("invalid status transition",
			errorbank.WithDetail("from", string(order.Status)),
			errorbank.WithDetail("to", string(next)))
	}

	order.Status = next
	if err := s.orders.UpdateAssignment(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update status", errorbank.WithCause(err))
	}

	s.invalidateCache(ctx, order.ID)
	return order, nil
}

// validateRequest applies field-level checks on an order submission.
func validateRequest(req dto.CreateOrderRequest) error {
	details := map[string]any{}
	if strings.TrimSpace(req.Firstname) == "" {
		details["firstname"] = "must not be empty"
	}
	if strings.TrimSpace(req.Lastname) == "" {
		details["lastname"] = "must not be empty"
	}
	if strings.TrimSpace(req.Address) == "" {
		details["address"] = "must not be empty"
	}
	if !validPhone(req.Phonenumber) {
		details["phonenumber"] = "is not a valid phone number"
	}
	if len(req.Products) == 0 {
		details["products"] = "must contain at least one item"
	}
	for i, item := range req.Products {
		if item.Quantity < 1 {
			details[fmt.Sprintf("products[%d].quantity", i)] = "must be at least 1"
		}
	}
	if len(details) > 0 {
		return errorbank.Validation("invalid order", details)
	}
	return nil
}

func validPhone(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}

func isRepoNotFound(err error) bool {
	return errors.Is(err, orderrepo.ErrNotFound) || errors.Is(err, restaurantrepo.ErrNotFound)
}

func (s *Service) publishOrderCreated(ctx context.Context, order *entity.Order) {
	if !s.publish || s.publisher == nil {
		return
	}
	event := CreatedEvent{
		ID:        order.ID,
		Address:   order.Address,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order created", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		s.logger.Error("publish order created", zap.Error(err))
	}
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("orders:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}

func (s *Service) invalidateCache(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("orders cache delete failed", zap.Int64("id", id), zap.Error(err))
	}
}

// CreatedEvent is emitted when a new order is persisted. Workers use it to
// pre-warm the geocode cache for the delivery address.
type CreatedEvent struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
