package admin

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/foodcart/internal/dto"
	"github.com/Additional-Code/foodcart/internal/entity"
	"github.com/Additional-Code/foodcart/internal/presentation/http/response"
	matchingsvc "github.com/Additional-Code/foodcart/internal/service/matching"
	ordersvc "github.com/Additional-Code/foodcart/internal/service/order"
	ordertransport "github.com/Additional-Code/foodcart/internal/transport/http/order"
	"github.com/Additional-Code/foodcart/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/foodcart/transport/http/admin")

// Handler exposes the operations surface: the order board with ranked
// restaurant candidates, assignment, and status management.
type Handler struct {
	orders   *ordersvc.Service
	matching *matchingsvc.Service
}

// NewHandler constructs an admin Handler.
func NewHandler(orders *ordersvc.Service, matching *matchingsvc.Service) *Handler {
	return &Handler{orders: orders, matching: matching}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/admin/orders")
	g.GET("", h.board)
	g.POST("/:id/restaurant", h.assignRestaurant)
	g.POST("/:id/status", h.advanceStatus)
}

// board renders every open order with its candidates ranked by distance.
// Geocoding outages degrade to unknown distances; the board never hard-fails
// because of the upstream geocoder.
func (h *Handler) board(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.orders.board")
	defer span.End()

	matches, err := h.matching.MatchOpen(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	board := make([]dto.OrderMatches, 0, len(matches))
	for i := range matches {
		board = append(board, dto.OrderMatches{
			Order:      ordertransport.ToDTO(&matches[i].Order),
			Candidates: matches[i].Candidates,
		})
	}
	return b.WithData(board).Build()
}

func (h *Handler) assignRestaurant(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		RestaurantID int64 `json:"restaurant_id"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.RestaurantID <= 0 {
		return b.WithError(errorbank.BadRequest("restaurant_id is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.orders.assignRestaurant",
		trace.WithAttributes(
			attribute.Int64("order.id", id),
			attribute.Int64("restaurant.id", payload.RestaurantID),
		))
	defer span.End()

	order, err := h.orders.AssignRestaurant(ctx, id, payload.RestaurantID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(ordertransport.ToDTO(order)).Build()
}

func (h *Handler) advanceStatus(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.orders.advanceStatus",
		trace.WithAttributes(
			attribute.Int64("order.id", id),
			attribute.String("order.status", payload.Status),
		))
	defer span.End()

	order, err := h.orders.AdvanceStatus(ctx, id, entity.Status(payload.Status))
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(ordertransport.ToDTO(order)).Build()
}
