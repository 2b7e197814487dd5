package order

import (
	"net/http"
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
	"github.com/Additional-Code/foodcart/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/foodcart/transport/http/order")

// Handler exposes the public order endpoints.
type Handler struct {
	orders   *ordersvc.Service
	matching *matchingsvc.Service
}

// NewHandler constructs an order Handler.
func NewHandler(orders *ordersvc.Service, matching *matchingsvc.Service) *Handler {
	return &Handler{orders: orders, matching: matching}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/orders")
	g.POST("", h.create)
	g.GET("/:id", h.getByID)
	g.GET("/:id/candidates", h.candidates)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create",
		trace.WithAttributes(attribute.Int("order.lines", len(payload.Products))))
	defer span.End()

	order, err := h.orders.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(ToDTO(order)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID",
		trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.orders.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(ToDTO(order)).Build()
}

func (h *Handler) candidates(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.candidates",
		trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.orders.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	result, err := h.matching.Match(ctx, order)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(result).Build()
}

// ToDTO converts an order entity into its transport representation.
func ToDTO(order *entity.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, dto.OrderLineResponse{
			Product:  line.ProductID,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	return dto.OrderResponse{
		ID:            order.ID,
		Firstname:     order.Firstname,
		Lastname:      order.Lastname,
		Phonenumber:   order.Phonenumber,
		Address:       order.Address,
		Status:        string(order.Status),
		Comment:       order.Comment,
		PaymentMethod: string(order.PaymentMethod),
		TotalPrice:    order.TotalPrice(),
		RestaurantID:  order.RestaurantID,
		CreatedAt:     order.CreatedAt,
		Lines:         lines,
	}
}
