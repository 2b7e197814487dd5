package product

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/Additional-Code/foodcart/internal/presentation/http/response"
	menusvc "github.com/Additional-Code/foodcart/internal/service/menu"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/foodcart/transport/http/product")

// Handler exposes the public product catalog.
type Handler struct {
	menus *menusvc.Service
}

// NewHandler constructs a product Handler.
func NewHandler(menus *menusvc.Service) *Handler {
	return &Handler{menus: menus}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/api/products", h.list)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "products.list")
	defer span.End()

	products, err := h.menus.ListProducts(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(products).Build()
}
