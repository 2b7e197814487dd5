package http

import (
	"go.uber.org/fx"

	admintransport "github.com/Additional-Code/foodcart/internal/transport/http/admin"
	ordertransport "github.com/Additional-Code/foodcart/internal/transport/http/order"
	producttransport "github.com/Additional-Code/foodcart/internal/transport/http/product"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	producttransport.Module,
	admintransport.Module,
)
