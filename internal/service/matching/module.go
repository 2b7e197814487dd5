package matching

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	orderrepo "github.com/Additional-Code/foodcart/internal/repository/order"
	"github.com/Additional-Code/foodcart/internal/service/geocoding"
	"github.com/Additional-Code/foodcart/internal/service/menu"
)

// Module provides the matching pipeline to Fx.
var Module = fx.Provide(func(menus *menu.Service, resolver *geocoding.Resolver, orders *orderrepo.Repository, logger *zap.Logger) *Service {
	return NewService(menus, resolver, orders, logger)
})
