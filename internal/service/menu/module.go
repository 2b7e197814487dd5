package menu

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/cache"
	"github.com/Additional-Code/foodcart/internal/config"
	"github.com/Additional-Code/foodcart/internal/repository/product"
	"github.com/Additional-Code/foodcart/internal/repository/restaurant"
)

// Module provides the menu service to Fx.
var Module = fx.Provide(func(restaurants *restaurant.Repository, products *product.Repository, store cache.Store, cfg config.Config, logger *zap.Logger) *Service {
	return NewService(restaurants, products, store, cfg.Cache.DefaultTTL, logger)
})
