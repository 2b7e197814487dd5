package order

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/cache"
	"github.com/Additional-Code/foodcart/internal/config"
	"github.com/Additional-Code/foodcart/internal/messaging"
	orderrepo "github.com/Additional-Code/foodcart/internal/repository/order"
	productrepo "github.com/Additional-Code/foodcart/internal/repository/product"
	restaurantrepo "github.com/Additional-Code/foodcart/internal/repository/restaurant"
)

// Module provides the order service to Fx.
var Module = fx.Provide(func(
	orders *orderrepo.Repository,
	products *productrepo.Repository,
	restaurants *restaurantrepo.Repository,
	store cache.Store,
	publisher messaging.Client,
	cfg config.Config,
	logger *zap.Logger,
) *Service {
	return NewService(orders, products, restaurants, store, cfg.Cache.DefaultTTL, publisher, cfg.Messaging.Enabled, logger)
})
