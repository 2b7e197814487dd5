package geocoding

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/config"
	"github.com/Additional-Code/foodcart/internal/geocoder"
	"github.com/Additional-Code/foodcart/internal/repository/place"
)

// Module provides the geocoding resolver to Fx.
var Module = fx.Provide(func(places *place.Repository, client *geocoder.Client, cfg config.Config, logger *zap.Logger) *Resolver {
	return NewResolver(places, client, cfg.Geocoder, logger)
})
