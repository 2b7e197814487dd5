package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/foodcart/internal/cache"
	"github.com/Additional-Code/foodcart/internal/config"
	"github.com/Additional-Code/foodcart/internal/database"
	"github.com/Additional-Code/foodcart/internal/geocoder"
	"github.com/Additional-Code/foodcart/internal/logger"
	"github.com/Additional-Code/foodcart/internal/messaging"
	"github.com/Additional-Code/foodcart/internal/observability"
	repositoryorder "github.com/Additional-Code/foodcart/internal/repository/order"
	repositoryplace "github.com/Additional-Code/foodcart/internal/repository/place"
	repositoryproduct "github.com/Additional-Code/foodcart/internal/repository/product"
	repositoryrestaurant "github.com/Additional-Code/foodcart/internal/repository/restaurant"
	httpserver "github.com/Additional-Code/foodcart/internal/server/http"
	servicegeocoding "github.com/Additional-Code/foodcart/internal/service/geocoding"
	servicematching "github.com/Additional-Code/foodcart/internal/service/matching"
	servicemenu "github.com/Additional-Code/foodcart/internal/service/menu"
	serviceorder "github.com/Additional-Code/foodcart/internal/service/order"
	transporthttp "github.com/Additional-Code/foodcart/internal/transport/http"
	"github.com/Additional-Code/foodcart/internal/worker"
	workerorder "github.com/Additional-Code/foodcart/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	geocoder.Module,
	repositoryorder.Module,
	repositoryplace.Module,
	repositoryproduct.Module,
	repositoryrestaurant.Module,
	servicegeocoding.Module,
	servicemenu.Module,
	serviceorder.Module,
	servicematching.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
