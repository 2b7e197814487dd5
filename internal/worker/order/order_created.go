package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/config"
	"github.com/Additional-Code/foodcart/internal/messaging"
	"github.com/Additional-Code/foodcart/internal/service/geocoding"
	ordersvc "github.com/Additional-Code/foodcart/internal/service/order"
	"github.com/Additional-Code/foodcart/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/foodcart/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderCreatedHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderCreatedHandler pre-warms the geocode cache for new orders so the
// admin board renders distances without waiting for a live geocoder call.
// Resolution is best-effort; a failed lookup is retried on the next view.
func NewOrderCreatedHandler(resolver *geocoding.Resolver, logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.geocode", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.CreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order created", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}

		point := resolver.ResolveOne(ctx, event.Address)
		if point == nil {
			logger.Info("order address not geocoded yet",
				zap.Int64("id", event.ID),
				zap.String("address", event.Address),
			)
			return nil
		}

		logger.Info("order address geocoded",
			zap.Int64("id", event.ID),
			zap.Float64("lat", point.Lat),
			zap.Float64("lon", point.Lon),
		)
		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
