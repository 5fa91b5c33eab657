package aggregator

import (
	"context"
	"encoding/json"
	"errors"

	"kungfu-delivery/internal/domain"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Consumer drops cached statistics whenever an order event that can change
// them arrives.
type Consumer struct {
	Reader MessageReader
	Cache  CacheInvalidator
	Log    zerolog.Logger
}

func NewConsumer(reader MessageReader, cache CacheInvalidator, log zerolog.Logger) *Consumer {
	return &Consumer{
		Reader: reader,
		Cache:  cache,
		Log:    log,
	}
}

// Start reads until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.Log.Info().Msg("starting stats aggregation consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.Log.Info().Msg("stats aggregation consumer stopped")
				return
			}
			c.Log.Error().Err(err).Msg("error reading message")
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.Log.Warn().Err(err).Str("key", string(message.Key)).Msg("error unmarshaling order event")
			continue
		}
		c.ProcessEvent(ctx, event)
	}
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) {
	if !affectsStats(event.Type) {
		return
	}
	if err := c.Cache.Invalidate(ctx); err != nil {
		c.Log.Error().Err(err).Int("order_id", event.OrderID).Msg("error invalidating stats cache")
		return
	}
	c.Log.Debug().Str("type", string(event.Type)).Int("order_id", event.OrderID).Msg("stats cache invalidated")
}

// affectsStats reports whether the event can change paid order totals.
func affectsStats(t domain.OrderEventType) bool {
	switch t {
	case domain.EventOrderCreated, domain.EventOrderPaid, domain.EventOrderStatusChanged, domain.EventOrderDeleted:
		return true
	}
	return false
}
