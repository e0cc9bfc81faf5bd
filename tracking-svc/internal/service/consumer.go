package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"zestify-storefront/tracking-svc/internal/domain"
)

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Logger zerolog.Logger
}

func NewConsumer(reader MessageReader, store StoreInterface, logger zerolog.Logger) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
		Logger: logger,
	}
}

// Start reads until ctx is cancelled. Undecodable messages are skipped.
func (c *Consumer) Start(ctx context.Context) {
	c.Logger.Info().Msg("order status consumer started")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.Logger.Info().Msg("order status consumer stopped")
				return
			}
			c.Logger.Error().Err(err).Msg("failed to read message")
			continue
		}

		var msg domain.StatusMessage
		if err := json.Unmarshal(message.Value, &msg); err != nil {
			c.Logger.Warn().Err(err).Int64("offset", message.Offset).Msg("failed to decode message")
			continue
		}

		c.ProcessStatus(ctx, msg)
	}
}

func (c *Consumer) ProcessStatus(ctx context.Context, msg domain.StatusMessage) {
	if msg.Type != domain.TypeOrderStatus {
		return
	}
	if msg.OrderID == "" || msg.Status == "" {
		c.Logger.Warn().Str("order_id", msg.OrderID).Msg("status message missing order id or status")
		return
	}

	if err := c.Store.SaveStatus(ctx, msg); err != nil {
		c.Logger.Error().Err(err).Str("order_id", msg.OrderID).Msg("failed to store order status")
		return
	}

	c.Logger.Debug().Str("order_id", msg.OrderID).Str("status", msg.Status).Msg("order status updated")
}
