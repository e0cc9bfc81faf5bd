package service

import (
	"context"

	"github.com/segmentio/kafka-go"

	"zestify-storefront/tracking-svc/internal/domain"
	"zestify-storefront/tracking-svc/internal/storage"
)

type StoreInterface interface {
	SaveStatus(ctx context.Context, msg domain.StatusMessage) error
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessStatus(ctx context.Context, msg domain.StatusMessage)
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
