package storage

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"zestify-storefront/storefront-svc/internal/domain"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// DraftPublisher sends cart drafts to Kafka keyed by session, so drafts of one
// session stay ordered within a partition.
type DraftPublisher struct {
	Writer MessageWriter
}

func NewDraftPublisher(writer MessageWriter) *DraftPublisher {
	return &DraftPublisher{Writer: writer}
}

func (p *DraftPublisher) PushDraft(ctx context.Context, draft domain.DraftCart) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(draft.SessionID),
		Value: payload,
	})
}
