package notification

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Enqueue serializes a mail event into the outbox. Callers pass a repository
// already bound to their transaction so the event commits atomically with
// the state change it describes.
func Enqueue(ctx context.Context, repo OutboxRepository, aggregateType, aggregateID string, event MailEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return repo.Create(ctx, OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     event.EventType,
		Topic:         Topic,
		Payload:       payload,
		Status:        OutboxStatusPending,
	})
}
