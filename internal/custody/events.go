package custody

import (
	"context"
	"encoding/json"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

// emit stores an event in the outbox inside tx so it is published only if
// the mutation commits.
func (s *Service) emit(ctx context.Context, tx db.Tx, event repository.CustodyEventPayload) error {
	if s.outbox == nil {
		return nil
	}
	event.OccurredAt = s.timeNow()
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	return s.outbox.CreateTx(ctx, tx, &repository.OutboxTask{
		Payload:   payload,
		Topic:     s.topic,
		CreatedAt: event.OccurredAt,
	})
}

func requestEvent(eventType repository.CustodyEventType, r *repository.Request) repository.CustodyEventPayload {
	returnDate := r.ReturnDate
	return repository.CustodyEventPayload{
		Type:         eventType,
		DeviceID:     r.DeviceID,
		RequestID:    r.ID,
		RequestCode:  r.Code,
		Status:       r.Status,
		ReturnDate:   &returnDate,
		RequesterID:  r.RequesterID,
		AccepterID:   r.AccepterID,
		NextKeeperID: r.NextKeeperID,
	}
}
