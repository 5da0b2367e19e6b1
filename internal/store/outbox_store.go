package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OutboxEvent struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       json.RawMessage
}

type OutboxStore struct {
	Pool *pgxpool.Pool
}

func NewOutboxStore(pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{Pool: pool}
}

// Append inserts an outbox row in the caller's transaction, so an event
// never exists without the state change that produced it.
func (s *OutboxStore) Append(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO outbox_events (aggregate_type, aggregate_id, event_type, payload)
		VALUES ($1,$2,$3,$4)`, aggregateType, aggregateID, eventType, body)
	return err
}

// Unpublished returns the oldest unpublished rows in insertion order, the
// order the (external) publisher is required to drain them in.
func (s *OutboxStore) Unpublished(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload
		FROM outbox_events WHERE published_at IS NULL
		ORDER BY "createdAt" ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *OutboxStore) MarkPublished(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `UPDATE outbox_events SET published_at=NOW() WHERE id=$1`, id)
	return err
}

func (s *OutboxStore) MoveToDLQ(ctx context.Context, eventID, reason string, payload json.RawMessage) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO dlq_messages (source_event_id, reason, payload) VALUES ($1,$2,$3)`,
		eventID, reason, payload)
	return err
}
