package housekeeping

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"fleetledger/internal/logging"
	"fleetledger/internal/store"
)

// Publisher is the external collaborator that actually ships an outbox
// event somewhere (message broker, webhook). This spec only commits to the
// outbox schema and drain ordering; the real publisher is out of scope, so
// the default implementation just logs and marks published.
type Publisher interface {
	Publish(ctx context.Context, event store.OutboxEvent) error
}

type LoggingPublisher struct{}

func (LoggingPublisher) Publish(ctx context.Context, event store.OutboxEvent) error {
	logging.Logger.Info("outbox event drained",
		zap.String("aggregateType", event.AggregateType),
		zap.String("aggregateId", event.AggregateID),
		zap.String("eventType", event.EventType))
	return nil
}

// StartOutboxDrain schedules a cron job that drains outbox_events rows in
// insertion order, marking published_at on success and routing failures to
// dlq_messages.
func StartOutboxDrain(ctx context.Context, outbox *store.OutboxStore, publisher Publisher, cronExpr string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronExpr, func() {
		drainOnce(ctx, outbox, publisher)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func drainOnce(ctx context.Context, outbox *store.OutboxStore, publisher Publisher) {
	events, err := outbox.Unpublished(ctx, 100)
	if err != nil {
		logging.Logger.Error("failed to list unpublished outbox events", zap.Error(err))
		return
	}
	for _, e := range events {
		if err := publisher.Publish(ctx, e); err != nil {
			logging.Logger.Error("outbox publish failed, routing to DLQ", zap.String("eventId", e.ID), zap.Error(err))
			if dlqErr := outbox.MoveToDLQ(ctx, e.ID, err.Error(), e.Payload); dlqErr != nil {
				logging.Logger.Error("failed to record DLQ message", zap.Error(dlqErr))
			}
			continue
		}
		if err := outbox.MarkPublished(ctx, e.ID); err != nil {
			logging.Logger.Error("failed to mark outbox event published", zap.String("eventId", e.ID), zap.Error(err))
		}
	}
}
