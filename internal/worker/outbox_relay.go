package worker

import (
	"context"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey, messageID string, body []byte) error
}

// OutboxRelay drains unpublished outbox rows to the broker. Rows are marked
// published only after the broker confirms them, so delivery is at least once.
// A row that fails maxAttempts times is left in the table and no longer picked up.
type OutboxRelay struct {
	outbox      repository.OutboxRepository
	publisher   Publisher
	log         *logger.Logger
	interval    time.Duration
	batchSize   int
	maxAttempts int
	now         func() time.Time
}

func NewOutboxRelay(outbox repository.OutboxRepository, publisher Publisher, log *logger.Logger, interval time.Duration, batchSize, maxAttempts int) *OutboxRelay {
	return &OutboxRelay{
		outbox:      outbox,
		publisher:   publisher,
		log:         log,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Run polls until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("outbox relay started", "interval", r.interval, "batch_size", r.batchSize, "max_attempts", r.maxAttempts)
	for {
		if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
			r.log.Error("outbox relay pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return
		case <-ticker.C:
		}
	}
}

// RelayOnce publishes one batch and reports how many rows were published.
// A failed publish is recorded on its row and does not stop the batch.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	events, err := r.outbox.FindPending(ctx, r.batchSize, r.maxAttempts)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, ev := range events {
		if ctx.Err() != nil {
			return published, ctx.Err()
		}

		if err := r.publisher.Publish(ctx, ev.RoutingKey, ev.ID, ev.Payload); err != nil {
			r.log.Warn("publish outbox event failed",
				"event_id", ev.ID, "routing_key", ev.RoutingKey, "attempts", ev.Attempts+1, "error", err)
			if merr := r.outbox.MarkFailed(ctx, ev.ID, err.Error()); merr != nil {
				r.log.Error("record outbox failure", "event_id", ev.ID, "error", merr)
			} else if ev.Attempts+1 >= r.maxAttempts {
				r.log.Error("outbox event given up after max attempts",
					"event_id", ev.ID, "routing_key", ev.RoutingKey, "attempts", ev.Attempts+1)
			}
			continue
		}

		if err := r.outbox.MarkPublished(ctx, ev.ID, r.now()); err != nil {
			return published, err
		}
		published++
	}

	if published > 0 {
		r.log.Debug("outbox events published", "count", published)
	}
	return published, nil
}
