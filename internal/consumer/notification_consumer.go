package consumer

import (
	"context"
	"encoding/json"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Notifier is the delivery hook for booking events read back from the broker.
// In-app notifications are already written by the booking service; a Notifier
// only adds an out-of-band channel on top of them.
type Notifier interface {
	Notify(ctx context.Context, ev models.BookingEvent) error
}

// LogNotifier only writes the event to the structured log. It delivers
// nothing to the user and is the default until an email or push Notifier is
// wired in.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, ev models.BookingEvent) error {
	n.log.InfoContext(ctx, "booking event received",
		"event", ev.Event,
		"booking_id", ev.BookingID,
		"user_id", ev.UserID,
		"status", ev.Status,
		"date", ev.Date,
		"time", ev.Time,
	)
	return nil
}

// NotificationConsumer feeds booking.* deliveries to a Notifier, acking or
// requeueing each one.
type NotificationConsumer struct {
	notifier Notifier
	log      *logger.Logger
}

func NewNotificationConsumer(notifier Notifier, log *logger.Logger) *NotificationConsumer {
	return &NotificationConsumer{notifier: notifier, log: log}
}

// Start handles deliveries until msgs is closed or ctx is cancelled. The
// returned channel is closed once the loop has exited.
func (nc *NotificationConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				nc.log.Info("notification consumer stopping")
				return
			case msg, ok := <-msgs:
				if !ok {
					nc.log.Info("delivery channel closed, stopping consumer")
					return
				}
				nc.handleMessage(ctx, msg)
			}
		}
	}()
	return done
}

func (nc *NotificationConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var ev models.BookingEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		nc.log.Warn("dropping malformed booking event", "message_id", msg.MessageId, "error", err)
		_ = msg.Nack(false, false)
		return
	}

	if err := nc.notifier.Notify(ctx, ev); err != nil {
		// One retry through the queue, then give up.
		requeue := !msg.Redelivered
		nc.log.Error("notify failed", "booking_id", ev.BookingID, "event", ev.Event, "requeue", requeue, "error", err)
		_ = msg.Nack(false, requeue)
		return
	}

	_ = msg.Ack(false)
}
