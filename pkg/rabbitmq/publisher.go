package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrNotConfirmed = errors.New("rabbitmq: broker did not confirm publish")

// Publisher sends persistent JSON messages to the bookings exchange and waits
// for the broker's publisher confirm.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logger.Logger
}

func NewPublisher(url string, log *logger.Logger) (*Publisher, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		closeAll(conn, ch)
		return nil, fmt.Errorf("rabbitmq confirm mode: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, log: log}, nil
}

// Publish sends an already-encoded JSON body. messageID lets consumers
// discard redeliveries.
func (p *Publisher) Publish(ctx context.Context, routingKey, messageID string, body []byte) error {
	dc, err := p.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	ok, err := dc.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("wait for confirm: %w", err)
	}
	if !ok {
		return ErrNotConfirmed
	}

	p.log.Debug("published message", "exchange", ExchangeName, "routing_key", routingKey, "message_id", messageID)
	return nil
}

func (p *Publisher) Close() {
	closeAll(p.conn, p.channel)
}
