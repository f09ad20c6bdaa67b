package rabbitmq

import (
	"fmt"

	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const NotificationsQueue = "reservation-service.notifications"

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *logger.Logger
}

// NewConsumer declares a durable queue and binds it to the bookings exchange
// for every given routing pattern.
func NewConsumer(url, queue string, log *logger.Logger, bindings ...string) (*Consumer, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		closeAll(conn, ch)
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	for _, key := range bindings {
		if err := ch.QueueBind(q.Name, key, ExchangeName, false, nil); err != nil {
			closeAll(conn, ch)
			return nil, fmt.Errorf("rabbitmq queue bind %s: %w", key, err)
		}
	}

	if err := ch.Qos(10, 0, false); err != nil {
		closeAll(conn, ch)
		return nil, fmt.Errorf("rabbitmq qos: %w", err)
	}

	return &Consumer{conn: conn, channel: ch, queue: q.Name, log: log}, nil
}

func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // manual ack after processing
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}

	c.log.Info("consuming from queue", "queue", c.queue)
	return msgs, nil
}

func (c *Consumer) Close() {
	closeAll(c.conn, c.channel)
}
