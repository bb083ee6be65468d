// Package events publishes storefront domain events to RabbitMQ.
package events

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange        = "ecommerce.events"
	OrderPlacedRoutingKey = "order.placed.v1"
	producerName          = "storefront-go"
)

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

func declareEventsExchange(ch Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// Dial connects to the broker at url.
func Dial(url string) (*amqp.Connection, error) {
	return amqp.Dial(url)
}
