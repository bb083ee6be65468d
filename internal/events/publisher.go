package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const publishTimeout = 3 * time.Second

type Publisher struct {
	ch  Channel
	seq SequenceRepository
	log *zap.Logger
}

// NewPublisher declares the events exchange on ch so publishing never fails
// on missing infrastructure.
func NewPublisher(ch Channel, seq SequenceRepository, log *zap.Logger) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", EventsExchange, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{ch: ch, seq: seq, log: log.Named("events")}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *order.Order, lines []order.Line) error {
	key := partitionKey(o)
	seq, err := p.seq.NextSequence(ctx, key)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env := BuildOrderPlacedEnvelope(o, lines, seq, middleware.GetCorrelationID(ctx))
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}

	if err := p.publishJSON(ctx, OrderPlacedRoutingKey, env.EventID, env.CorrelationID, body); err != nil {
		return fmt.Errorf("publish OrderPlaced: %w", err)
	}
	p.log.Debug("published",
		zap.String("event", orderPlacedEventName),
		zap.String("orderId", o.ID),
		zap.Int64("sequence", seq),
	)
	return nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID, correlationID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     messageID,
			CorrelationId: correlationID,
			Timestamp:     time.Now().UTC(),
			Body:          body,
		},
	)
}
