package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"truck-trip-service/internal/domain"
	"truck-trip-service/internal/platform/obs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Upper bound on waiting for a broker confirm.
const publishTimeout = 5 * time.Second

var errClosed = errors.New("amqp publisher: already closed")

// AMQPPublisher publishes trip events as JSON to a durable topic exchange.
type AMQPPublisher struct {
	m          sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	closed     bool

	now func() time.Time
}

// NewAMQPPublisher dials addr, opens a confirming channel and declares exchange.
func NewAMQPPublisher(addr, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		return nil, errors.New("amqp publisher: exchange is required")
	}

	conn, err := amqp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("amqp publisher: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp publisher: open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp publisher: enable confirms: %w", err)
	}

	if err := declareTripEvents(ch, exchange); err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp publisher: declare exchange %q: %w", exchange, err)
	}

	return &AMQPPublisher{
		connection: conn,
		channel:    ch,
		exchange:   exchange,
		now:        time.Now,
	}, nil
}

func (p *AMQPPublisher) TripPlanned(ctx context.Context, trip *domain.TripPlan) (err error) {
	defer obs.Time(ctx, "events.TripPlanned")(&err)

	return p.publish(ctx, RoutingKeyPlanned, NewTripPlannedEvent(trip, p.now()))
}

func (p *AMQPPublisher) TripRejected(ctx context.Context, tripID, reason string) (err error) {
	defer obs.Time(ctx, "events.TripRejected")(&err)

	return p.publish(ctx, RoutingKeyRejected, NewTripRejectedEvent(tripID, reason, p.now()))
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("publish %s: encode: %w", routingKey, err)
	}

	p.m.Lock()
	defer p.m.Unlock()

	if p.closed {
		return errClosed
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	confirm, err := p.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		p.exchange, // Exchange
		routingKey, // Routing key
		false,      // Mandatory
		false,      // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	ok, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("publish %s: wait confirm: %w", routingKey, err)
	}
	if !ok {
		return fmt.Errorf("publish %s: broker nacked delivery %d", routingKey, confirm.DeliveryTag)
	}

	return nil
}

// Close shuts down the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.m.Lock()
	defer p.m.Unlock()

	if p.closed {
		return errClosed
	}
	p.closed = true

	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.connection.Close()
}

func declareTripEvents(ch *amqp.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
}
