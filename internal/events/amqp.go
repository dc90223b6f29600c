package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the bridge publishes through.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPBridge forwards bus events to a fanout exchange so out-of-process
// presentation layers can refresh.
type AMQPBridge struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
	origin   string
}

func DialAMQPBridge(url, exchange string) (*AMQPBridge, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPBridge{conn: conn, channel: ch, exchange: exchange, origin: uuid.NewString()}, nil
}

// Forward publishes e to the exchange, stamped with the bridge's origin.
func (b *AMQPBridge) Forward(ctx context.Context, e Event) error {
	if e.Origin == "" {
		e.Origin = b.origin
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = b.channel.PublishWithContext(ctx, b.exchange, string(e.Kind), false, false, amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   e.At,
		Type:        string(e.Kind),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}

// Handler adapts Forward to a bus subscription. Delivery is best effort.
func (b *AMQPBridge) Handler() Handler {
	return func(e Event) {
		if err := b.Forward(context.Background(), e); err != nil {
			slog.Error("failed to forward event", "kind", e.Kind, "error", err)
		}
	}
}

// Listen hands events published by other processes to h until ctx is done.
// Events this bridge forwarded itself are skipped.
// Each listener gets its own exclusive queue bound to the exchange.
func (b *AMQPBridge) Listen(ctx context.Context, h Handler) error {
	if b.conn == nil {
		return errors.New("bridge has no connection")
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", b.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}

			b.deliver(d.Body, h)
		}
	}
}

// deliver hands a received event to h unless it is malformed or was forwarded
// by this bridge.
func (b *AMQPBridge) deliver(body []byte, h Handler) {
	e, err := decodeEvent(body)
	if err != nil {
		slog.Warn("dropping malformed event", "error", err)
		return
	}

	if b.origin != "" && e.Origin == b.origin {
		return
	}

	h(e)
}

func decodeEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}

	if e.Kind == "" {
		return Event{}, errors.New("event without kind")
	}

	return e, nil
}

func (b *AMQPBridge) Close() error {
	if b.conn != nil {
		return b.conn.Close()
	}

	return nil
}
