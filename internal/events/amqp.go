package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type AMQP struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// DialAMQP connects to the broker, retrying a few times, and declares a
// durable topic exchange for checkout events.
func DialAMQP(url, exchange string, attempts int, backoff time.Duration) (*AMQP, error) {
	const op = "events.DialAMQP"
	if attempts < 1 {
		attempts = 1
	}
	var conn *amqp.Connection
	var err error
	for i := 0; i < attempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		time.Sleep(backoff)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: channel: %w", op, err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("%s: declare exchange %s: %w", op, exchange, err)
	}
	return &AMQP{conn: conn, ch: ch, exchange: exchange}, nil
}

func newAMQP(ch channel, exchange string) *AMQP {
	return &AMQP{ch: ch, exchange: exchange}
}

func (p *AMQP) PublishOrderPlaced(ctx context.Context, e OrderPlaced) error {
	const op = "events.PublishOrderPlaced"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err = p.ch.Publish(p.exchange, RoutingOrderPlaced, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.OrderID,
		Timestamp:    e.PlacedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p *AMQP) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
