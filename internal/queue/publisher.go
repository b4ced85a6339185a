package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/booking"
)

// dialTimeout bounds connecting to the broker from a request path.
const dialTimeout = 3 * time.Second

// Publisher sends booking events to QueueName over one long-lived channel.
// The connection is opened on first use and reopened after a failure.
type Publisher struct {
	url string
	log *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ booking.Publisher = (*Publisher)(nil)

// NewPublisher returns a Publisher for the broker at url.  No connection is
// made until the first Publish.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, log: log}
}

// Publish implements booking.Publisher.  A failed publish drops the
// channel and is retried once on a fresh one.
func (p *Publisher) Publish(ctx context.Context, ev booking.Event) error {
	msg, err := NewMessage(ev)
	if err != nil {
		return err
	}
	err = p.publish(ctx, msg)
	if err != nil && ctx.Err() == nil {
		p.log.Debug("retrying booking event", zap.String("event_id", ev.ID), zap.Error(err))
		err = p.publish(ctx, msg)
	}
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	p.log.Debug("booking event published",
		zap.String("event_id", ev.ID),
		zap.String("event_type", ev.Type),
		zap.Uint64("reservation_id", ev.ReservationID),
	)
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reset()
}

func (p *Publisher) publish(ctx context.Context, msg amqp.Publishing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(ctx, "", QueueName, false, false, msg); err != nil {
		p.drop(ch)
		return err
	}
	return nil
}

// channel returns the open channel, dialing the broker without holding
// p.mu when there is none.
func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	if p.ch != nil && !p.ch.IsClosed() {
		ch := p.ch
		p.mu.Unlock()
		return ch, nil
	}
	p.mu.Unlock()

	conn, ch, err := p.dial()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil && !p.ch.IsClosed() {
		_ = ch.Close()
		_ = conn.Close()
		return p.ch, nil
	}
	p.reset()
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare %s: %w", QueueName, err)
	}
	return conn, ch, nil
}

// drop discards ch if it is still the current channel.
func (p *Publisher) drop(ch *amqp.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == ch {
		p.reset()
	}
}

// reset must be called with p.mu held.
func (p *Publisher) reset() error {
	var err error
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err = p.conn.Close()
		p.conn = nil
	}
	return err
}
