package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	prefetch   = 50
	maxBackoff = 30 * time.Second
)

// Consumer reads QueueName and appends one journal entry per event.
// Malformed messages are rejected without requeue.
type Consumer struct {
	url     string
	journal *zap.Logger
	log     *zap.Logger
}

// NewConsumer returns a Consumer writing to journal and reporting its own
// state to log.
func NewConsumer(url string, journal, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{url: url, journal: journal, log: log}
}

// Run consumes until ctx is cancelled, reconnecting with exponential
// backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("booking consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("booking consumer: reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.log.Warn("booking consumer: set qos failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", QueueName, err)
	}
	msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", QueueName, err)
	}
	c.log.Info("booking consumer: started", zap.String("queue", QueueName))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			headerType, _ := d.Headers[HeaderEventType].(string)
			if err := c.handle(d.Body, headerType); err != nil {
				c.log.Warn("booking consumer: rejecting message", zap.String("message_id", d.MessageId), zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handle journals one message body.
func (c *Consumer) handle(body []byte, headerType string) error {
	ev, err := decodeEvent(body, headerType)
	if err != nil {
		return err
	}
	fields := []zap.Field{
		zap.String("event_id", ev.EventID),
		zap.Uint64("reservation_id", ev.ReservationID),
		zap.Uint64("user_id", ev.UserID),
		zap.Uint64("field_id", ev.FieldID),
		zap.String("field_name", ev.FieldName),
		zap.String("date", ev.Date),
		zap.String("slot", ev.StartTime+"-"+ev.EndTime),
		zap.String("total_price", ev.TotalPrice.StringFixed(2)),
		zap.String("status", ev.Status),
		zap.Time("occurred_at", ev.OccurredAt),
	}
	if ev.PreviousStatus != "" {
		fields = append(fields, zap.String("previous_status", ev.PreviousStatus))
	}
	c.journal.Info(ev.EventType, fields...)
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
