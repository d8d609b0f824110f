package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tidwall/gjson"

	"github.com/iliyamo/buildrr-backend/internal/logger"
	"github.com/iliyamo/buildrr-backend/internal/mailer"
)

// ErrUnsupportedEvent marks a message the worker cannot handle. Such
// messages are rejected without requeue.
var ErrUnsupportedEvent = errors.New("unsupported event")

// Consumer drains the notification queue and hands each email to a mailer.
type Consumer struct {
	url    string
	mailer mailer.Mailer
	log    logger.Logger
}

func NewConsumer(url string, m mailer.Mailer, log logger.Logger) *Consumer {
	return &Consumer{url: url, mailer: m, log: log}
}

// Run connects, consumes and reconnects with exponential backoff until ctx
// is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return nil
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.WithFields(map[string]interface{}{"error": err.Error(), "retry_in": backoff.String()}).
				Warn("notification-consumer: failed to dial broker")
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.WithField("error", err.Error()).Warn("notification-consumer: consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
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

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		c.log.WithField("error", err.Error()).Warn("notification-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(NotificationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(NotificationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(ctx, d.Body); err != nil {
				c.log.WithField("error", err.Error()).Warn("notification-consumer: handle message failed")
				// No requeue; a failing mail server would otherwise spin the loop.
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handleMessage checks the envelope before decoding so that messages from
// a newer producer are refused rather than half-understood.
func (c *Consumer) handleMessage(ctx context.Context, body []byte) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("%w: body is not JSON", ErrUnsupportedEvent)
	}
	if kind := gjson.GetBytes(body, "kind").String(); kind != KindEmail {
		return fmt.Errorf("%w: kind %q", ErrUnsupportedEvent, kind)
	}
	if v := gjson.GetBytes(body, "version").Int(); v != EventVersion {
		return fmt.Errorf("%w: version %d", ErrUnsupportedEvent, v)
	}

	var ev NotificationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Email.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrUnsupportedEvent)
	}
	return c.mailer.Send(ctx, ev.Email)
}
