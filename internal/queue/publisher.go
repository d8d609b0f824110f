package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/buildrr-backend/internal/logger"
	"github.com/iliyamo/buildrr-backend/internal/mailer"
)

// Publisher implements mailer.Mailer by queueing the message for the
// notification worker. A connection is opened per publish; notification
// volume is a handful of mails per business event.
type Publisher struct {
	url string
	log logger.Logger
}

// maxDialTimeout bounds the broker handshake inside a request.
const maxDialTimeout = 2 * time.Second

func NewPublisher(url string, log logger.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

func (p *Publisher) Send(ctx context.Context, msg mailer.Message) error {
	body, err := json.Marshal(newEmailEvent(msg, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	timeout, err := dialTimeout(ctx)
	if err != nil {
		return err
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		p.log.WithField("error", err.Error()).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so queued mail survives a broker restart.
	if _, err := ch.QueueDeclare(NotificationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", NotificationQueue, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// dialTimeout is maxDialTimeout, shortened to what is left of ctx.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := maxDialTimeout
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if left < timeout {
			timeout = left
		}
	}
	return timeout, nil
}
