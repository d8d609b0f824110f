// Package queue carries notification emails over RabbitMQ so that request
// handlers do not wait on the mail server.
package queue

import (
	"time"

	"github.com/iliyamo/buildrr-backend/internal/mailer"
)

// NotificationQueue is the durable queue both sides declare.
const NotificationQueue = "notifications.email"

const (
	KindEmail    = "email"
	EventVersion = 1
)

// NotificationEvent is the JSON body of one queued email.
type NotificationEvent struct {
	Kind     string         `json:"kind"`
	Version  int            `json:"version"`
	Email    mailer.Message `json:"email"`
	QueuedAt string         `json:"queued_at"`
}

func newEmailEvent(msg mailer.Message, now time.Time) NotificationEvent {
	return NotificationEvent{
		Kind:     KindEmail,
		Version:  EventVersion,
		Email:    msg,
		QueuedAt: now.UTC().Format(time.RFC3339),
	}
}
