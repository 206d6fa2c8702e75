// Package mail publishes outbound email events to RabbitMQ. Delivery is
// fire-and-forget: failures are logged and reported, but never roll back the
// state change that triggered the email.
package mail

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends mail events to a durable queue consumed by the mail worker.
type Publisher struct {
	url   string
	queue string
}

// Event is the wire format for the mail worker.
type Event struct {
	Type    string `json:"type"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Code    string `json:"code,omitempty"`
	Token   string `json:"token,omitempty"`
}

func NewPublisher(url, queue string) *Publisher {
	return &Publisher{url: url, queue: queue}
}

// PublishVerification enqueues a verification-code email.
func (p *Publisher) PublishVerification(ctx context.Context, to, code string) error {
	return p.publish(ctx, Event{
		Type:    "email.verify",
		To:      to,
		Subject: "Verify your Nexus AI account",
		Code:    code,
	})
}

// PublishPasswordReset enqueues a password-reset email carrying the raw
// reset token (only the hash is persisted).
func (p *Publisher) PublishPasswordReset(ctx context.Context, to, token string) error {
	return p.publish(ctx, Event{
		Type:    "email.password_reset",
		To:      to,
		Subject: "Reset your Nexus AI password",
		Token:   token,
	})
}

func (p *Publisher) publish(ctx context.Context, event Event) error {
	if p == nil || p.url == "" {
		slog.Warn("mail publisher not configured, skipping", "type", event.Type)
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		slog.Error("mail publish failed", "stage", "dial", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		slog.Error("mail publish failed", "stage", "channel", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		slog.Error("mail publish failed", "stage", "declare", "error", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("mail publish failed", "stage", "marshal", "error", err)
		return err
	}

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		slog.Error("mail publish failed", "stage", "publish", "error", err)
		return err
	}
	return nil
}

// Ping reports whether the broker is reachable.
func (p *Publisher) Ping() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	return conn.Close()
}
