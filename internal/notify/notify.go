// Package notify publishes build outcome messages so downstream deploy jobs can react
// to a finished site build.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/studyknots/knotsdocs/internal/foundation/errors"
	"github.com/studyknots/knotsdocs/internal/logfields"
	"github.com/studyknots/knotsdocs/internal/retry"
)

// Outcome values carried by Message.Outcome.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Message is the JSON payload published for every finished build.
type Message struct {
	BuildID     string    `json:"build_id"`
	Outcome     string    `json:"outcome"`
	Site        string    `json:"site"`
	Documents   int       `json:"documents"`
	Warnings    int       `json:"warnings"`
	Output      string    `json:"output,omitempty"`
	Error       string    `json:"error,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	Timestamp   time.Time `json:"timestamp"`
	BundleHash  string    `json:"bundle_hash,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
}

// Publisher delivers build messages.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Noop discards every message.
type Noop struct{}

func (Noop) Publish(context.Context, Message) error { return nil }
func (Noop) Close() error                           { return nil }

// NATSPublisher publishes build messages on a core NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	retry   retry.Policy
}

// NewNATSPublisher connects to url. The connection is owned by the publisher.
func NewNATSPublisher(url, subject string, logger *slog.Logger, opts ...nats.Option) (*NATSPublisher, error) {
	if url == "" {
		return nil, errors.NotifyError("NATS URL is required").Build()
	}
	if subject == "" {
		return nil, errors.NotifyError("NATS subject is required").WithContext("url", url).Build()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts = append([]nats.Option{nats.Name("knotsdocs"), nats.Timeout(5 * time.Second)}, opts...)
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}

	logger.Info("NATS publisher connected", "url", url, "subject", subject)
	return &NATSPublisher{conn: conn, subject: subject, logger: logger, retry: retry.DefaultPolicy()}, nil
}

// WithRetry replaces the backoff policy used when a publish fails.
func (p *NATSPublisher) WithRetry(policy retry.Policy) *NATSPublisher {
	p.retry = policy
	return p
}

// Publish sends msg and waits for the server to acknowledge the flush. Failed
// attempts are retried under the publisher's retry policy.
func (p *NATSPublisher) Publish(ctx context.Context, msg Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	data, err := Encode(msg)
	if err != nil {
		return err
	}

	attempts := 0
	err = p.retry.Do(ctx, func(ctx context.Context) error {
		attempts++
		return p.publishOnce(ctx, data)
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to publish build message").
			WithContext("subject", p.subject).
			WithContext("attempts", attempts).
			Build()
	}

	p.logger.Debug("Published build message", logfields.BuildID(msg.BuildID), "outcome", msg.Outcome, "subject", p.subject)
	return nil
}

func (p *NATSPublisher) publishOnce(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.conn.Publish(p.subject, data); err != nil {
		return err
	}
	return p.conn.FlushWithContext(ctx)
}

// Close drains and closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return errors.WrapError(err, errors.CategoryNotify, "failed to drain NATS connection").Build()
	}
	return nil
}

// Encode marshals msg as the wire payload.
func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to marshal build message").
			WithContext("build_id", msg.BuildID).
			Build()
	}
	return data, nil
}
