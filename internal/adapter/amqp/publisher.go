// Package amqp publishes batch notifications to a RabbitMQ fanout exchange.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// DefaultExchange is the fanout exchange notifications are published to.
const DefaultExchange = "nt_notifications"

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// session is one open connection and channel.
type session struct {
	ch    channel
	close func() error
}

type dialFunc func() (session, error)

// Publisher implements batch.Sink. A closed channel is redialed once per
// publish attempt.
type Publisher struct {
	dial     dialFunc
	exchange string
	log      *slog.Logger

	mu   sync.Mutex
	sess *session
}

// Message is the JSON body of a published notification.
type Message struct {
	OperationID string    `json:"operation_id"`
	Kind        string    `json:"kind"`
	TargetID    string    `json:"target_id"`
	Count       int       `json:"count"`
	Text        string    `json:"message"`
	EmittedAt   time.Time `json:"emitted_at"`
}

// NewMessage converts a notification to its wire form.
func NewMessage(n domain.Notification) Message {
	return Message{
		OperationID: n.OperationID,
		Kind:        string(n.Kind),
		TargetID:    n.TargetID,
		Count:       n.Count,
		Text:        n.Message,
		EmittedAt:   n.EmittedAt.UTC(),
	}
}

// Dial connects to url and declares the durable fanout exchange.
func Dial(log *slog.Logger, url, exchange string) (*Publisher, error) {
	return newPublisher(log, func() (session, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return session{}, fmt.Errorf("dial amqp: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return session{}, fmt.Errorf("open amqp channel: %w", err)
		}
		return session{ch: ch, close: conn.Close}, nil
	}, exchange)
}

func newPublisher(log *slog.Logger, dial dialFunc, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{
		dial:     dial,
		exchange: exchange,
		log:      log.With("sink", "amqp", slog.String("exchange", exchange)),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.sessionLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) sessionLocked() (*session, error) {
	if p.sess != nil {
		return p.sess, nil
	}

	s, err := p.dial()
	if err != nil {
		return nil, err
	}
	if err := s.ch.ExchangeDeclare(
		p.exchange, // name
		"fanout",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // args
	); err != nil {
		_ = s.ch.Close()
		_ = s.close()
		return nil, fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}

	p.sess = &s
	return p.sess, nil
}

func (p *Publisher) dropLocked() {
	if p.sess == nil {
		return
	}
	_ = p.sess.ch.Close()
	_ = p.sess.close()
	p.sess = nil
}

// Notify implements batch.Sink.
func (p *Publisher) Notify(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(NewMessage(n))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.OperationID,
		Type:         string(n.Kind),
		Timestamp:    n.EmittedAt,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := 0; attempt < 2; attempt++ {
		s, err := p.sessionLocked()
		if err != nil {
			return err
		}
		err = s.ch.PublishWithContext(ctx, p.exchange, "", false, false, msg)
		if err == nil {
			p.log.DebugContext(ctx, "notification published", slog.String("operation_id", n.OperationID))
			return nil
		}
		if !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("publish notification: %w", err)
		}
		p.log.WarnContext(ctx, "amqp channel closed, redialing")
		p.dropLocked()
	}
	return fmt.Errorf("publish notification: %w", amqp.ErrClosed)
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropLocked()
	return nil
}
