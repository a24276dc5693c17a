// Package events publishes domain events to NATS as JSON.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"church-admin-go/pkg/logger"
	"github.com/nats-io/nats.go"
)

const DefaultSubjectPrefix = "church_admin"

type Publisher struct {
	conn   *nats.Conn
	prefix string
	owned  bool
	log    logger.Logger
}

// Connect dials NATS and returns a publisher that owns the connection.
func Connect(url, prefix string, log logger.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("church-admin"),
		nats.Timeout(2*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("events: nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("events: nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	publisher := NewPublisher(conn, prefix, log)
	publisher.owned = true
	return publisher, nil
}

func NewPublisher(conn *nats.Conn, prefix string, log logger.Logger) *Publisher {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Publisher{conn: conn, prefix: prefix, log: log}
}

func (p *Publisher) Subject(event string) string {
	return p.prefix + "." + event
}

func (p *Publisher) Publish(ctx context.Context, event string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}

	subject := p.Subject(event)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.log.Debug("events: published", "subject", subject)
	return nil
}

func (p *Publisher) Close() error {
	if p.conn == nil || !p.owned {
		return nil
	}
	return p.conn.Drain()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error {
	return nil
}

func (Nop) Close() error {
	return nil
}
