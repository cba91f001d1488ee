package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

// Publisher - announces game lifecycle events on <prefix>.<event> subjects.
// A publisher without a connection drops every event.
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	prefix string
}

// Connect - an empty url yields a disabled publisher.
func Connect(logger *slog.Logger, url, prefix string) (*Publisher, error) {
	publisher := &Publisher{
		logger: logger.With("component", "nats"),
		prefix: prefix,
	}

	if url == "" {
		publisher.logger.Info("event publishing is disabled")
		return publisher, nil
	}

	conn, err := nats.Connect(
		url,
		nats.Name("battleship-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			publisher.logger.Warn("disconnected from nats", "error", err)
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			publisher.logger.Info("reconnected to nats", "url", conn.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	publisher.conn = conn

	return publisher, nil
}

func (that *Publisher) Subject(event string) string {
	return that.prefix + "." + event
}

func (that *Publisher) Publish(_ context.Context, event string, record *entity.GameRecord) error {
	if that.conn == nil {
		return nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal game record: %w", err)
	}

	if err = that.conn.Publish(that.Subject(event), data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}

	return nil
}

// Close - flushes pending events and closes the connection.
func (that *Publisher) Close() error {
	if that.conn == nil {
		return nil
	}

	if err := that.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain nats connection: %w", err)
	}

	return nil
}
