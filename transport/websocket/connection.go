package websocket

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/config"
)

// Connection - a single client socket. It implements entity.Outbox: Send only queues the message,
// the write pump owns the socket writes.
type Connection struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger
	conf   config.WebSocket

	send      chan any
	done      chan struct{}
	closeOnce sync.Once
}

func newConnection(logger *slog.Logger, conn *websocket.Conn, conf config.WebSocket) *Connection {
	id := uuid.NewString()

	return &Connection{
		id:     id,
		conn:   conn,
		logger: logger.With("connID", id),
		conf:   conf,

		send: make(chan any, conf.SendBuffer),
		done: make(chan struct{}),
	}
}

func (that *Connection) ID() string {
	return that.id
}

// Send - queues msg for delivery. A client too slow to keep up with its buffer is disconnected.
func (that *Connection) Send(msg any) error {
	select {
	case <-that.done:
		return apperror.ErrConnectionClosed
	default:
	}

	select {
	case that.send <- msg:
		return nil
	default:
		that.Close()
		return fmt.Errorf("%w: send buffer of %s is full", apperror.ErrDeliveryFailed, that.id)
	}
}

// Close - stops the connection. Messages queued before Close are still written.
func (that *Connection) Close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

// readPump - delivers every inbound frame to handle until the peer goes away or stops answering pings.
func (that *Connection) readPump(handle func(data []byte)) {
	log := that.logger.With("method", "readPump")

	defer that.Close()

	that.conn.SetReadLimit(that.conf.MaxMessageSize)

	if err := that.conn.SetReadDeadline(time.Now().Add(that.conf.PongWait)); err != nil {
		log.Error("failed to set read deadline", "error", err)
		return
	}

	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(that.conf.PongWait))
	})

	for {
		messageType, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection lost", "error", err)
			}

			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		handle(data)
	}
}

// writePump - writes queued messages and keeps the connection alive with pings.
func (that *Connection) writePump() {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(that.conf.PingPeriod)
	defer func() {
		ticker.Stop()
		that.conn.Close()
	}()

	for {
		select {
		case msg := <-that.send:
			if err := that.write(msg); err != nil {
				log.Warn("failed to write message", "error", err)
				that.Close()
				return
			}
		case <-ticker.C:
			if err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(that.conf.WriteWait)); err != nil {
				log.Debug("failed to ping", "error", err)
				that.Close()
				return
			}
		case <-that.done:
			that.flush()
			return
		}
	}
}

// flush - writes what is left in the queue followed by a close frame.
func (that *Connection) flush() {
	for {
		select {
		case msg := <-that.send:
			if err := that.write(msg); err != nil {
				return
			}
		default:
			_ = that.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(that.conf.WriteWait),
			)
			return
		}
	}
}

func (that *Connection) write(msg any) error {
	if err := that.conn.SetWriteDeadline(time.Now().Add(that.conf.WriteWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}

	return nil
}
