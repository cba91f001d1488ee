package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/config"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/protocol"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	Connect(ctx context.Context, outbox entity.Outbox) (*entity.Player, error)
	Shoot(ctx context.Context, connID string, row, col int) (entity.ShotResult, error)
	Disconnect(ctx context.Context, connID string)
	Shutdown(ctx context.Context)
}

type Server struct {
	logger      *slog.Logger
	gameManager gameManager
	conf        config.WebSocket
	upgrader    websocket.Upgrader

	mu          sync.Mutex
	connections map[string]*Connection
	pumps       sync.WaitGroup
}

func New(logger *slog.Logger, gameManager gameManager, conf config.WebSocket) *Server {
	return &Server{
		logger:      logger.With("component", "websocket"),
		gameManager: gameManager,
		conf:        conf,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		connections: make(map[string]*Connection),
	}
}

// Handler - routes of the game socket.
func (that *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ws", that.serveWS).Methods(http.MethodGet)

	return router
}

// Start - starts WebSocket server. When ctx is done every game is ended and every connection closed.
func (that *Server) Start(ctx context.Context, port string) error {
	log := that.logger.With("method", "Start")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down server", "error", err)
	}

	that.Shutdown(shutdownCtx)

	return nil
}

// Shutdown - ends running games, then closes all connections after their queued messages are written.
func (that *Server) Shutdown(ctx context.Context) {
	that.gameManager.Shutdown(ctx)

	that.mu.Lock()
	for _, conn := range that.connections {
		conn.Close()
	}
	that.mu.Unlock()

	that.pumps.Wait()
}

func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	socket, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(that.logger, socket, that.conf)

	that.track(conn)
	defer that.untrack(conn)

	that.pumps.Add(1)
	go func() {
		defer that.pumps.Done()
		conn.writePump()
	}()

	ctx := context.WithoutCancel(req.Context())

	if _, err = that.gameManager.Connect(ctx, conn); err != nil {
		log.Warn("failed to connect player", "connID", conn.ID(), "error", err)
		if errors.Is(err, apperror.ErrRegistryFull) {
			_ = conn.Send(protocol.NewError(apperror.ErrRegistryFull.Error()))
		}
		conn.Close()
		return
	}

	log.Info("WebSocket connection established", "connID", conn.ID())

	conn.readPump(func(data []byte) {
		that.handleMessage(ctx, conn, data)
	})

	that.gameManager.Disconnect(ctx, conn.ID())
	log.Info("WebSocket connection closed", "connID", conn.ID())
}

func (that *Server) track(conn *Connection) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.connections[conn.ID()] = conn
}

func (that *Server) untrack(conn *Connection) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.connections, conn.ID())
}
