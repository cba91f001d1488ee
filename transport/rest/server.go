package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type gameService interface {
	GetGameRecord(ctx context.Context, id string) (*entity.GameRecord, error)
	DeleteGameRecord(ctx context.Context, id string) error
	Stats() usecase.Stats
}

type handlers struct {
	logger *slog.Logger
	games  gameService
}

// NewRouter - inspection endpoints of the server.
func NewRouter(logger *slog.Logger, games gameService) http.Handler {
	h := &handlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}

	router := mux.NewRouter()
	router.HandleFunc("/ping", h.PingHandler).Methods(http.MethodGet)
	router.HandleFunc("/games/{id}", h.GameHandler).Methods(http.MethodGet)
	router.HandleFunc("/games/{id}", h.DeleteGameHandler).Methods(http.MethodDelete)
	router.HandleFunc("/stats", h.StatsHandler).Methods(http.MethodGet)

	return router
}

// Start - serves the router until ctx is done.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
