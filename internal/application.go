package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rocketscienceinc/battleship-backend/internal/config"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/protocol"
	"github.com/rocketscienceinc/battleship-backend/internal/repository"
	"github.com/rocketscienceinc/battleship-backend/internal/repository/storage"
	"github.com/rocketscienceinc/battleship-backend/internal/service"
	"github.com/rocketscienceinc/battleship-backend/internal/transport/nats"
	"github.com/rocketscienceinc/battleship-backend/internal/usecase"
	"github.com/rocketscienceinc/battleship-backend/transport/rest"
	"github.com/rocketscienceinc/battleship-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	publisher, err := nats.Connect(logger, conf.NATS.URL, conf.NATS.SubjectPrefix)
	if err != nil {
		return fmt.Errorf("could not connect to nats: %w", err)
	}

	defer func() {
		if err = publisher.Close(); err != nil {
			log.Error("could not close nats connection", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage, conf.Redis.ArchiveTTL)

	recorder := usecase.NewRecorder(logger, gameRepo, publisher, conf.Game.RecorderBuffer)
	recorder.Start()
	defer recorder.Stop()

	registry, err := service.NewConnectionRegistry(conf.Game.Fleet, entity.GlobalRand, conf.Game.MaxPlayers)
	if err != nil {
		return fmt.Errorf("could not create connection registry: %w", err)
	}

	gameManager := usecase.NewGameManager(logger, registry, protocol.NewNotifier(), recorder, gameRepo)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	// run HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, gameManager)); httpErr != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", httpErr)
		}
	}()

	// run Websocket server
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager, conf.WebSocket)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			errCh <- fmt.Errorf("WebSocket server error: %w", wsErr)
		}
	}()

	select {
	case err = <-errCh:
		log.Error("server failed, shutting down", "error", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	cancel()
	wg.Wait()

	return err
}
