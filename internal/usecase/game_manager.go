package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/service"
)

// lobbyNotifier - game events plus the notice for a player left waiting in the queue.
type lobbyNotifier interface {
	entity.Notifier
	Waiting(player *entity.Player) error
}

type recorder interface {
	Record(event string, record entity.GameRecord) bool
}

type gameArchive interface {
	GetByID(ctx context.Context, id string) (*entity.GameRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

// Stats - live counters of the server.
type Stats struct {
	Players int `json:"players"`
	Waiting int `json:"waiting"`
	Games   int `json:"games"`
}

type GameManager struct {
	logger *slog.Logger

	registry *service.ConnectionRegistry
	queue    *service.MatchmakingQueue
	notifier lobbyNotifier
	recorder recorder
	archive  gameArchive
}

func NewGameManager(
	logger *slog.Logger,
	registry *service.ConnectionRegistry,
	notifier lobbyNotifier,
	recorder recorder,
	archive gameArchive,
) *GameManager {
	manager := &GameManager{
		logger: logger.With("component", "game_manager"),

		registry: registry,
		notifier: notifier,
		recorder: recorder,
		archive:  archive,
	}

	manager.queue = service.NewMatchmakingQueue(manager.newGame)
	manager.queue.SetWaitHook(manager.notifyWaiting)

	return manager
}

func (that *GameManager) newGame(first, second *entity.Player) (*entity.Game, error) {
	return entity.NewGame(uuid.NewString(), first, second, that.notifier)
}

func (that *GameManager) notifyWaiting(player *entity.Player) {
	if err := that.notifier.Waiting(player); err != nil {
		that.logger.Warn("failed to notify waiting player", "playerID", player.ID, "error", err)
	}
}

// Connect - registers a new connection and either queues it or starts a game with the longest waiting player.
func (that *GameManager) Connect(_ context.Context, outbox entity.Outbox) (*entity.Player, error) {
	log := that.logger.With("method", "Connect")

	player, err := that.registry.Register(outbox)
	if err != nil {
		return nil, fmt.Errorf("failed to register connection: %w", err)
	}

	var game *entity.Game
	for {
		game, err = that.queue.EnqueueOrPair(player)
		if err != nil {
			that.registry.Unregister(player.ID)

			return nil, fmt.Errorf("failed to enqueue player: %w", err)
		}

		if game == nil {
			log.Debug("player is waiting for an opponent", "playerID", player.ID)

			return player, nil
		}

		if err = that.start(game); err == nil {
			return player, nil
		}

		// the opponent left before the start went out; nobody has seen this game
		log.Info("game abandoned before start", "gameID", game.ID(), "cause", err)
		player.Seat = entity.NoSeat

		if _, _, ok := that.registry.Lookup(player.ID); !ok {
			return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, player.ID)
		}
	}
}

// start - makes a freshly paired game reachable and sends start to both players.
// Fails when one of them left in the meantime.
func (that *GameManager) start(game *entity.Game) error {
	log := that.logger.With("method", "start")

	if err := that.registry.Attach(game); err != nil {
		return fmt.Errorf("failed to attach game: %w", err)
	}

	err := game.Start()
	if errors.Is(err, apperror.ErrGameFinished) {
		that.registry.Detach(game)

		return err
	}

	if err != nil {
		log.Warn("failed to deliver start", "gameID", game.ID(), "error", err)
	}

	players := game.Players()
	log.Info("game started", "gameID", game.ID(), "first", players[0].ID, "second", players[1].ID)
	that.recorder.Record(EventStarted, game.Record())

	return nil
}

// Shoot - fires at the opponent of the connection's player. The game is always resolved from
// the connection, never from client supplied identifiers.
func (that *GameManager) Shoot(_ context.Context, connID string, row, col int) (entity.ShotResult, error) {
	log := that.logger.With("method", "Shoot")

	player, game, ok := that.registry.Lookup(connID)
	if !ok {
		return entity.ShotResult{}, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, connID)
	}

	if game == nil {
		return entity.ShotResult{}, apperror.ErrNoActiveGame
	}

	result, err := game.ApplyShot(player, row, col)
	if err != nil && !errors.Is(err, apperror.ErrDeliveryFailed) {
		return result, err
	}

	if err != nil {
		log.Warn("shot applied but not delivered", "gameID", game.ID(), "error", err)
	}

	if !result.GameOver {
		that.recorder.Record(EventShot, game.Record())

		return result, nil
	}

	that.registry.Detach(game)
	log.Info("game finished", "gameID", game.ID(), "winner", player.ID)
	that.recorder.Record(EventFinished, game.Record())

	return result, nil
}

// Disconnect - tears down everything the connection owned. Safe to call more than once.
func (that *GameManager) Disconnect(_ context.Context, connID string) {
	log := that.logger.With("method", "Disconnect")

	player, game, ok := that.registry.Unregister(connID)
	if !ok {
		return
	}

	if that.queue.Remove(player.ID) {
		log.Debug("waiting player left", "playerID", player.ID)
	}

	if game == nil {
		return
	}

	finished, err := game.Finish(player, entity.ReasonOpponentLeft)
	if err != nil {
		log.Warn("failed to deliver end", "gameID", game.ID(), "error", err)
	}

	if finished {
		log.Info("game ended by disconnect", "gameID", game.ID(), "playerID", player.ID)
		that.recorder.Record(EventFinished, game.Record())
	}
}

// Shutdown - ends every running game and notifies its players.
func (that *GameManager) Shutdown(_ context.Context) {
	log := that.logger.With("method", "Shutdown")

	games := that.registry.Drain()
	for _, game := range games {
		finished, err := game.Finish(nil, entity.ReasonShutdown)
		if err != nil {
			log.Warn("failed to deliver end", "gameID", game.ID(), "error", err)
		}

		if finished {
			that.recorder.Record(EventFinished, game.Record())
		}
	}

	log.Info("all games ended", "count", len(games))
}

// GetGameRecord - a running game's live record, or the archived one.
func (that *GameManager) GetGameRecord(ctx context.Context, id string) (*entity.GameRecord, error) {
	if game, ok := that.registry.Game(id); ok {
		record := game.Record()

		return &record, nil
	}

	record, err := that.archive.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game record: %w", err)
	}

	return record, nil
}

// DeleteGameRecord - removes an archived game. Running games cannot be deleted.
func (that *GameManager) DeleteGameRecord(ctx context.Context, id string) error {
	if _, ok := that.registry.Game(id); ok {
		return fmt.Errorf("game %s: %w", id, apperror.ErrGameRunning)
	}

	if err := that.archive.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game record: %w", err)
	}

	return nil
}

func (that *GameManager) Stats() Stats {
	players, games := that.registry.Count()

	return Stats{
		Players: players,
		Waiting: that.queue.Len(),
		Games:   games,
	}
}
