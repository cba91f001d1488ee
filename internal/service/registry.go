package service

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

type registration struct {
	player *entity.Player
	game   *entity.Game
}

// ConnectionRegistry - owns the connection to player association and the index of running games.
// A zero maxPlayers means no limit.
type ConnectionRegistry struct {
	mu      sync.RWMutex
	players map[string]*registration
	games   map[string]*entity.Game

	fleet      []int
	rnd        entity.Rand
	maxPlayers int
}

// NewConnectionRegistry - rnd is shared by concurrent Register calls and must be goroutine-safe
// unless the caller serializes registrations.
func NewConnectionRegistry(fleet []int, rnd entity.Rand, maxPlayers int) (*ConnectionRegistry, error) {
	if err := entity.ValidateFleet(fleet); err != nil {
		return nil, err
	}

	return &ConnectionRegistry{
		players:    make(map[string]*registration),
		games:      make(map[string]*entity.Game),
		fleet:      fleet,
		rnd:        rnd,
		maxPlayers: maxPlayers,
	}, nil
}

// Register - creates a player with a freshly placed board for the connection.
func (that *ConnectionRegistry) Register(outbox entity.Outbox) (*entity.Player, error) {
	board := entity.NewBoard()
	if err := board.Place(that.rnd, that.fleet); err != nil {
		return nil, fmt.Errorf("failed to place fleet: %w", err)
	}

	player := entity.NewPlayer(outbox, board)

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.maxPlayers > 0 && len(that.players) >= that.maxPlayers {
		return nil, fmt.Errorf("%w: limit %d", apperror.ErrRegistryFull, that.maxPlayers)
	}

	if _, ok := that.players[player.ID]; ok {
		return nil, fmt.Errorf("connection %s is already registered", player.ID)
	}

	that.players[player.ID] = &registration{player: player}

	return player, nil
}

// Unregister - forgets the connection. When its player was in a game the game leaves the index
// and the opponent loses the association too. Second calls report ok=false.
func (that *ConnectionRegistry) Unregister(connID string) (*entity.Player, *entity.Game, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	reg, ok := that.players[connID]
	if !ok {
		return nil, nil, false
	}

	delete(that.players, connID)

	if reg.game != nil {
		that.detach(reg.game)
	}

	return reg.player, reg.game, true
}

// Attach - binds both players of a new game to it. Fails when one of them is already gone.
func (that *ConnectionRegistry) Attach(game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	players := game.Players()
	for _, player := range players {
		if _, ok := that.players[player.ID]; !ok {
			return fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, player.ID)
		}
	}

	for _, player := range players {
		that.players[player.ID].game = game
	}

	that.games[game.ID()] = game

	return nil
}

// Detach - removes a finished game from the index and from its players.
func (that *ConnectionRegistry) Detach(game *entity.Game) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.detach(game)
}

func (that *ConnectionRegistry) detach(game *entity.Game) {
	delete(that.games, game.ID())

	for _, player := range game.Players() {
		if reg, ok := that.players[player.ID]; ok && reg.game == game {
			reg.game = nil
		}
	}
}

// Lookup - the player of a connection and its current game, if any.
func (that *ConnectionRegistry) Lookup(connID string) (*entity.Player, *entity.Game, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	reg, ok := that.players[connID]
	if !ok {
		return nil, nil, false
	}

	return reg.player, reg.game, true
}

func (that *ConnectionRegistry) Game(id string) (*entity.Game, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]

	return game, ok
}

// Count - number of connected players and running games.
func (that *ConnectionRegistry) Count() (int, int) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.players), len(that.games)
}

// Drain - detaches and returns every running game. Used on shutdown.
func (that *ConnectionRegistry) Drain() []*entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	games := make([]*entity.Game, 0, len(that.games))
	for _, game := range that.games {
		games = append(games, game)
	}

	for _, game := range games {
		that.detach(game)
	}

	return games
}
