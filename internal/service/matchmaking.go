package service

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

// GameFactory creates a game for two freshly paired players.
type GameFactory func(first, second *entity.Player) (*entity.Game, error)

// MatchmakingQueue - FIFO of players waiting for an opponent.
type MatchmakingQueue struct {
	mu      sync.Mutex
	waiting []*entity.Player
	newGame GameFactory
	onWait  func(*entity.Player)
}

func NewMatchmakingQueue(newGame GameFactory) *MatchmakingQueue {
	return &MatchmakingQueue{
		newGame: newGame,
	}
}

// SetWaitHook - fn runs under the queue lock right after a player starts waiting, so whatever it
// sends is ordered before the start of the game that player later joins. fn must not block.
func (that *MatchmakingQueue) SetWaitHook(fn func(*entity.Player)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onWait = fn
}

// EnqueueOrPair - pairs the player with the longest waiting one, or queues it when nobody waits.
// A nil game means the player is now waiting.
func (that *MatchmakingQueue) EnqueueOrPair(player *entity.Player) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.indexOf(player.ID) >= 0 {
		return nil, fmt.Errorf("%w: %s", apperror.ErrAlreadyQueued, player.ID)
	}

	if len(that.waiting) == 0 {
		that.waiting = append(that.waiting, player)
		if that.onWait != nil {
			that.onWait(player)
		}

		return nil, nil
	}

	head := that.waiting[0]

	game, err := that.newGame(head, player)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.waiting[0] = nil
	that.waiting = that.waiting[1:]

	return game, nil
}

// Remove - drops a waiting player, reports whether it was queued.
func (that *MatchmakingQueue) Remove(playerID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	i := that.indexOf(playerID)
	if i < 0 {
		return false
	}

	that.waiting = append(that.waiting[:i], that.waiting[i+1:]...)

	return true
}

func (that *MatchmakingQueue) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.waiting)
}

func (that *MatchmakingQueue) indexOf(playerID string) int {
	for i, player := range that.waiting {
		if player.ID == playerID {
			return i
		}
	}

	return -1
}
