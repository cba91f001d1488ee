package entity

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

const (
	StatusActive   = "active"
	StatusFinished = "finished"

	ReasonFleetSunk    = "fleet_sunk"
	ReasonOpponentLeft = "opponent_left"
	ReasonShutdown     = "shutdown"
)

var ErrInvalidPairing = errors.New("a game needs two distinct players")

// ShotResult is what both sides learn about a resolved shot.
type ShotResult struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Hit      bool `json:"hit"`
	Sunk     bool `json:"sunk"`
	GameOver bool `json:"gameOver"`
	ShipID   int  `json:"-"`
}

// Notifier delivers game events to players. Calls happen while the game lock is held,
// so implementations must not block and must not call back into the game.
type Notifier interface {
	GameStarted(gameID string, player *Player) error
	ShotResolved(attacker *Player, result ShotResult) error
	ShotReceived(defender *Player, result ShotResult) error
	GameEnded(player *Player, reason string) error
}

// Game - a battleship session between exactly two players.
// All state is guarded by mu; the turn owner is a seat index.
type Game struct {
	mu sync.Mutex

	id           string
	players      [2]*Player
	started      bool
	turn         int
	status       string
	winner       int
	finishReason string
	shotsFired   int
	shots        [2][BoardSize][BoardSize]bool
	startedAt    time.Time
	finishedAt   time.Time

	notifier Notifier
}

// NewGame - pairs two players; the first one takes seat 0 and the first turn.
func NewGame(id string, first, second *Player, notifier Notifier) (*Game, error) {
	if first == nil || second == nil || first.ID == second.ID {
		return nil, ErrInvalidPairing
	}

	first.Seat = SeatFirst
	second.Seat = SeatSecond

	return &Game{
		id:        id,
		players:   [2]*Player{first, second},
		turn:      SeatFirst,
		status:    StatusActive,
		winner:    NoSeat,
		startedAt: time.Now().UTC(),
		notifier:  notifier,
	}, nil
}

func (that *Game) ID() string {
	return that.id
}

func (that *Game) Players() [2]*Player {
	return that.players
}

func (that *Game) Status() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

func (that *Game) IsFinished() bool {
	return that.Status() == StatusFinished
}

// Start - sends every player its own board, the game id and its seat.
// Shots are accepted only once this has run.
func (that *Game) Start() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status != StatusActive {
		return apperror.ErrGameFinished
	}

	that.started = true

	var errs []error
	for _, player := range that.players {
		if err := that.notifier.GameStarted(that.id, player); err != nil {
			errs = append(errs, fmt.Errorf("player %s: %w", player.ID, err))
		}
	}

	return deliveryError(errs)
}

// ApplyShot - resolves a shot of attacker at (row, col) on the opponent's board.
// Rejected shots leave the game untouched. When delivery of the outcome fails the
// shot is still applied and the result is returned with an ErrDeliveryFailed error.
func (that *Game) ApplyShot(attacker *Player, row, col int) (ShotResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	seat, ok := that.seatOf(attacker)
	if !ok {
		return ShotResult{}, apperror.ErrNotInGame
	}

	if !that.started {
		return ShotResult{}, apperror.ErrNoActiveGame
	}

	if that.status != StatusActive {
		return ShotResult{}, apperror.ErrGameFinished
	}

	if that.turn != seat {
		return ShotResult{}, apperror.ErrNotYourTurn
	}

	if !InBounds(row, col) {
		return ShotResult{}, fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	if that.shots[seat][row][col] {
		return ShotResult{}, fmt.Errorf("%w: row %d, col %d", apperror.ErrDuplicateShot, row, col)
	}

	that.shots[seat][row][col] = true
	that.shotsFired++

	defender := that.players[1-seat]
	result := ShotResult{Row: row, Col: col}

	if ship := defender.Board.receiveShot(row, col); ship != nil {
		result.Hit = true
		result.ShipID = ship.ID
		result.Sunk = ship.IsSunk()
	}

	result.GameOver = defender.Board.AllSunk()

	if result.GameOver {
		that.finish(seat, ReasonFleetSunk)
	} else {
		that.turn = defender.Seat
	}

	var errs []error
	if err := that.notifier.ShotResolved(attacker, result); err != nil {
		errs = append(errs, fmt.Errorf("attacker %s: %w", attacker.ID, err))
	}

	if err := that.notifier.ShotReceived(defender, result); err != nil {
		errs = append(errs, fmt.Errorf("defender %s: %w", defender.ID, err))
	}

	return result, deliveryError(errs)
}

// Finish - ends an active game early. The leaver (nil on shutdown) gets no notice,
// everybody else receives the end event. Reports false when the game was already over
// or never started; a game nobody has seen ends silently.
func (that *Game) Finish(leaver *Player, reason string) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status == StatusFinished {
		return false, nil
	}

	winner := NoSeat
	if seat, ok := that.seatOf(leaver); ok {
		winner = 1 - seat
	}

	that.finish(winner, reason)

	if !that.started {
		return false, nil
	}

	var errs []error
	for _, player := range that.players {
		if leaver != nil && player.ID == leaver.ID {
			continue
		}

		if err := that.notifier.GameEnded(player, reason); err != nil {
			errs = append(errs, fmt.Errorf("player %s: %w", player.ID, err))
		}
	}

	return true, deliveryError(errs)
}

func (that *Game) finish(winner int, reason string) {
	that.status = StatusFinished
	that.winner = winner
	that.finishReason = reason
	that.finishedAt = time.Now().UTC()
}

func (that *Game) seatOf(player *Player) (int, bool) {
	if player == nil {
		return NoSeat, false
	}

	for seat, participant := range that.players {
		if participant.ID == player.ID {
			return seat, true
		}
	}

	return NoSeat, false
}

// Record - consistent snapshot of the game for archiving.
func (that *Game) Record() GameRecord {
	that.mu.Lock()
	defer that.mu.Unlock()

	record := GameRecord{
		ID:           that.id,
		Status:       that.status,
		Turn:         that.turn,
		Winner:       that.winner,
		FinishReason: that.finishReason,
		ShotsFired:   that.shotsFired,
		StartedAt:    that.startedAt,
	}

	for seat, player := range that.players {
		record.Players[seat] = player.ID
		record.ShipsAfloat[seat] = shipsAfloat(player.Board)
	}

	if !that.finishedAt.IsZero() {
		finishedAt := that.finishedAt
		record.FinishedAt = &finishedAt
	}

	return record
}

func shipsAfloat(board *Board) int {
	count := 0
	for _, ship := range board.Ships {
		if !ship.IsSunk() {
			count++
		}
	}

	return count
}

func deliveryError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", apperror.ErrDeliveryFailed, errors.Join(errs...))
}

// GameRecord is the archived view of a game.
type GameRecord struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	Players      [2]string  `json:"players"`
	Turn         int        `json:"turn"`
	Winner       int        `json:"winner"`
	FinishReason string     `json:"finish_reason,omitempty"`
	ShotsFired   int        `json:"shots_fired"`
	ShipsAfloat  [2]int     `json:"ships_afloat"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

func (that *GameRecord) IsFinished() bool {
	return that.Status == StatusFinished
}
