package apperror

import "errors"

var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrOutOfBounds   = errors.New("shot is outside the board")
	ErrDuplicateShot = errors.New("you already fired at that cell")
	ErrNotInGame     = errors.New("player is not part of this game")
	ErrNoActiveGame  = errors.New("no active game")
	ErrInvalidFleet  = errors.New("invalid fleet")
	ErrCellOccupied  = errors.New("cell is already occupied")

	ErrProtocol         = errors.New("malformed or unknown message")
	ErrRegistryFull     = errors.New("too many connected players")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrAlreadyQueued    = errors.New("player is already waiting for a game")
	ErrDeliveryFailed   = errors.New("failed to deliver message")
	ErrConnectionClosed = errors.New("connection is closed")
	ErrNotFound         = errors.New("not found")
	ErrGameRunning      = errors.New("game is still running")
)
