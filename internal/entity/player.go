package entity

const (
	SeatFirst  = 0
	SeatSecond = 1
	NoSeat     = -1
)

// Outbox - the sending side of a single client connection.
type Outbox interface {
	ID() string
	Send(msg any) error
}

type Player struct {
	ID     string `json:"id"`
	Seat   int    `json:"seat"`
	Board  *Board `json:"-"`
	Outbox Outbox `json:"-"`
}

func NewPlayer(outbox Outbox, board *Board) *Player {
	return &Player{
		ID:     outbox.ID(),
		Seat:   NoSeat,
		Board:  board,
		Outbox: outbox,
	}
}
