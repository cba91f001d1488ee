package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

type MessageType string

const (
	// Client -> Server
	TypeShoot MessageType = "shoot"

	// Server -> Client
	TypeWaiting MessageType = "waiting"
	TypeStart   MessageType = "start"
	TypeResult  MessageType = "result"
	TypeShot    MessageType = "shot"
	TypeEnd     MessageType = "end"
	TypeError   MessageType = "error"
)

// Inbound is the closed set of messages a client can send.
type Inbound interface {
	inbound()
}

// ShootRequest - fire at the opponent's board. GameID is informational only.
type ShootRequest struct {
	GameID string
	Row    int
	Col    int
}

// UnknownRequest - any well-formed message whose type is not recognized.
type UnknownRequest struct {
	Type string
}

func (*ShootRequest) inbound()   {}
func (*UnknownRequest) inbound() {}

type envelope struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
}

// Decode - parses a client message. Malformed input yields ErrProtocol.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrProtocol, err)
	}

	switch MessageType(env.Type) {
	case TypeShoot:
		if env.Row == nil || env.Col == nil {
			return nil, fmt.Errorf("%w: shoot without row or col", apperror.ErrProtocol)
		}

		return &ShootRequest{GameID: env.GameID, Row: *env.Row, Col: *env.Col}, nil
	default:
		return &UnknownRequest{Type: env.Type}, nil
	}
}

type NoticeMessage struct {
	Type MessageType `json:"type"`
	Msg  string      `json:"msg"`
}

type StartMessage struct {
	Type   MessageType                             `json:"type"`
	GameID string                                  `json:"gameId"`
	Board  [entity.BoardSize][entity.BoardSize]int `json:"board"`
	You    int                                     `json:"you"`
}

type ShotMessage struct {
	Type     MessageType `json:"type"`
	Row      int         `json:"row"`
	Col      int         `json:"col"`
	Hit      bool        `json:"hit"`
	Sunk     bool        `json:"sunk"`
	GameOver bool        `json:"gameOver"`
}

func NewWaiting() NoticeMessage {
	return NoticeMessage{Type: TypeWaiting, Msg: "Waiting for an opponent..."}
}

func NewEnd(msg string) NoticeMessage {
	return NoticeMessage{Type: TypeEnd, Msg: msg}
}

func NewError(msg string) NoticeMessage {
	return NoticeMessage{Type: TypeError, Msg: msg}
}

func NewStart(gameID string, player *entity.Player) StartMessage {
	return StartMessage{
		Type:   TypeStart,
		GameID: gameID,
		Board:  player.Board.Snapshot(),
		You:    player.Seat,
	}
}

func NewShot(msgType MessageType, result entity.ShotResult) ShotMessage {
	return ShotMessage{
		Type:     msgType,
		Row:      result.Row,
		Col:      result.Col,
		Hit:      result.Hit,
		Sunk:     result.Sunk,
		GameOver: result.GameOver,
	}
}

// EndReason - human readable explanation for an end notice.
func EndReason(reason string) string {
	switch reason {
	case entity.ReasonOpponentLeft:
		return "Your opponent disconnected."
	case entity.ReasonShutdown:
		return "The server is shutting down."
	default:
		return "The game is over."
	}
}
