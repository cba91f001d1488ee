package protocol

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureOutbox struct {
	sent []any
}

func (that *captureOutbox) ID() string {
	return "capture"
}

func (that *captureOutbox) Send(msg any) error {
	that.sent = append(that.sent, msg)
	return nil
}

func TestDecode(t *testing.T) {
	t.Run("Shoot message", func(t *testing.T) {
		msg, err := Decode([]byte(`{"type":"shoot","gameId":"abc","row":3,"col":7}`))

		require.NoError(t, err)
		assert.Equal(t, &ShootRequest{GameID: "abc", Row: 3, Col: 7}, msg)
	})

	t.Run("Shoot at the origin is not confused with missing fields", func(t *testing.T) {
		msg, err := Decode([]byte(`{"type":"shoot","row":0,"col":0}`))

		require.NoError(t, err)
		assert.Equal(t, &ShootRequest{Row: 0, Col: 0}, msg)
	})

	t.Run("Unknown type routes to the no-op variant", func(t *testing.T) {
		msg, err := Decode([]byte(`{"type":"chat","text":"hi"}`))

		require.NoError(t, err)
		assert.Equal(t, &UnknownRequest{Type: "chat"}, msg)
	})

	t.Run("Malformed input is a protocol error", func(t *testing.T) {
		inputs := []string{
			`not json`,
			`{"type":"shoot","row":"a","col":1}`,
			`{"type":"shoot","row":1}`,
			`{"type":"shoot"}`,
		}

		for _, input := range inputs {
			msg, err := Decode([]byte(input))

			require.ErrorIs(t, err, apperror.ErrProtocol, input)
			assert.Nil(t, msg)
		}
	})
}

func TestOutboundEncoding(t *testing.T) {
	t.Run("Result message", func(t *testing.T) {
		data, err := json.Marshal(NewShot(TypeResult, entity.ShotResult{Row: 1, Col: 2, Hit: true, Sunk: true, GameOver: true, ShipID: 3}))

		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"result","row":1,"col":2,"hit":true,"sunk":true,"gameOver":true}`, string(data))
	})

	t.Run("Waiting and error notices", func(t *testing.T) {
		data, err := json.Marshal(NewError("it's not your turn"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"error","msg":"it's not your turn"}`, string(data))

		data, err = json.Marshal(NewWaiting())
		require.NoError(t, err)
		assert.Contains(t, string(data), `"type":"waiting"`)
	})

	t.Run("Start message carries the own board as a grid", func(t *testing.T) {
		board := entity.NewBoard()
		require.NoError(t, board.PlaceShip(1, entity.Cell{Row: 0, Col: 0}, true, 2))
		player := entity.NewPlayer(&captureOutbox{}, board)
		player.Seat = entity.SeatSecond

		data, err := json.Marshal(NewStart("g1", player))
		require.NoError(t, err)

		var decoded struct {
			Type   string  `json:"type"`
			GameID string  `json:"gameId"`
			Board  [][]int `json:"board"`
			You    int     `json:"you"`
		}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "start", decoded.Type)
		assert.Equal(t, "g1", decoded.GameID)
		assert.Equal(t, 1, decoded.You)
		require.Len(t, decoded.Board, entity.BoardSize)
		assert.Equal(t, []int{1, 1, 0, 0, 0, 0, 0, 0, 0, 0}, decoded.Board[0])
	})
}

func TestNotifier(t *testing.T) {
	outbox := &captureOutbox{}
	player := entity.NewPlayer(outbox, entity.NewBoard())
	notifier := NewNotifier()
	result := entity.ShotResult{Row: 4, Col: 4}

	require.NoError(t, notifier.ShotResolved(player, result))
	require.NoError(t, notifier.ShotReceived(player, result))
	require.NoError(t, notifier.GameEnded(player, entity.ReasonOpponentLeft))

	assert.Equal(t, []any{
		NewShot(TypeResult, result),
		NewShot(TypeShot, result),
		NewEnd("Your opponent disconnected."),
	}, outbox.sent)
}
