package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/battleship-backend/internal/config"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/protocol"
	"github.com/rocketscienceinc/battleship-backend/internal/service"
	"github.com/rocketscienceinc/battleship-backend/internal/usecase"
)

const readTimeout = 5 * time.Second

type noopRecorder struct{}

func (noopRecorder) Record(string, entity.GameRecord) bool { return true }

type client struct {
	t    *testing.T
	conn *websocket.Conn
}

func testConfig() config.WebSocket {
	return config.WebSocket{
		SendBuffer:     16,
		WriteWait:      time.Second,
		PongWait:       time.Minute,
		PingPeriod:     30 * time.Second,
		MaxMessageSize: 512,
	}
}

func newTestServer(t *testing.T, maxPlayers int) (*Server, string) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	registry, err := service.NewConnectionRegistry(entity.DefaultFleet, entity.GlobalRand, maxPlayers)
	require.NoError(t, err)

	manager := usecase.NewGameManager(logger, registry, protocol.NewNotifier(), noopRecorder{}, nil)
	server := New(logger, manager, testConfig())

	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	return server, "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *client {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })

	return &client{t: t, conn: conn}
}

func (that *client) read() map[string]any {
	that.t.Helper()

	require.NoError(that.t, that.conn.SetReadDeadline(time.Now().Add(readTimeout)))

	var msg map[string]any
	require.NoError(that.t, that.conn.ReadJSON(&msg))

	return msg
}

func (that *client) expect(msgType protocol.MessageType) map[string]any {
	that.t.Helper()

	msg := that.read()
	require.Equal(that.t, string(msgType), msg["type"], "unexpected message %v", msg)

	return msg
}

func (that *client) send(raw string) {
	that.t.Helper()

	require.NoError(that.t, that.conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

// startGame - connects two clients and consumes their waiting and start messages.
func startGame(t *testing.T, url string) (*client, *client, string) {
	t.Helper()

	first := dial(t, url)
	first.expect(protocol.TypeWaiting)

	second := dial(t, url)

	startFirst := first.expect(protocol.TypeStart)
	startSecond := second.expect(protocol.TypeStart)

	require.Equal(t, startFirst["gameId"], startSecond["gameId"])
	require.InDelta(t, float64(entity.SeatFirst), startFirst["you"], 0)
	require.InDelta(t, float64(entity.SeatSecond), startSecond["you"], 0)

	gameID, ok := startFirst["gameId"].(string)
	require.True(t, ok)

	return first, second, gameID
}

func TestServer_Pairing(t *testing.T) {
	// Given: a running server
	_, url := newTestServer(t, 0)

	// When: two clients connect one after the other
	first := dial(t, url)
	waiting := first.expect(protocol.TypeWaiting)
	second := dial(t, url)

	// Then: the first waited and both got the same game with their own boards
	assert.NotEmpty(t, waiting["msg"])

	startFirst := first.expect(protocol.TypeStart)
	startSecond := second.expect(protocol.TypeStart)
	assert.Equal(t, startFirst["gameId"], startSecond["gameId"])

	for _, start := range []map[string]any{startFirst, startSecond} {
		board, ok := start["board"].([]any)
		require.True(t, ok)
		require.Len(t, board, entity.BoardSize)

		ships := 0
		for _, row := range board {
			cells, ok := row.([]any)
			require.True(t, ok)
			require.Len(t, cells, entity.BoardSize)

			for _, cell := range cells {
				if value, _ := cell.(float64); value > 0 {
					ships++
				}
			}
		}
		assert.Equal(t, 17, ships)
	}
}

func TestServer_Shooting(t *testing.T) {
	t.Run("Shot reaches both players and passes the turn", func(t *testing.T) {
		_, url := newTestServer(t, 0)
		first, second, gameID := startGame(t, url)

		// When: the first player fires
		first.send(`{"type":"shoot","gameId":"` + gameID + `","row":4,"col":6}`)

		// Then: it gets the result and the opponent the shot
		result := first.expect(protocol.TypeResult)
		shot := second.expect(protocol.TypeShot)

		assert.InDelta(t, 4.0, result["row"], 0)
		assert.InDelta(t, 6.0, result["col"], 0)
		assert.Equal(t, result["hit"], shot["hit"])
		assert.Equal(t, false, result["gameOver"])
	})

	t.Run("Shot out of turn is answered with an error only to the sender", func(t *testing.T) {
		_, url := newTestServer(t, 0)
		first, second, _ := startGame(t, url)

		// When: the second player fires first
		second.send(`{"type":"shoot","row":0,"col":0}`)

		// Then: it is told off
		reply := second.expect(protocol.TypeError)
		assert.Equal(t, "it's not your turn", reply["msg"])

		// And: the game goes on normally for the turn owner
		first.send(`{"type":"shoot","row":0,"col":0}`)
		first.expect(protocol.TypeResult)
		second.expect(protocol.TypeShot)
	})

	t.Run("Malformed and unknown messages are ignored", func(t *testing.T) {
		_, url := newTestServer(t, 0)
		first, second, _ := startGame(t, url)

		first.send(`not json`)
		first.send(`{"type":"shoot","row":1}`)
		first.send(`{"type":"chat","text":"hello"}`)
		first.send(`{"type":"shoot","row":1,"col":1}`)

		// the next thing the sender sees is the result of the valid shot
		result := first.expect(protocol.TypeResult)
		assert.InDelta(t, 1.0, result["row"], 0)
		second.expect(protocol.TypeShot)
	})

	t.Run("Out of bounds and repeated shots are rejected", func(t *testing.T) {
		_, url := newTestServer(t, 0)
		first, second, _ := startGame(t, url)

		first.send(`{"type":"shoot","row":10,"col":0}`)
		assert.Equal(t, "shot is outside the board", first.expect(protocol.TypeError)["msg"])

		first.send(`{"type":"shoot","row":2,"col":2}`)
		first.expect(protocol.TypeResult)
		second.expect(protocol.TypeShot)

		second.send(`{"type":"shoot","row":2,"col":2}`)
		second.expect(protocol.TypeResult)
		first.expect(protocol.TypeShot)

		first.send(`{"type":"shoot","row":2,"col":2}`)
		assert.Equal(t, "you already fired at that cell", first.expect(protocol.TypeError)["msg"])
	})

	t.Run("Waiting player has no game", func(t *testing.T) {
		_, url := newTestServer(t, 0)
		first := dial(t, url)
		first.expect(protocol.TypeWaiting)

		first.send(`{"type":"shoot","row":0,"col":0}`)

		assert.Equal(t, "no active game", first.expect(protocol.TypeError)["msg"])
	})
}

func TestServer_Disconnect(t *testing.T) {
	// Given: a started game
	_, url := newTestServer(t, 0)
	first, second, _ := startGame(t, url)

	// When: the first player goes away mid-game
	require.NoError(t, first.conn.Close())

	// Then: the second one is told its opponent left
	end := second.expect(protocol.TypeEnd)
	assert.Equal(t, "Your opponent disconnected.", end["msg"])

	// And: the game is no longer reachable from the survivor
	second.send(`{"type":"shoot","row":0,"col":0}`)
	assert.Equal(t, "no active game", second.expect(protocol.TypeError)["msg"])
}

func TestServer_RegistryFull(t *testing.T) {
	_, url := newTestServer(t, 1)
	first := dial(t, url)
	first.expect(protocol.TypeWaiting)

	second := dial(t, url)

	assert.Equal(t, "too many connected players", second.expect(protocol.TypeError)["msg"])

	require.NoError(t, second.conn.SetReadDeadline(time.Now().Add(readTimeout)))
	_, _, err := second.conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error %v", err)
}

func TestServer_Shutdown(t *testing.T) {
	server, url := newTestServer(t, 0)
	first, second, _ := startGame(t, url)

	server.Shutdown(context.Background())

	for _, c := range []*client{first, second} {
		end := c.expect(protocol.TypeEnd)
		assert.Equal(t, "The server is shutting down.", end["msg"])
	}
}
