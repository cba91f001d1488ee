package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/protocol"
)

// replyable - rule violations the client is told about. Anything else is only logged.
var replyable = []error{
	apperror.ErrNotYourTurn,
	apperror.ErrOutOfBounds,
	apperror.ErrDuplicateShot,
	apperror.ErrGameFinished,
	apperror.ErrNoActiveGame,
}

func (that *Server) handleMessage(ctx context.Context, conn *Connection, data []byte) {
	log := that.logger.With("method", "handleMessage", "connID", conn.ID())

	msg, err := protocol.Decode(data)
	if err != nil {
		log.Debug("dropping malformed message", "error", err)
		return
	}

	switch req := msg.(type) {
	case *protocol.ShootRequest:
		that.handleShoot(ctx, conn, req)
	case *protocol.UnknownRequest:
		log.Debug("ignoring unknown message", "type", req.Type)
	}
}

func (that *Server) handleShoot(ctx context.Context, conn *Connection, req *protocol.ShootRequest) {
	log := that.logger.With("method", "handleShoot", "connID", conn.ID())

	_, err := that.gameManager.Shoot(ctx, conn.ID(), req.Row, req.Col)
	if err == nil {
		return
	}

	for _, target := range replyable {
		if errors.Is(err, target) {
			if sendErr := conn.Send(protocol.NewError(target.Error())); sendErr != nil {
				log.Debug("failed to send error reply", "error", sendErr)
			}

			return
		}
	}

	log.Error("failed to shoot", "error", err)
}
