package protocol

import (
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

// Notifier turns game events into wire messages queued on the players' outboxes.
type Notifier struct{}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (that *Notifier) GameStarted(gameID string, player *entity.Player) error {
	return player.Outbox.Send(NewStart(gameID, player))
}

func (that *Notifier) ShotResolved(attacker *entity.Player, result entity.ShotResult) error {
	return attacker.Outbox.Send(NewShot(TypeResult, result))
}

func (that *Notifier) ShotReceived(defender *entity.Player, result entity.ShotResult) error {
	return defender.Outbox.Send(NewShot(TypeShot, result))
}

func (that *Notifier) GameEnded(player *entity.Player, reason string) error {
	return player.Outbox.Send(NewEnd(EndReason(reason)))
}

// Waiting - tells a freshly queued player that no opponent is available yet.
func (that *Notifier) Waiting(player *entity.Player) error {
	return player.Outbox.Send(NewWaiting())
}
