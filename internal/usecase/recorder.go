package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

const (
	EventStarted  = "started"
	EventShot     = "shot"
	EventFinished = "finished"
)

const storeTimeout = 5 * time.Second

type recordStore interface {
	CreateOrUpdate(ctx context.Context, record *entity.GameRecord) error
}

type eventPublisher interface {
	Publish(ctx context.Context, event string, record *entity.GameRecord) error
}

type recordedEvent struct {
	name   string
	record entity.GameRecord
}

// Recorder - archives game records and publishes lifecycle events in the background.
// Recording never blocks the caller: when the buffer is full the record is dropped.
type Recorder struct {
	logger    *slog.Logger
	store     recordStore
	publisher eventPublisher

	mu     sync.RWMutex
	closed bool
	events chan recordedEvent
	done   chan struct{}
}

func NewRecorder(logger *slog.Logger, store recordStore, publisher eventPublisher, buffer int) *Recorder {
	return &Recorder{
		logger:    logger.With("component", "recorder"),
		store:     store,
		publisher: publisher,

		events: make(chan recordedEvent, buffer),
		done:   make(chan struct{}),
	}
}

// Start - runs the worker until Stop is called. Buffered records are still written after Stop.
func (that *Recorder) Start() {
	go func() {
		defer close(that.done)

		for event := range that.events {
			that.handle(event)
		}
	}()
}

// Record - queues the record, reports false when it was dropped.
func (that *Recorder) Record(event string, record entity.GameRecord) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.closed {
		return false
	}

	select {
	case that.events <- recordedEvent{name: event, record: record}:
		return true
	default:
		that.logger.Warn("record buffer is full, dropping record", "gameID", record.ID, "event", event)
		return false
	}
}

// Stop - refuses new records and waits until the buffered ones are handled.
func (that *Recorder) Stop() {
	that.mu.Lock()
	if !that.closed {
		that.closed = true
		close(that.events)
	}
	that.mu.Unlock()

	<-that.done
}

func (that *Recorder) handle(event recordedEvent) {
	log := that.logger.With("method", "handle", "gameID", event.record.ID, "event", event.name)

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := that.store.CreateOrUpdate(ctx, &event.record); err != nil {
		log.Error("failed to archive game", "error", err)
	}

	if event.name == EventShot {
		return
	}

	if err := that.publisher.Publish(ctx, event.name, &event.record); err != nil {
		log.Error("failed to publish game event", "error", err)
	}
}
