package event

import (
	"log/slog"
	"sync"

	"board-lab/errors"
)

// Counter accumulates per-type totals for the telemetry pipeline.
type Counter struct {
	mu     sync.Mutex
	counts map[Type]uint64
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[Type]uint64)}
}

func (c *Counter) Increment(t Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[t]++
}

func (c *Counter) Get(t Type) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[t]
}

// RelayCounterHandler counts relayed strokes and clear broadcasts.
// It is triggered each time the relay worker fans an event out to a room.
// Useful for updating observability metrics, logging, or telemetry.
type RelayCounterHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewRelayCounterHandler(log *slog.Logger, counter *Counter) *RelayCounterHandler {
	return &RelayCounterHandler{log: log, counter: counter}
}

func (h *RelayCounterHandler) Handle(event Event) {
	switch event.Type {
	case StrokeRelayedType:
		if _, ok := event.Payload.(StrokeDrawn); !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(StrokeRelayedType)
	case BoardClearedType:
		if _, ok := event.Payload.(BoardCleared); !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(BoardClearedType)
	}
}
