package ws

import (
	"context"
	"fmt"

	"board-lab/contract"
	"board-lab/domain/event"
)

var _ contract.EventSink = (*Sink)(nil)

// Sink is one websocket connection's outbound queue. The write pump is the
// only reader.
type Sink struct {
	Events chan event.DomainEvent
}

func NewSink(bufferSize int) *Sink {
	return &Sink{Events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by the relay fan-out and by the join path.
// A full buffer means the peer is not keeping up: the event is dropped
// rather than stalling the relay for the whole room.
func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("sink buffer full, event for room %s dropped", e.RoomID())
	}
}
