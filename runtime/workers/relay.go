package workers

import (
	"context"
	"log/slog"
	"time"

	"board-lab/contract"
	"board-lab/domain/event"
	"board-lab/observability"
)

var _ contract.Worker = (*RelayWorker)(nil)

// RelayWorker fans one event out to the other members of its room. The
// event is delivered unmodified: no transformation, no geometry validation,
// no rate limiting. Delivery is at-most-once; a slow member's sink drops.
//
// Exactly one RelayWorker must drain the channel. Events from a single
// sender reach every recipient in emission order because the channel and
// the fan-out loop are both FIFO; running a second worker would interleave.
type RelayWorker struct {
	log            *slog.Logger
	registry       contract.IRegistry
	relayEvents    chan event.Outbound
	telemetryEvent chan event.Event
	stats          *observability.RelayStats
}

func NewRelayWorker(log *slog.Logger, registry contract.IRegistry,
	relayEvents chan event.Outbound, telemetryEvent chan event.Event,
	stats *observability.RelayStats) *RelayWorker {
	return &RelayWorker{
		log:            log,
		registry:       registry,
		relayEvents:    relayEvents,
		telemetryEvent: telemetryEvent,
		stats:          stats,
	}
}

func (w *RelayWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping relay")
			return nil
		case out, ok := <-w.relayEvents:
			if !ok {
				return nil
			}
			w.fanout(ctx, out)
		}
	}
}

// fanout resolves the recipients at delivery time, so a member that
// disconnected after the event was queued is simply no longer a target.
func (w *RelayWorker) fanout(ctx context.Context, out event.Outbound) {
	sinks := w.registry.SinksForRoom(out.Event.RoomID(), out.Sender)
	for _, sink := range sinks {
		if err := sink.Consume(ctx, out.Event); err != nil {
			w.stats.SinkDropped()
			w.log.Debug("Sink refused event", "room", out.Event.RoomID(), "error", err)
		}
	}
	w.report(out)
}

func (w *RelayWorker) report(out event.Outbound) {
	var evt event.Event
	switch payload := out.Event.(type) {
	case event.StrokeDrawn:
		w.stats.StrokeRelayed()
		evt = event.Event{Type: event.StrokeRelayedType, CreatedAt: time.Now().UTC(), Payload: payload}
	case event.BoardCleared:
		w.stats.ClearBroadcast()
		evt = event.Event{Type: event.BoardClearedType, CreatedAt: time.Now().UTC(), Payload: payload}
	default:
		return
	}
	select {
	case w.telemetryEvent <- evt:
	default:
		w.log.Debug("Observability telemetry event lost")
	}
}
