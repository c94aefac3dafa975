package workers

import (
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/mocks"
	"board-lab/observability"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRelayWorker_FanoutExcludesSender(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registryMock := mocks.NewMockIRegistry(ctrl)
	sinkMock := mocks.NewMockEventSink(ctrl)
	stats := observability.NewRelayStats(log)

	relayEvents := make(chan event.Outbound, 8)
	telemetryEvents := make(chan event.Event, 8)

	stroke := event.StrokeDrawn{Room: "atelier", Sender: "alice", X0: 1, Y0: 2, X1: 3, Y1: 4, Color: "#000000", StrokeWidth: 2, Tool: "pen"}

	// Given a registry resolving everyone but the sender
	registryMock.EXPECT().
		SinksForRoom(domain.RoomID("atelier"), "alice").
		Return([]contract.EventSink{sinkMock}).
		Times(1)

	delivered := make(chan event.DomainEvent, 1)
	sinkMock.EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e event.DomainEvent) error {
			delivered <- e
			return nil
		}).
		Times(1)

	worker := NewRelayWorker(log, registryMock, relayEvents, telemetryEvents, stats)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// When a stroke is queued
	relayEvents <- event.Outbound{Event: stroke, Sender: "alice"}

	// Then the recipient receives it unmodified
	select {
	case e := <-delivered:
		req.Equal(stroke, e)
	case <-time.After(500 * time.Millisecond):
		req.Fail("Stroke should have been delivered")
	}

	// Then a telemetry event reports the relay
	select {
	case evt := <-telemetryEvents:
		req.Equal(event.StrokeRelayedType, evt.Type)
	case <-time.After(500 * time.Millisecond):
		req.Fail("Relay should have been reported")
	}
	req.Equal(uint64(1), stats.GetLatest().StrokesRelayed)
}

func TestRelayWorker_PreservesSenderOrder(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registryMock := mocks.NewMockIRegistry(ctrl)
	sinkMock := mocks.NewMockEventSink(ctrl)
	stats := observability.NewRelayStats(log)

	relayEvents := make(chan event.Outbound, 16)
	telemetryEvents := make(chan event.Event, 16)

	registryMock.EXPECT().
		SinksForRoom(gomock.Any(), gomock.Any()).
		Return([]contract.EventSink{sinkMock}).
		AnyTimes()

	delivered := make(chan event.DomainEvent, 16)
	sinkMock.EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e event.DomainEvent) error {
			delivered <- e
			return nil
		}).
		AnyTimes()

	worker := NewRelayWorker(log, registryMock, relayEvents, telemetryEvents, stats)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// When one sender queues a burst of strokes
	for i := 0; i < 10; i++ {
		relayEvents <- event.Outbound{
			Event:  event.StrokeDrawn{Room: "atelier", Sender: "alice", X0: float64(i), Tool: "pen"},
			Sender: "alice",
		}
	}

	// Then the recipient sees them in emission order
	for i := 0; i < 10; i++ {
		select {
		case e := <-delivered:
			stroke, ok := e.(event.StrokeDrawn)
			req.True(ok)
			req.Equal(float64(i), stroke.X0, fmt.Sprintf("stroke %d out of order", i))
		case <-time.After(500 * time.Millisecond):
			req.Fail(fmt.Sprintf("Stroke %d never delivered", i))
		}
	}
}

func TestRelayWorker_RefusedSinkCountsAsDrop(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registryMock := mocks.NewMockIRegistry(ctrl)
	sinkMock := mocks.NewMockEventSink(ctrl)
	stats := observability.NewRelayStats(log)

	relayEvents := make(chan event.Outbound, 8)
	telemetryEvents := make(chan event.Event, 8)

	registryMock.EXPECT().
		SinksForRoom(gomock.Any(), gomock.Any()).
		Return([]contract.EventSink{sinkMock}).
		Times(1)

	consumed := make(chan struct{}, 1)
	sinkMock.EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e event.DomainEvent) error {
			consumed <- struct{}{}
			return fmt.Errorf("sink full")
		}).
		Times(1)

	worker := NewRelayWorker(log, registryMock, relayEvents, telemetryEvents, stats)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	relayEvents <- event.Outbound{Event: event.BoardCleared{Room: "atelier", Sender: "bob"}, Sender: "bob"}

	select {
	case <-consumed:
	case <-time.After(500 * time.Millisecond):
		req.Fail("Sink should have been offered the event")
	}

	// Then the drop is counted and the worker keeps running
	req.Eventually(func() bool {
		return stats.GetLatest().SinkDrops == 1
	}, 500*time.Millisecond, 10*time.Millisecond)
	req.Equal(uint64(1), stats.GetLatest().ClearsBroadcast)
}
