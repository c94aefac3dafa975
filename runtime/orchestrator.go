package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/observability"
	"board-lab/repositories"
	"board-lab/runtime/workers"
)

// Orchestrator owns the channels between transports and workers, and the
// worker lifecycle. Relay traffic flows through one buffered channel with a
// single consumer: per-sender FIFO ordering falls out of that for free.
type Orchestrator struct {
	log        *slog.Logger
	supervisor contract.ISupervisor
	registry   *Registry
	repository repositories.IBoardRepository
	stats      *observability.RelayStats

	relayEvents     chan event.Outbound
	persistJobs     chan domain.PersistJob
	telemetryEvents chan event.Event

	metricInterval       time.Duration
	lowCapacityThreshold int
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry *Registry, telemetryEvents chan event.Event,
	repository repositories.IBoardRepository,
	stats *observability.RelayStats, bufferSize int,
	metricInterval time.Duration, lowCapacityThreshold int) *Orchestrator {
	return &Orchestrator{
		log:                  log,
		supervisor:           supervisor,
		registry:             registry,
		repository:           repository,
		stats:                stats,
		relayEvents:          make(chan event.Outbound, bufferSize),
		persistJobs:          make(chan domain.PersistJob, bufferSize),
		telemetryEvents:      telemetryEvents,
		metricInterval:       metricInterval,
		lowCapacityThreshold: lowCapacityThreshold,
	}
}

func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// Dispatch queues an event for relay. A full channel drops the event: relay
// is at-most-once, never a blocking path for the submitting connection.
func (o *Orchestrator) Dispatch(out event.Outbound) {
	select {
	case o.relayEvents <- out:
	default:
		o.stats.RelayDropped()
		o.log.Warn(fmt.Sprintf("Relay channel full for room %s, dropping event", out.Event.RoomID()))
	}
}

// EnqueuePersist hands a snapshot write to the persistence worker.
// Best effort: a failure there is logged, never surfaced to the room.
func (o *Orchestrator) EnqueuePersist(job domain.PersistJob) {
	select {
	case o.persistJobs <- job:
	default:
		o.log.Warn(fmt.Sprintf("Persistence queue full, dropping write for room %s", job.Room))
	}
}

// Start registers all workers with the supervisor and launches supervision.
// Exactly one RelayWorker drains relayEvents; a worker pool here would
// destroy the per-sender delivery order.
func (o *Orchestrator) Start(ctx context.Context) {
	relay := workers.NewRelayWorker(o.log, o.registry, o.relayEvents, o.telemetryEvents, o.stats)
	persistence := workers.NewPersistenceWorker(o.log, o.repository, o.persistJobs, o.stats)
	capacity := workers.NewChannelCapacityWorker(o.log, []workers.NamedChannel{
		{Name: "relayEvents", Channel: o.relayEvents},
		{Name: "persistJobs", Channel: o.persistJobs},
		{Name: "telemetryEvents", Channel: o.telemetryEvents},
	}, o.telemetryEvents, o.metricInterval)
	telemetry := workers.NewTelemetryWorker(o.log, o.telemetryEvents, o.handlers())
	heartbeat := workers.NewHeartbeatWorker(o.log, o.telemetryEvents, o.metricInterval)

	o.supervisor.Add(relay, persistence, capacity, telemetry, heartbeat)

	o.log.Info("Starting orchestrator and all supervised workers")
	go o.supervisor.Run(ctx)
}

func (o *Orchestrator) handlers() []event.Handler {
	counter := event.NewCounter()
	return []event.Handler{
		event.NewChannelCapacityHandler(o.log, o.lowCapacityThreshold),
		event.NewRelayCounterHandler(o.log, counter),
		event.NewWorkerRestartedAfterPanicHandler(o.log, counter),
	}
}

// Stop cancels supervision; workers drain and exit.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
