package event

import "time"

type Type string

const (
	RestartedAfterPanicType Type = "WORKER_RESTARTED_AFTER_PANIC"
	ChannelCapacityType     Type = "CHANNEL_CAPACITY"
	StrokeRelayedType       Type = "STROKE_RELAYED"
	BoardClearedType        Type = "BOARD_CLEARED"
	ProcessStatsType        Type = "PROCESS_STATS"
)

// Event is the envelope for technical telemetry. It never reaches clients;
// it only feeds the telemetry handlers.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

type WorkerRestartedAfterPanic struct {
	WorkerName string
}

type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}

type ProcessStats struct {
	PID       int
	Status    string
	CPU       float64
	RAMBytes  uint64
	Goroutine int
}
