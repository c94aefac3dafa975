package workers

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"

	"board-lab/domain/event"
)

// HeartbeatWorker samples the server's own process stats (CPU, RSS, OS
// status) on a fixed interval and pushes them through telemetry. Gives an
// operator a pulse without attaching a profiler.
type HeartbeatWorker struct {
	log            *slog.Logger
	telemetryChan  chan event.Event
	metricInterval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, telemetryChan chan event.Event,
	metricInterval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{
		log:            log,
		telemetryChan:  telemetryChan,
		metricInterval: metricInterval,
	}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker")
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stats, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Debug("Heartbeat",
				"cpu_percent", stats.CPU,
				"ram_bytes", stats.RAMBytes,
				"status", stats.Status,
				"goroutines", stats.Goroutine)
			select {
			case w.telemetryChan <- event.Event{
				Type:      event.ProcessStatsType,
				CreatedAt: time.Now().UTC(),
				Payload:   stats,
			}:
			default:
				w.log.Debug("Observability telemetry event lost")
			}
		}
	}
}

// selfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func selfStats(p *process.Process) (event.ProcessStats, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return event.ProcessStats{}, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return event.ProcessStats{}, err
	}
	status, err := p.Status()
	if err != nil {
		return event.ProcessStats{}, err
	}
	return event.ProcessStats{
		PID:       os.Getpid(),
		Status:    status,
		CPU:       cpuPercent,
		RAMBytes:  memInfo.RSS,
		Goroutine: runtime.NumGoroutine(),
	}, nil
}
