// Package observability aggregates live counters of the relay pipeline.
// Consumers are the inspect page and the heartbeat worker; nothing here
// sits on the hot path beyond an atomic increment.
package observability

import (
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
)

// RelayStatsSnapshot is a point-in-time copy for display.
type RelayStatsSnapshot struct {
	Joins           uint64 `json:"joins"`
	Disconnects     uint64 `json:"disconnects"`
	StrokesRelayed  uint64 `json:"strokes_relayed"`
	ClearsBroadcast uint64 `json:"clears_broadcast"`
	RelayDrops      uint64 `json:"relay_drops"`
	SinkDrops       uint64 `json:"sink_drops"`
	Saves           uint64 `json:"saves"`
	SaveErrors      uint64 `json:"save_errors"`
	PersistFailures uint64 `json:"persist_failures"`
	AllocMemMb      uint64 `json:"alloc_mem_mb"`
	NumGC           uint32 `json:"num_gc"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	ObservedAt      string `json:"observed_at"`
}

// RelayStats carries the atomic counters behind the snapshot.
type RelayStats struct {
	log     *slog.Logger
	started time.Time

	joins           uint64
	disconnects     uint64
	strokesRelayed  uint64
	clearsBroadcast uint64
	relayDrops      uint64
	sinkDrops       uint64
	saves           uint64
	saveErrors      uint64
	persistFailures uint64
}

func NewRelayStats(log *slog.Logger) *RelayStats {
	return &RelayStats{log: log, started: time.Now()}
}

func (s *RelayStats) Joined()         { atomic.AddUint64(&s.joins, 1) }
func (s *RelayStats) Disconnected()   { atomic.AddUint64(&s.disconnects, 1) }
func (s *RelayStats) StrokeRelayed()  { atomic.AddUint64(&s.strokesRelayed, 1) }
func (s *RelayStats) ClearBroadcast() { atomic.AddUint64(&s.clearsBroadcast, 1) }
func (s *RelayStats) RelayDropped()   { atomic.AddUint64(&s.relayDrops, 1) }
func (s *RelayStats) SinkDropped()    { atomic.AddUint64(&s.sinkDrops, 1) }
func (s *RelayStats) Saved()          { atomic.AddUint64(&s.saves, 1) }
func (s *RelayStats) SaveFailed()     { atomic.AddUint64(&s.saveErrors, 1) }
func (s *RelayStats) PersistFailed()  { atomic.AddUint64(&s.persistFailures, 1) }

// GetLatest assembles a display snapshot, including Go memory figures.
func (s *RelayStats) GetLatest() RelayStatsSnapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RelayStatsSnapshot{
		Joins:           atomic.LoadUint64(&s.joins),
		Disconnects:     atomic.LoadUint64(&s.disconnects),
		StrokesRelayed:  atomic.LoadUint64(&s.strokesRelayed),
		ClearsBroadcast: atomic.LoadUint64(&s.clearsBroadcast),
		RelayDrops:      atomic.LoadUint64(&s.relayDrops),
		SinkDrops:       atomic.LoadUint64(&s.sinkDrops),
		Saves:           atomic.LoadUint64(&s.saves),
		SaveErrors:      atomic.LoadUint64(&s.saveErrors),
		PersistFailures: atomic.LoadUint64(&s.persistFailures),
		AllocMemMb:      mem.Alloc / 1024 / 1024,
		NumGC:           mem.NumGC,
		UptimeSeconds:   int64(time.Since(s.started).Seconds()),
		ObservedAt:      time.Now().UTC().Format(time.RFC3339),
	}
}

// AsMap feeds the inspect page stats provider.
func (s *RelayStats) AsMap() map[string]any {
	latest := s.GetLatest()
	return map[string]any{
		"Joins":           latest.Joins,
		"Disconnects":     latest.Disconnects,
		"StrokesRelayed":  latest.StrokesRelayed,
		"ClearsBroadcast": latest.ClearsBroadcast,
		"RelayDrops":      latest.RelayDrops,
		"SinkDrops":       latest.SinkDrops,
		"Saves":           latest.Saves,
		"SaveErrors":      latest.SaveErrors,
		"PersistFailures": latest.PersistFailures,
		"AllocMemMb":      latest.AllocMemMb,
		"Uptime":          time.Duration(latest.UptimeSeconds) * time.Second,
	}
}
