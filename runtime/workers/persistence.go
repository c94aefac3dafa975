package workers

import (
	"context"
	"log/slog"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/observability"
	"board-lab/repositories"
)

var _ contract.Worker = (*PersistenceWorker)(nil)

// PersistenceWorker drains deferred snapshot writes. A clear broadcasts to
// the room first and lands here afterwards: live responsiveness is chosen
// over durability consistency, so a failed write is logged and dropped,
// never rolled back or re-notified to the members.
type PersistenceWorker struct {
	log         *slog.Logger
	repository  repositories.IBoardRepository
	persistJobs chan domain.PersistJob
	stats       *observability.RelayStats
}

func NewPersistenceWorker(log *slog.Logger, repository repositories.IBoardRepository,
	persistJobs chan domain.PersistJob, stats *observability.RelayStats) *PersistenceWorker {
	return &PersistenceWorker{
		log:         log,
		repository:  repository,
		persistJobs: persistJobs,
		stats:       stats,
	}
}

func (w *PersistenceWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			// Jobs already dispatched to the store are not canceled,
			// only the queue stops draining.
			w.log.Debug("Context done, stopping persistence worker")
			return nil
		case job, ok := <-w.persistJobs:
			if !ok {
				return nil
			}
			if err := w.repository.Upsert(ctx, job.Room, job.Snapshot); err != nil {
				w.stats.PersistFailed()
				w.log.Error("Deferred persistence failed", "room", job.Room, "error", err)
			}
		}
	}
}
