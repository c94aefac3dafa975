package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/observability"
	"board-lab/repositories"
	"board-lab/runtime"

	apperrors "board-lab/errors"
)

var _ contract.IBoardService = (*BoardService)(nil)

// BoardService coordinates room sessions: it glues the transports to the
// registry, the relay pipeline and the snapshot store.
type BoardService struct {
	log          *slog.Logger
	orchestrator *runtime.Orchestrator
	repository   repositories.IBoardRepository
	stats        *observability.RelayStats
	maxSnapshot  int
}

func NewBoardService(log *slog.Logger, orchestrator *runtime.Orchestrator,
	repository repositories.IBoardRepository, stats *observability.RelayStats,
	maxSnapshotBytes int) *BoardService {
	return &BoardService{
		log:          log,
		orchestrator: orchestrator,
		repository:   repository,
		stats:        stats,
		maxSnapshot:  maxSnapshotBytes,
	}
}

// JoinRoom makes the connection a member of the room and primes its sink
// with the stored snapshot. The room record is created on first join, so a
// failed lookup here is a store failure, never a missing room.
//
// The snapshot is pushed into the sink BEFORE the registry subscription:
// once subscribed the connection starts receiving live events, and those
// must queue behind the snapshot, not ahead of it.
//
// Membership is registered even when the store is down. The member then
// starts from a blank canvas but still sees every live stroke.
func (s *BoardService) JoinRoom(ctx context.Context, connectionID string, roomID domain.RoomID, sink contract.EventSink) error {
	if !roomID.Valid() {
		return apperrors.ErrInvalidKey
	}

	snapshot, found, err := s.repository.LoadOrCreate(ctx, roomID)
	if err != nil {
		s.log.Error("Board load failed on join", "room", roomID, "error", err)
		if consumeErr := sink.Consume(ctx, event.SnapshotLoadFailed{Room: string(roomID), Reason: "storage unavailable"}); consumeErr != nil {
			s.log.Debug("Joiner sink refused load failure notice", "room", roomID, "error", consumeErr)
		}
	} else {
		if consumeErr := sink.Consume(ctx, event.SnapshotLoaded{Room: string(roomID), Content: snapshot, Found: found}); consumeErr != nil {
			s.log.Debug("Joiner sink refused snapshot", "room", roomID, "error", consumeErr)
		}
	}

	s.orchestrator.Registry().Subscribe(connectionID, roomID, sink)
	s.stats.Joined()
	s.log.Info(fmt.Sprintf("Connection %s joined room %s", connectionID, roomID))
	return err
}

// LeaveRoom removes all memberships of the connection. Idempotent.
func (s *BoardService) LeaveRoom(connectionID string) {
	s.orchestrator.Registry().Unsubscribe(connectionID)
	s.stats.Disconnected()
	s.log.Info(fmt.Sprintf("Connection %s left", connectionID))
}

// Draw queues a stroke for relay to the other members of the room.
// The stroke payload is relayed untouched.
func (s *BoardService) Draw(cmd domain.DrawCommand) {
	s.orchestrator.Dispatch(event.Outbound{
		Event: event.StrokeDrawn{
			Room:        cmd.Room,
			Sender:      cmd.SenderID,
			X0:          cmd.X0,
			Y0:          cmd.Y0,
			X1:          cmd.X1,
			Y1:          cmd.Y1,
			Color:       cmd.Color,
			StrokeWidth: cmd.StrokeWidth,
			Tool:        cmd.Tool,
		},
		Sender: cmd.SenderID,
	})
}

// ClearBoard broadcasts the wipe immediately, then queues the snapshot
// reset for the persistence worker. The broadcast never waits on the store:
// members see the clear even if the write later fails.
func (s *BoardService) ClearBoard(cmd domain.ClearCommand) {
	s.orchestrator.Dispatch(event.Outbound{
		Event:  event.BoardCleared{Room: cmd.Room, Sender: cmd.SenderID},
		Sender: cmd.SenderID,
	})
	s.orchestrator.EnqueuePersist(domain.PersistJob{Room: domain.RoomID(cmd.Room), Snapshot: domain.EmptySnapshot})
}

// SaveBoard writes the snapshot synchronously. Only the caller learns the
// outcome; other members of the room are never notified of a save.
func (s *BoardService) SaveBoard(ctx context.Context, cmd domain.SaveCommand) error {
	roomID := domain.RoomID(cmd.Room)
	if !roomID.Valid() {
		s.stats.SaveFailed()
		return apperrors.ErrInvalidKey
	}
	if s.maxSnapshot > 0 && len(cmd.Content) > s.maxSnapshot {
		s.stats.SaveFailed()
		return fmt.Errorf("%w: %d bytes", apperrors.ErrSnapshotTooLarge, len(cmd.Content))
	}

	if err := s.repository.Upsert(ctx, roomID, cmd.Content); err != nil {
		s.stats.SaveFailed()
		s.log.Error("Board save failed", "room", roomID, "error", err)
		return err
	}
	s.stats.Saved()
	return nil
}

// LoadBoard reads the stored snapshot without touching room membership.
// An absent record reads as found=false, not as an error.
func (s *BoardService) LoadBoard(ctx context.Context, roomID domain.RoomID) (domain.Snapshot, bool, error) {
	if !roomID.Valid() {
		return domain.EmptySnapshot, false, apperrors.ErrInvalidKey
	}
	snapshot, found, err := s.repository.Load(ctx, roomID)
	if err != nil && !errors.Is(err, apperrors.ErrInvalidKey) {
		s.log.Error("Board load failed", "room", roomID, "error", err)
	}
	return snapshot, found, err
}
