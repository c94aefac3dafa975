package event

import (
	"board-lab/domain"
)

// DomainEvent is anything fanned out to the members of a room or delivered
// to a single connection's sink.
type DomainEvent interface {
	RoomID() domain.RoomID
}

// Outbound is one relayable event tagged with its originating connection,
// so the fan-out can exclude the sender.
type Outbound struct {
	Event  DomainEvent
	Sender string
}

// StrokeDrawn is the live drawing event. It exists only for the duration of
// the relay: the server never stores or transforms it.
type StrokeDrawn struct {
	Room        string
	Sender      string
	X0, Y0      float64
	X1, Y1      float64
	Color       string
	StrokeWidth float64
	Tool        string
}

func (e StrokeDrawn) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}

// BoardCleared tells the members of a room to wipe their canvas.
// The matching snapshot reset is persisted asynchronously, best effort.
type BoardCleared struct {
	Room   string
	Sender string
}

func (e BoardCleared) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}

// SnapshotLoaded is delivered exactly once to a joining connection,
// before any relayed event can reach it.
type SnapshotLoaded struct {
	Room    string
	Content domain.Snapshot
	// Found is false when the room had no record before this join
	// (the record is created empty as a side effect of joining).
	Found bool
}

func (e SnapshotLoaded) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}

// SnapshotLoadFailed replaces SnapshotLoaded when the store is unreachable.
// The connection still becomes a live room member.
type SnapshotLoadFailed struct {
	Room   string
	Reason string
}

func (e SnapshotLoadFailed) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}

// SnapshotSaved acknowledges a save to the saver only. Other members of the
// room never learn about a save.
type SnapshotSaved struct {
	Room string
}

func (e SnapshotSaved) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}

// SnapshotSaveFailed is the saver-only failure counterpart of SnapshotSaved.
type SnapshotSaveFailed struct {
	Room   string
	Reason string
}

func (e SnapshotSaveFailed) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}
