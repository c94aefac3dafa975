// Package runtime owns event propagation between connections and the
// supervision of the background workers. It orchestrates the system
// without containing business logic or domain rules.
package runtime

import (
	"sync"

	"board-lab/contract"
	"board-lab/domain"
)

type Set map[string]struct{}

// Registry is the bidirectional connection/room membership index. Handlers
// receive it by injection; there is no ambient global socket-to-room map.
type Registry struct {
	mu          sync.RWMutex
	Sessions    map[string]contract.EventSink // connection -> sink
	RoomMembers map[domain.RoomID]Set         // room -> connections
	MemberRoom  map[string]domain.RoomID      // connection -> its single room
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:    make(map[string]contract.EventSink),
		RoomMembers: make(map[domain.RoomID]Set),
		MemberRoom:  make(map[string]domain.RoomID),
	}
}

// SinksForRoom resolves the active sinks of a room, leaving out the
// excluded connection (the sender). Membership is read at call time under
// the lock, so a caller never observes a half-updated set.
func (r *Registry) SinksForRoom(roomID domain.RoomID, excluded string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.RoomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connectionID := range members {
		if connectionID == excluded {
			continue
		}
		if sink, exists := r.Sessions[connectionID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a connection's sink and assigns it to a room.
// A connection holds a single membership: joining another room replaces
// the previous one. Rejoining the same room is a membership no-op.
// Rooms are created on demand, a join never fails.
func (r *Registry) Subscribe(connectionID string, roomID domain.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.MemberRoom[connectionID]; ok && previous != roomID {
		r.dropMembership(connectionID, previous)
	}

	r.Sessions[connectionID] = sink
	r.MemberRoom[connectionID] = roomID

	if _, ok := r.RoomMembers[roomID]; !ok {
		r.RoomMembers[roomID] = make(Set)
	}
	r.RoomMembers[roomID][connectionID] = struct{}{}
}

// Unsubscribe removes a connection and its room association. Called on
// disconnect; idempotent, and a no-op for unknown connections. It touches
// membership bookkeeping only, never persisted snapshots.
func (r *Registry) Unsubscribe(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, connectionID)

	if roomID, ok := r.MemberRoom[connectionID]; ok {
		delete(r.MemberRoom, connectionID)
		r.dropMembership(connectionID, roomID)
	}
}

// RoomOf returns the room a connection currently belongs to.
func (r *Registry) RoomOf(connectionID string) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roomID, ok := r.MemberRoom[connectionID]
	return roomID, ok
}

// MemberCount reports the current size of a room, for telemetry.
func (r *Registry) MemberCount(roomID domain.RoomID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.RoomMembers[roomID])
}

// dropMembership must run under the write lock. Empty rooms are removed
// entirely to prevent the member map growing forever.
func (r *Registry) dropMembership(connectionID string, roomID domain.RoomID) {
	if members, ok := r.RoomMembers[roomID]; ok {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(r.RoomMembers, roomID)
		}
	}
}
