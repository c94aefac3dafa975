// Package domain contains core concepts of the whiteboard system.
// This file defines rooms and their invariants.
// No runtime, network, or UI logic should be added here.
package domain

// RoomID is the opaque key isolating one canvas session.
// Any non-empty string supplied by a client is a valid key.
type RoomID string

func (r RoomID) Valid() bool {
	return r != ""
}
