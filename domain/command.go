package domain

// Command is a client intent targeting one room.
type Command interface {
	RoomID() RoomID
}

// DrawCommand carries one stroke segment. Geometry and style are relayed
// verbatim to the other room members, never validated or persisted.
type DrawCommand struct {
	Room        string
	SenderID    string
	X0, Y0      float64
	X1, Y1      float64
	Color       string
	StrokeWidth float64
	Tool        string
}

func (c DrawCommand) RoomID() RoomID {
	return RoomID(c.Room)
}

// ClearCommand wipes a room's canvas for every member and resets the
// persisted snapshot to the empty sentinel.
type ClearCommand struct {
	Room     string
	SenderID string
}

func (c ClearCommand) RoomID() RoomID {
	return RoomID(c.Room)
}

// SaveCommand persists the caller-supplied snapshot wholesale.
type SaveCommand struct {
	Room    string
	Content Snapshot
}

func (c SaveCommand) RoomID() RoomID {
	return RoomID(c.Room)
}

// PersistJob is a deferred snapshot write. Clears go through here: the
// broadcast must never wait for the store.
type PersistJob struct {
	Room     RoomID
	Snapshot Snapshot
}
