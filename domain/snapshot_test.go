package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshot_SniffMimeFromDataURL(t *testing.T) {
	req := require.New(t)

	// Given a canvas export: a PNG header behind a data URL
	snapshot := Snapshot("data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR4nGP4z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg==")

	req.Equal("image/png", snapshot.SniffMime())
}

func TestSnapshot_SniffMimeOnGarbageNeverFails(t *testing.T) {
	req := require.New(t)

	req.Empty(EmptySnapshot.SniffMime())
	req.NotEmpty(Snapshot("not a data url at all").SniffMime())
	req.NotEmpty(Snapshot("data:image/png;base64,%%%invalid%%%").SniffMime())
}

func TestRoomID_Valid(t *testing.T) {
	req := require.New(t)

	req.False(RoomID("").Valid())
	req.True(RoomID("atelier").Valid())
	// Opaque keys: no format restriction whatsoever
	req.True(RoomID("  spaced / weird:key  ").Valid())
}
