package domain

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Snapshot is the full encoded canvas state of a room, persisted as one
// opaque blob. Value semantics: total replacement only, never a delta.
type Snapshot string

// EmptySnapshot is what a cleared or never-drawn-on board persists as.
// Clearing sets the record to this sentinel, it never deletes the record.
const EmptySnapshot Snapshot = ""

func (s Snapshot) IsEmpty() bool {
	return s == EmptySnapshot
}

// SniffMime detects the media type carried by a snapshot blob.
// Clients send canvases as data URLs ("data:image/png;base64,...."), so the
// base64 payload is decoded before detection. Anything unparseable is
// reported as application/octet-stream rather than failing the save.
func (s Snapshot) SniffMime() string {
	if s.IsEmpty() {
		return ""
	}
	raw := string(s)
	if rest, ok := strings.CutPrefix(raw, "data:"); ok {
		if idx := strings.Index(rest, ";base64,"); idx >= 0 {
			decoded, err := base64.StdEncoding.DecodeString(rest[idx+len(";base64,"):])
			if err == nil {
				return mimetype.Detect(decoded).String()
			}
		}
	}
	return mimetype.Detect([]byte(raw)).String()
}
