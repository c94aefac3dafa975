package ws

import (
	"encoding/json"

	"github.com/samber/lo"

	"board-lab/domain"
	"board-lab/domain/event"
)

// Wire event names, client and server side.
const (
	EventJoinRoom    = "join_room"
	EventLoadContent = "load_content"
	EventLoadError   = "load_error"
	EventDrawing     = "drawing"
	EventClear       = "clear"
	EventSaveBoard   = "save_board"
	EventSaveSuccess = "save_success"
	EventSaveError   = "save_error"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}

// DrawingPayload carries one stroke segment, relayed verbatim.
type DrawingPayload struct {
	X0          float64 `json:"x0"`
	Y0          float64 `json:"y0"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
	Tool        string  `json:"tool"`
	RoomID      string  `json:"roomId" validate:"required"`
}

type ClearPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}

type SaveBoardPayload struct {
	RoomID  string `json:"roomId" validate:"required"`
	Content string `json:"content"`
}

// LoadContentPayload answers a join. Content is null when the room had no
// stored snapshot yet.
type LoadContentPayload struct {
	RoomID  string  `json:"roomId"`
	Content *string `json:"content"`
}

type LoadErrorPayload struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

type SaveSuccessPayload struct {
	RoomID string `json:"roomId"`
}

type SaveErrorPayload struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

func toDrawCommand(p DrawingPayload, senderID string) domain.DrawCommand {
	return domain.DrawCommand{
		Room:        p.RoomID,
		SenderID:    senderID,
		X0:          p.X0,
		Y0:          p.Y0,
		X1:          p.X1,
		Y1:          p.Y1,
		Color:       p.Color,
		StrokeWidth: p.StrokeWidth,
		Tool:        p.Tool,
	}
}

func toDrawingPayload(e event.StrokeDrawn) DrawingPayload {
	return DrawingPayload{
		X0:          e.X0,
		Y0:          e.Y0,
		X1:          e.X1,
		Y1:          e.Y1,
		Color:       e.Color,
		StrokeWidth: e.StrokeWidth,
		Tool:        e.Tool,
		RoomID:      e.Room,
	}
}

func toLoadContentPayload(e event.SnapshotLoaded) LoadContentPayload {
	payload := LoadContentPayload{RoomID: e.Room}
	if e.Found {
		// A cleared board reads back as "", not null: the record exists.
		payload.Content = lo.ToPtr(string(e.Content))
	}
	return payload
}
