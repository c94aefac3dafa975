package ws

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"board-lab/domain"
	"board-lab/domain/event"
)

func TestEnvelope_DrawingRoundTrip(t *testing.T) {
	req := require.New(t)

	// Given a drawing frame as the browser client emits it
	raw := []byte(`{"event":"drawing","payload":{"x0":10,"y0":20,"x1":30,"y1":40,"color":"#ff0000","strokeWidth":2.5,"tool":"eraser","roomId":"atelier"}}`)

	var envelope Envelope
	req.NoError(sonic.Unmarshal(raw, &envelope))
	req.Equal(EventDrawing, envelope.Event)

	var payload DrawingPayload
	req.NoError(sonic.Unmarshal(envelope.Payload, &payload))
	req.Equal("atelier", payload.RoomID)
	req.Equal("eraser", payload.Tool)
	req.Equal(2.5, payload.StrokeWidth)

	cmd := toDrawCommand(payload, "conn-1")
	req.Equal("conn-1", cmd.SenderID)
	req.Equal(float64(30), cmd.X1)
}

func TestLoadContentPayload_AbsentBoardIsNull(t *testing.T) {
	req := require.New(t)

	// Given a room that never stored anything
	payload := toLoadContentPayload(event.SnapshotLoaded{Room: "fresh", Found: false})

	raw, err := sonic.Marshal(payload)
	req.NoError(err)
	req.JSONEq(`{"roomId":"fresh","content":null}`, string(raw))
}

func TestLoadContentPayload_ClearedBoardIsEmptyString(t *testing.T) {
	req := require.New(t)

	// Given a room that was cleared: the record exists, with the sentinel
	payload := toLoadContentPayload(event.SnapshotLoaded{Room: "wiped", Content: domain.EmptySnapshot, Found: true})

	raw, err := sonic.Marshal(payload)
	req.NoError(err)
	req.JSONEq(`{"roomId":"wiped","content":""}`, string(raw))
}

func TestEncodeEvent_CoversEveryOutboundType(t *testing.T) {
	req := require.New(t)

	outbound := []event.DomainEvent{
		event.SnapshotLoaded{Room: "r", Content: "data:image/png;base64,AA", Found: true},
		event.SnapshotLoadFailed{Room: "r", Reason: "storage unavailable"},
		event.StrokeDrawn{Room: "r", X1: 1, Tool: "pen"},
		event.BoardCleared{Room: "r"},
		event.SnapshotSaved{Room: "r"},
		event.SnapshotSaveFailed{Room: "r", Reason: "storage unavailable"},
	}
	expected := []string{
		EventLoadContent, EventLoadError, EventDrawing,
		EventClear, EventSaveSuccess, EventSaveError,
	}

	for i, evt := range outbound {
		raw, err := encodeEvent(evt)
		req.NoError(err)

		var envelope Envelope
		req.NoError(sonic.Unmarshal(raw, &envelope))
		req.Equal(expected[i], envelope.Event)
	}
}
