package ws

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client is the middleman between one websocket connection and the board
// service. All reads happen in ReadPump, all writes in WritePump: gorilla
// allows at most one concurrent reader and one concurrent writer.
type Client struct {
	id       string
	log      *slog.Logger
	service  contract.IBoardService
	conn     *websocket.Conn
	sink     *Sink
	validate *validator.Validate
	maxBytes int64
}

func NewClient(log *slog.Logger, service contract.IBoardService,
	conn *websocket.Conn, connectionID string, bufferSize int, maxBytes int64) *Client {
	return &Client{
		id:       connectionID,
		log:      log,
		service:  service,
		conn:     conn,
		sink:     NewSink(bufferSize),
		validate: validator.New(),
		maxBytes: maxBytes,
	}
}

// ReadPump decodes client envelopes and dispatches them to the service.
// Returns when the peer disconnects or misbehaves; membership cleanup is
// unconditional.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.service.LeaveRoom(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.maxBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Websocket closed unexpectedly", "connection", c.id, "error", err)
			}
			return
		}

		var envelope Envelope
		if err := sonic.Unmarshal(raw, &envelope); err != nil {
			c.log.Debug("Unreadable envelope, ignoring", "connection", c.id, "error", err)
			continue
		}
		c.dispatch(ctx, envelope)
	}
}

func (c *Client) dispatch(ctx context.Context, envelope Envelope) {
	switch envelope.Event {
	case EventJoinRoom:
		var p JoinRoomPayload
		if !c.decode(envelope, &p) {
			return
		}
		if err := c.service.JoinRoom(ctx, c.id, domain.RoomID(p.RoomID), c.sink); err != nil {
			// Store failures already pushed a load_error through the sink.
			c.log.Debug("Join finished with error", "connection", c.id, "room", p.RoomID, "error", err)
		}

	case EventDrawing:
		var p DrawingPayload
		if !c.decode(envelope, &p) {
			return
		}
		c.service.Draw(toDrawCommand(p, c.id))

	case EventClear:
		var p ClearPayload
		if !c.decode(envelope, &p) {
			return
		}
		c.service.ClearBoard(domain.ClearCommand{Room: p.RoomID, SenderID: c.id})

	case EventSaveBoard:
		var p SaveBoardPayload
		if !c.decode(envelope, &p) {
			return
		}
		c.reply(ctx, c.save(ctx, p), p.RoomID)

	default:
		c.log.Debug("Unknown event, ignoring", "connection", c.id, "event", envelope.Event)
	}
}

func (c *Client) save(ctx context.Context, p SaveBoardPayload) error {
	return c.service.SaveBoard(ctx, domain.SaveCommand{
		Room:    p.RoomID,
		Content: domain.Snapshot(p.Content),
	})
}

// reply acknowledges a save to the saver only, through its own sink.
func (c *Client) reply(ctx context.Context, err error, roomID string) {
	var ack event.DomainEvent
	if err != nil {
		ack = event.SnapshotSaveFailed{Room: roomID, Reason: err.Error()}
	} else {
		ack = event.SnapshotSaved{Room: roomID}
	}
	if consumeErr := c.sink.Consume(ctx, ack); consumeErr != nil {
		c.log.Debug("Save acknowledgement dropped", "connection", c.id, "error", consumeErr)
	}
}

// decode unmarshals and validates one payload. A malformed or invalid
// payload is dropped, never fatal for the connection.
func (c *Client) decode(envelope Envelope, payload any) bool {
	if err := sonic.Unmarshal(envelope.Payload, payload); err != nil {
		c.log.Debug("Malformed payload, ignoring", "connection", c.id, "event", envelope.Event, "error", err)
		return false
	}
	if err := c.validate.Struct(payload); err != nil {
		c.log.Debug("Invalid payload, ignoring", "connection", c.id, "event", envelope.Event, "error", err)
		return false
	}
	return true
}

// WritePump drains the sink towards the peer and keeps the connection
// alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case evt := <-c.sink.Events:
			raw, err := encodeEvent(evt)
			if err != nil {
				c.log.Error("Event encoding failed", "connection", c.id, "error", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// encodeEvent frames a domain event into its wire envelope.
func encodeEvent(evt event.DomainEvent) ([]byte, error) {
	switch e := evt.(type) {
	case event.SnapshotLoaded:
		return encode(EventLoadContent, toLoadContentPayload(e))
	case event.SnapshotLoadFailed:
		return encode(EventLoadError, LoadErrorPayload{RoomID: e.Room, Reason: e.Reason})
	case event.StrokeDrawn:
		return encode(EventDrawing, toDrawingPayload(e))
	case event.BoardCleared:
		return encode(EventClear, ClearPayload{RoomID: e.Room})
	case event.SnapshotSaved:
		return encode(EventSaveSuccess, SaveSuccessPayload{RoomID: e.Room})
	case event.SnapshotSaveFailed:
		return encode(EventSaveError, SaveErrorPayload{RoomID: e.Room, Reason: e.Reason})
	default:
		return nil, fmt.Errorf("no wire mapping for %T", evt)
	}
}

func encode(eventName string, payload any) ([]byte, error) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return sonic.Marshal(Envelope{Event: eventName, Payload: raw})
}
