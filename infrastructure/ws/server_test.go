package ws

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/mocks"

	apperrors "board-lab/errors"
)

const testMaxBytes = 5_000_000

func newTestServer(t *testing.T, service contract.IBoardService) *httptest.Server {
	server := NewServer(context.Background(), slog.Default(), service, "*", 16, testMaxBytes)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	req := require.New(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	req.NoError(err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, eventName string, payload any) {
	req := require.New(t)
	raw, err := encode(eventName, payload)
	req.NoError(err)
	req.NoError(conn.WriteMessage(websocket.TextMessage, raw))
}

func receive(t *testing.T, conn *websocket.Conn) Envelope {
	req := require.New(t)
	req.NoError(conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, raw, err := conn.ReadMessage()
	req.NoError(err)

	var envelope Envelope
	req.NoError(sonic.Unmarshal(raw, &envelope))
	return envelope
}

func TestServer_JoinDeliversLoadContent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serviceMock := mocks.NewMockIBoardService(ctrl)

	// Given a join that lands a stored snapshot in the joiner's sink
	serviceMock.EXPECT().
		JoinRoom(gomock.Any(), gomock.Any(), domain.RoomID("atelier"), gomock.Any()).
		DoAndReturn(func(ctx context.Context, connectionID string, roomID domain.RoomID, sink contract.EventSink) error {
			return sink.Consume(ctx, event.SnapshotLoaded{Room: "atelier", Content: "data:image/png;base64,AA", Found: true})
		}).
		Times(1)
	serviceMock.EXPECT().LeaveRoom(gomock.Any()).AnyTimes()

	ts := newTestServer(t, serviceMock)
	conn := dial(t, ts)

	// When the client joins
	send(t, conn, EventJoinRoom, JoinRoomPayload{RoomID: "atelier"})

	// Then load_content arrives with the stored snapshot
	envelope := receive(t, conn)
	req.Equal(EventLoadContent, envelope.Event)

	var payload LoadContentPayload
	req.NoError(sonic.Unmarshal(envelope.Payload, &payload))
	req.NotNil(payload.Content)
	req.Equal("data:image/png;base64,AA", *payload.Content)
}

func TestServer_DrawingDispatchedWithConnectionID(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serviceMock := mocks.NewMockIBoardService(ctrl)

	drawn := make(chan domain.DrawCommand, 1)
	serviceMock.EXPECT().
		Draw(gomock.Any()).
		DoAndReturn(func(cmd domain.DrawCommand) {
			drawn <- cmd
		}).
		Times(1)
	serviceMock.EXPECT().LeaveRoom(gomock.Any()).AnyTimes()

	ts := newTestServer(t, serviceMock)
	conn := dial(t, ts)

	send(t, conn, EventDrawing, DrawingPayload{
		X0: 1, Y0: 2, X1: 3, Y1: 4,
		Color: "#000000", StrokeWidth: 2, Tool: "pen", RoomID: "atelier",
	})

	select {
	case cmd := <-drawn:
		req.Equal("atelier", cmd.Room)
		req.NotEmpty(cmd.SenderID)
	case <-time.After(time.Second):
		req.Fail("Drawing should have reached the service")
	}
}

func TestServer_DrawingWithoutRoomIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Given a service expecting no Draw at all
	serviceMock := mocks.NewMockIBoardService(ctrl)
	serviceMock.EXPECT().LeaveRoom(gomock.Any()).AnyTimes()

	ts := newTestServer(t, serviceMock)
	conn := dial(t, ts)

	// When a drawing without roomId arrives
	send(t, conn, EventDrawing, DrawingPayload{X1: 5, Tool: "pen"})

	// Then nothing happens; the missing expectation would fail on dispatch
	time.Sleep(200 * time.Millisecond)
}

func TestServer_SaveAcknowledgesSaverOnly(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serviceMock := mocks.NewMockIBoardService(ctrl)
	serviceMock.EXPECT().
		SaveBoard(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)
	serviceMock.EXPECT().LeaveRoom(gomock.Any()).AnyTimes()

	ts := newTestServer(t, serviceMock)
	conn := dial(t, ts)

	send(t, conn, EventSaveBoard, SaveBoardPayload{RoomID: "atelier", Content: "data:image/png;base64,AA"})

	envelope := receive(t, conn)
	req.Equal(EventSaveSuccess, envelope.Event)
}

func TestServer_SaveFailureAnswersSaveError(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serviceMock := mocks.NewMockIBoardService(ctrl)
	serviceMock.EXPECT().
		SaveBoard(gomock.Any(), gomock.Any()).
		Return(apperrors.ErrPersistenceUnavailable).
		Times(1)
	serviceMock.EXPECT().LeaveRoom(gomock.Any()).AnyTimes()

	ts := newTestServer(t, serviceMock)
	conn := dial(t, ts)

	send(t, conn, EventSaveBoard, SaveBoardPayload{RoomID: "atelier", Content: "data:image/png;base64,AA"})

	envelope := receive(t, conn)
	req.Equal(EventSaveError, envelope.Event)
}

func TestServer_HttpLoadAbsentBoardIsNull(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serviceMock := mocks.NewMockIBoardService(ctrl)
	serviceMock.EXPECT().
		LoadBoard(gomock.Any(), domain.RoomID("ghost")).
		Return(domain.EmptySnapshot, false, nil).
		Times(1)

	ts := newTestServer(t, serviceMock)

	resp, err := http.Get(ts.URL + "/api/board/ghost")
	req.NoError(err)
	defer func() { _ = resp.Body.Close() }()

	req.Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	req.NoError(err)
	req.JSONEq(`{"roomId":"ghost","content":null}`, string(body))
}

func TestServer_HttpSaveRoundTrip(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serviceMock := mocks.NewMockIBoardService(ctrl)
	serviceMock.EXPECT().
		SaveBoard(gomock.Any(), domain.SaveCommand{Room: "atelier", Content: "data:image/png;base64,AA"}).
		Return(nil).
		Times(1)

	ts := newTestServer(t, serviceMock)

	resp, err := http.Post(ts.URL+"/api/board", "application/json",
		strings.NewReader(`{"roomId":"atelier","content":"data:image/png;base64,AA"}`))
	req.NoError(err)
	defer func() { _ = resp.Body.Close() }()

	req.Equal(http.StatusOK, resp.StatusCode)
}

func TestServer_HttpSaveInvalidRoomIs400(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serviceMock := mocks.NewMockIBoardService(ctrl)
	serviceMock.EXPECT().
		SaveBoard(gomock.Any(), gomock.Any()).
		Return(apperrors.ErrInvalidKey).
		Times(1)

	ts := newTestServer(t, serviceMock)

	resp, err := http.Post(ts.URL+"/api/board", "application/json",
		strings.NewReader(`{"roomId":"","content":"x"}`))
	req.NoError(err)
	defer func() { _ = resp.Body.Close() }()

	req.Equal(http.StatusBadRequest, resp.StatusCode)
}
