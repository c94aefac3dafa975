package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"board-lab/domain/event"
	"board-lab/infrastructure/ws"
	"board-lab/observability"
	"board-lab/repositories"
	"board-lab/runtime"
	"board-lab/runtime/workers"
	"board-lab/services"

	"github.com/dgraph-io/badger/v4"
)

const frameTimeout = 2 * time.Second

// BaseBoardSuite boots a full in-process board server (badger in a temp
// dir, live workers, real websocket endpoint) unless SERVER_ADDR points at
// an external one.
type BaseBoardSuite struct {
	suite.Suite
	Config Config

	wsURL   string
	httpURL string
	server  *httptest.Server
	cancel  context.CancelFunc
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseBoardSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.ServerAddr != "" {
		s.wsURL = "ws://" + s.Config.ServerAddr + "/ws"
		s.httpURL = "http://" + s.Config.ServerAddr
		return
	}
	s.startInProcess()
}

func (s *BaseBoardSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *BaseBoardSuite) startInProcess() {
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	repository := repositories.NewBoardRepository(db, log)
	stats := observability.NewRelayStats(log)
	registry := runtime.NewRegistry()
	telemetryEvents := make(chan event.Event, 256)
	sup := workers.NewSupervisor(log, telemetryEvents)
	orchestrator := runtime.NewOrchestrator(log, sup, registry, telemetryEvents, repository, stats, 256, time.Hour, 2)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	orchestrator.Start(ctx)

	service := services.NewBoardService(log, orchestrator, repository, stats, 5_000_000)
	server := ws.NewServer(ctx, log, service, "*", 64, 5_000_000)

	s.server = httptest.NewServer(server.Router())
	s.wsURL = "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	s.httpURL = s.server.URL
}

// Member is one connected websocket peer of the scenario.
type Member struct {
	suite *BaseBoardSuite
	name  string
	conn  *websocket.Conn
}

// Connect dials a new peer with a colorized header in the logs.
func (s *BaseBoardSuite) Connect(t *testing.T, name string) *Member {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	conn, _, err := websocket.DefaultDialer.Dial(s.wsURL, nil)
	s.Require().NoError(err, "Failed to connect to board server at "+s.wsURL)
	t.Cleanup(func() { _ = conn.Close() })

	return &Member{suite: s, name: name, conn: conn}
}

func (m *Member) Send(eventName string, payload any) {
	raw, err := sonic.Marshal(payload)
	m.suite.Require().NoError(err)
	frame, err := sonic.Marshal(ws.Envelope{Event: eventName, Payload: raw})
	m.suite.Require().NoError(err)

	if m.suite.Config.DebugJSON {
		m.suite.T().Logf("%s >> %s", m.name, frame)
	}
	m.suite.Require().NoError(m.conn.WriteMessage(websocket.TextMessage, frame))
}

// Receive blocks for the next frame and decodes its payload into out.
func (m *Member) Receive(expectedEvent string, out any) {
	m.suite.Require().NoError(m.conn.SetReadDeadline(time.Now().Add(frameTimeout)))
	_, raw, err := m.conn.ReadMessage()
	m.suite.Require().NoError(err, m.name+" expected a frame")

	if m.suite.Config.DebugJSON {
		m.suite.T().Logf("%s << %s", m.name, raw)
	}

	var envelope ws.Envelope
	m.suite.Require().NoError(sonic.Unmarshal(raw, &envelope))
	m.suite.Require().Equal(expectedEvent, envelope.Event, m.name+" received an unexpected event")
	if out != nil {
		m.suite.Require().NoError(sonic.Unmarshal(envelope.Payload, out))
	}
}

// ExpectSilence asserts that no frame arrives within the grace period.
func (m *Member) ExpectSilence(grace time.Duration) {
	m.suite.Require().NoError(m.conn.SetReadDeadline(time.Now().Add(grace)))
	_, raw, err := m.conn.ReadMessage()
	if err == nil {
		m.suite.Require().Fail(m.name + " should have received nothing, got " + string(raw))
	}
}

// Join joins a room and returns the load_content payload.
func (m *Member) Join(roomID string) ws.LoadContentPayload {
	m.Send(ws.EventJoinRoom, ws.JoinRoomPayload{RoomID: roomID})
	var loaded ws.LoadContentPayload
	m.Receive(ws.EventLoadContent, &loaded)
	return loaded
}
