package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"board-lab/contract"
	"board-lab/domain"

	apperrors "board-lab/errors"
)

// Server binds the board service to the outside world: the /ws realtime
// endpoint plus a small HTTP alternative for load and save.
type Server struct {
	log        *slog.Logger
	service    contract.IBoardService
	upgrader   websocket.Upgrader
	baseCtx    context.Context
	bufferSize int
	maxBytes   int64
}

// NewServer builds the transport. allowedOrigin "*" accepts any origin;
// anything else must match the Origin header exactly.
func NewServer(ctx context.Context, log *slog.Logger, service contract.IBoardService,
	allowedOrigin string, connectionBufferSize int, maxBytes int64) *Server {
	return &Server{
		log:     log,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return allowedOrigin == "*" || r.Header.Get("Origin") == allowedOrigin
			},
		},
		baseCtx:    ctx,
		bufferSize: connectionBufferSize,
		maxBytes:   maxBytes,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWs)
	mux.HandleFunc("GET /api/board/{roomId}", s.handleLoad)
	mux.HandleFunc("POST /api/board", s.handleSave)
	return mux
}

// handleWs upgrades the connection and runs both pumps for its lifetime.
// The pumps use the server's base context, not the request's: the request
// context dies with the handler while the socket lives on.
func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade refused", "remote", r.RemoteAddr, "error", err)
		return
	}

	connectionID := uuid.NewString()
	s.log.Info(fmt.Sprintf("Connection %s established from %s", connectionID, r.RemoteAddr))

	client := NewClient(s.log, s.service, conn, connectionID, s.bufferSize, s.maxBytes)
	go client.WritePump(s.baseCtx)
	go client.ReadPump(s.baseCtx)
}

// handleLoad is the socketless read: an absent board answers 200 with a
// null content, matching what a joining websocket member would see.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	roomID := domain.RoomID(r.PathValue("roomId"))

	snapshot, found, err := s.service.LoadBoard(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidKey) {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}
		http.Error(w, "Error loading board", http.StatusInternalServerError)
		return
	}

	payload := LoadContentPayload{RoomID: string(roomID)}
	if found {
		payload.Content = lo.ToPtr(string(snapshot))
	}
	s.writeJSON(w, payload)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBytes))
	if err != nil {
		http.Error(w, "Board too large", http.StatusRequestEntityTooLarge)
		return
	}

	var p SaveBoardPayload
	if err := sonic.Unmarshal(body, &p); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	err = s.service.SaveBoard(r.Context(), domain.SaveCommand{
		Room:    p.RoomID,
		Content: domain.Snapshot(p.Content),
	})
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Board saved"))
	case errors.Is(err, apperrors.ErrInvalidKey):
		http.Error(w, "invalid room id", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrSnapshotTooLarge):
		http.Error(w, "Board too large", http.StatusRequestEntityTooLarge)
	default:
		http.Error(w, "Error saving board", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		http.Error(w, "encoding failure", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}
