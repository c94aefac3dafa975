//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"board-lab/domain"
	"board-lab/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one connection's outbound delivery queue. Delivery is
// best-effort: a full sink drops rather than blocks the relay.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry is the room membership index. A connection belongs to at most
// one room; joining another room replaces the previous membership.
type IRegistry interface {
	SinksForRoom(roomID domain.RoomID, excluded string) []EventSink
	Subscribe(connectionID string, roomID domain.RoomID, sink EventSink)
	Unsubscribe(connectionID string)
}

// IBoardService is the room session coordinator seen by the transports.
type IBoardService interface {
	JoinRoom(ctx context.Context, connectionID string, roomID domain.RoomID, sink EventSink) error
	LeaveRoom(connectionID string)
	Draw(cmd domain.DrawCommand)
	ClearBoard(cmd domain.ClearCommand)
	SaveBoard(ctx context.Context, cmd domain.SaveCommand) error
	LoadBoard(ctx context.Context, roomID domain.RoomID) (domain.Snapshot, bool, error)
}
