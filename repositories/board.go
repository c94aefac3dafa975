//go:generate go run go.uber.org/mock/mockgen -source=board.go -destination=../mocks/mock_board_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v4"

	"board-lab/domain"
	apperrors "board-lab/errors"
)

const keyPrefix = "board:"

// IBoardRepository is the persistence gateway: a key-value contract over
// whatever store backs it. One snapshot per room, replaced wholesale.
type IBoardRepository interface {
	// Load returns the room's snapshot, or found=false when no record
	// exists yet. Absence is a normal case, not an error.
	Load(ctx context.Context, roomID domain.RoomID) (domain.Snapshot, bool, error)
	// LoadOrCreate returns the snapshot, inserting an empty record first
	// when the room has never been seen. The find-or-insert is atomic so
	// two first-joiners cannot race each other into divergent records.
	LoadOrCreate(ctx context.Context, roomID domain.RoomID) (domain.Snapshot, bool, error)
	// Upsert replaces the room's snapshot, creating the record if absent.
	// Last write wins, no merge.
	Upsert(ctx context.Context, roomID domain.RoomID, snapshot domain.Snapshot) error
	// Clear is Upsert with the empty sentinel.
	Clear(ctx context.Context, roomID domain.RoomID) error
}

// BoardRecord is what actually sits in the store, sonic-encoded.
type BoardRecord struct {
	Content string    `json:"content"`
	Mime    string    `json:"mime,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

func Key(roomID domain.RoomID) []byte {
	return []byte(keyPrefix + string(roomID))
}

func encodeRecord(snapshot domain.Snapshot) ([]byte, error) {
	return sonic.Marshal(BoardRecord{
		Content: string(snapshot),
		Mime:    snapshot.SniffMime(),
		SavedAt: time.Now().UTC(),
	})
}

func DecodeRecord(value []byte) (BoardRecord, error) {
	var record BoardRecord
	if err := sonic.Unmarshal(value, &record); err != nil {
		return BoardRecord{}, err
	}
	return record, nil
}

type BoardRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewBoardRepository(db *badger.DB, log *slog.Logger) BoardRepository {
	return BoardRepository{db: db, log: log}
}

func (r BoardRepository) Load(_ context.Context, roomID domain.RoomID) (domain.Snapshot, bool, error) {
	if !roomID.Valid() {
		return domain.EmptySnapshot, false, apperrors.ErrInvalidKey
	}
	var record BoardRecord
	found := false
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(Key(roomID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		found = true
		return item.Value(func(value []byte) error {
			record, err = DecodeRecord(value)
			return err
		})
	})
	if err != nil {
		return domain.EmptySnapshot, false, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	return domain.Snapshot(record.Content), found, nil
}

func (r BoardRepository) LoadOrCreate(_ context.Context, roomID domain.RoomID) (domain.Snapshot, bool, error) {
	if !roomID.Valid() {
		return domain.EmptySnapshot, false, apperrors.ErrInvalidKey
	}
	var record BoardRecord
	found := false
	// Read and insert-if-missing share one transaction, so concurrent
	// first-joiners converge on a single empty record.
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(Key(roomID))
		if err == badger.ErrKeyNotFound {
			value, encErr := encodeRecord(domain.EmptySnapshot)
			if encErr != nil {
				return encErr
			}
			return txn.Set(Key(roomID), value)
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(value []byte) error {
			record, err = DecodeRecord(value)
			return err
		})
	})
	if err != nil {
		return domain.EmptySnapshot, false, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	return domain.Snapshot(record.Content), found, nil
}

func (r BoardRepository) Upsert(_ context.Context, roomID domain.RoomID, snapshot domain.Snapshot) error {
	if !roomID.Valid() {
		return apperrors.ErrInvalidKey
	}
	value, err := encodeRecord(snapshot)
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(Key(roomID), value)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	r.log.Debug("Board persisted", "room", roomID, "bytes", len(value))
	return nil
}

func (r BoardRepository) Clear(ctx context.Context, roomID domain.RoomID) error {
	return r.Upsert(ctx, roomID, domain.EmptySnapshot)
}
