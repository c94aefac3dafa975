package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"board-lab/domain"
	apperrors "board-lab/errors"
)

var _ IBoardRepository = RedisBoardRepository{}

// RedisBoardRepository is the alternative persistence backend. The gateway
// contract is storage-agnostic, so swapping stores is a config change only.
type RedisBoardRepository struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRedisBoardRepository(client *redis.Client, log *slog.Logger) RedisBoardRepository {
	return RedisBoardRepository{client: client, log: log}
}

func (r RedisBoardRepository) Load(ctx context.Context, roomID domain.RoomID) (domain.Snapshot, bool, error) {
	if !roomID.Valid() {
		return domain.EmptySnapshot, false, apperrors.ErrInvalidKey
	}
	value, err := r.client.Get(ctx, string(Key(roomID))).Bytes()
	if err == redis.Nil {
		return domain.EmptySnapshot, false, nil
	}
	if err != nil {
		return domain.EmptySnapshot, false, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	record, err := DecodeRecord(value)
	if err != nil {
		return domain.EmptySnapshot, false, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	return domain.Snapshot(record.Content), true, nil
}

func (r RedisBoardRepository) LoadOrCreate(ctx context.Context, roomID domain.RoomID) (domain.Snapshot, bool, error) {
	if !roomID.Valid() {
		return domain.EmptySnapshot, false, apperrors.ErrInvalidKey
	}
	empty, err := encodeRecord(domain.EmptySnapshot)
	if err != nil {
		return domain.EmptySnapshot, false, err
	}
	// SetNX inserts the empty record only when the key is absent, which
	// gives the same single-round-trip find-or-insert as the Badger txn.
	created, err := r.client.SetNX(ctx, string(Key(roomID)), empty, 0).Result()
	if err != nil {
		return domain.EmptySnapshot, false, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	if created {
		return domain.EmptySnapshot, false, nil
	}
	snapshot, _, err := r.Load(ctx, roomID)
	return snapshot, true, err
}

func (r RedisBoardRepository) Upsert(ctx context.Context, roomID domain.RoomID, snapshot domain.Snapshot) error {
	if !roomID.Valid() {
		return apperrors.ErrInvalidKey
	}
	value, err := encodeRecord(snapshot)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, string(Key(roomID)), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	r.log.Debug("Board persisted", "room", roomID, "bytes", len(value))
	return nil
}

func (r RedisBoardRepository) Clear(ctx context.Context, roomID domain.RoomID) error {
	return r.Upsert(ctx, roomID, domain.EmptySnapshot)
}
