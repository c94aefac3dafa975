package repositories

import (
	"context"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"board-lab/domain"
	apperrors "board-lab/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBoardRepository_Load_Absent_Room(t *testing.T) {
	req := require.New(t)
	repository := NewBoardRepository(openTestDB(t), slog.Default())

	// Given no record for the room
	// When loading
	snapshot, found, err := repository.Load(context.Background(), "abc")

	// Then absence is a normal empty case, not an error
	req.NoError(err)
	req.False(found)
	req.Equal(domain.EmptySnapshot, snapshot)
}

func TestBoardRepository_LoadOrCreate_Creates_Empty_Record(t *testing.T) {
	req := require.New(t)
	repository := NewBoardRepository(openTestDB(t), slog.Default())

	// When a never-seen room is joined
	snapshot, found, err := repository.LoadOrCreate(context.Background(), "abc")
	req.NoError(err)
	req.False(found)
	req.True(snapshot.IsEmpty())

	// Then the empty record now exists for everyone
	snapshot, found, err = repository.Load(context.Background(), "abc")
	req.NoError(err)
	req.True(found)
	req.True(snapshot.IsEmpty())
}

func TestBoardRepository_LoadOrCreate_Keeps_Existing_Content(t *testing.T) {
	req := require.New(t)
	repository := NewBoardRepository(openTestDB(t), slog.Default())

	// Given a saved board
	req.NoError(repository.Upsert(context.Background(), "abc", "SNAPSHOT_V1"))

	// When another connection joins
	snapshot, found, err := repository.LoadOrCreate(context.Background(), "abc")

	// Then the saved content survives, nothing is overwritten
	req.NoError(err)
	req.True(found)
	req.Equal(domain.Snapshot("SNAPSHOT_V1"), snapshot)
}

func TestBoardRepository_Upsert_Last_Write_Wins(t *testing.T) {
	req := require.New(t)
	repository := NewBoardRepository(openTestDB(t), slog.Default())

	req.NoError(repository.Upsert(context.Background(), "abc", "SNAPSHOT_V1"))
	req.NoError(repository.Upsert(context.Background(), "abc", "SNAPSHOT_V2"))

	snapshot, found, err := repository.Load(context.Background(), "abc")
	req.NoError(err)
	req.True(found)
	req.Equal(domain.Snapshot("SNAPSHOT_V2"), snapshot)
}

func TestBoardRepository_Clear_Resets_To_Sentinel_Not_Absence(t *testing.T) {
	req := require.New(t)
	repository := NewBoardRepository(openTestDB(t), slog.Default())

	// Given a saved board
	req.NoError(repository.Upsert(context.Background(), "abc", "SNAPSHOT_V1"))

	// When cleared
	req.NoError(repository.Clear(context.Background(), "abc"))

	// Then the record still exists, holding the empty sentinel
	snapshot, found, err := repository.Load(context.Background(), "abc")
	req.NoError(err)
	req.True(found)
	req.True(snapshot.IsEmpty())
}

func TestBoardRepository_Rejects_Empty_Key(t *testing.T) {
	req := require.New(t)
	repository := NewBoardRepository(openTestDB(t), slog.Default())

	_, _, err := repository.Load(context.Background(), "")
	req.ErrorIs(err, apperrors.ErrInvalidKey)

	err = repository.Upsert(context.Background(), "", "SNAPSHOT_V1")
	req.ErrorIs(err, apperrors.ErrInvalidKey)
}

func TestBoardRepository_Room_Isolation(t *testing.T) {
	req := require.New(t)
	repository := NewBoardRepository(openTestDB(t), slog.Default())

	req.NoError(repository.Upsert(context.Background(), "abc", "SNAPSHOT_ABC"))
	req.NoError(repository.Upsert(context.Background(), "xyz", "SNAPSHOT_XYZ"))

	snapshot, _, err := repository.Load(context.Background(), "abc")
	req.NoError(err)
	req.Equal(domain.Snapshot("SNAPSHOT_ABC"), snapshot)

	snapshot, _, err = repository.Load(context.Background(), "xyz")
	req.NoError(err)
	req.Equal(domain.Snapshot("SNAPSHOT_XYZ"), snapshot)
}
