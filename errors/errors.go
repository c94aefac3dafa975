package errors

import "fmt"

var (
	// ErrPersistenceUnavailable means the backing store is unreachable or
	// timed out. It is reported to the caller, never swallowed.
	ErrPersistenceUnavailable = fmt.Errorf("persistence unavailable")
	// ErrInvalidKey rejects an empty or malformed room key before it ever
	// reaches the store. A missing record is NOT an error (empty board).
	ErrInvalidKey = fmt.Errorf("invalid room key")
	// ErrSnapshotTooLarge rejects snapshots above the configured byte cap.
	ErrSnapshotTooLarge = fmt.Errorf("snapshot exceeds size limit")
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrInvalidPayload   = fmt.Errorf("invalid telemetry payload")
)
