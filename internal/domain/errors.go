package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLog is returned when a log matches a known event signature
	// but its topics or data cannot be decoded. Distinct from an
	// unrecognized signature, which is a skip, not an error.
	ErrInvalidLog = errors.New("invalid event log")

	// ErrInvalidAmount is returned when a decimal-text amount cannot be
	// parsed or is negative
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAlreadyRunning is returned when a component is started twice
	ErrAlreadyRunning = errors.New("already running")
)

// BackfillInterruptedError is returned when a historical backfill aborts
// partway. LastProcessedBlock is the end of the last fully processed chunk;
// resuming from the next block is safe because replay is idempotent.
type BackfillInterruptedError struct {
	LastProcessedBlock uint64
	Err                error
}

func (e *BackfillInterruptedError) Error() string {
	return fmt.Sprintf("backfill interrupted after block %d: %v", e.LastProcessedBlock, e.Err)
}

func (e *BackfillInterruptedError) Unwrap() error {
	return e.Err
}
