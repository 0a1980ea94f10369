package sync

import (
	"errors"
	"fmt"
)

// ErrDuplicate is returned by Store.Insert when a unique constraint is hit.
// The pipeline quarantines the offending record instead of failing the batch.
var ErrDuplicate = errors.New("duplicate key")

// BatchSizeError rejects a batch that exceeds the configured maximum.
// No records are processed and no partial result exists.
type BatchSizeError struct {
	Size int
	Max  int
}

func (e *BatchSizeError) Error() string {
	return fmt.Sprintf("batch size %d exceeds maximum of %d", e.Size, e.Max)
}

// UnavailableError is a fatal infrastructure failure. It is deliberately
// distinct from data conflicts: no partial result is returned, so the caller
// can retry the full batch without double counting. Mutations that committed
// before the failure remain durable.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ValidationError rejects a malformed record before it reaches the pipeline.
// The record is excluded from the batch with no quarantine entry, since it
// never reached data-conflict logic.
type ValidationError struct {
	Index int
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %d: %s %s", e.Index, e.Field, e.Msg)
}
