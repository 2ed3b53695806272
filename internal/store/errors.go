package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateID  = errors.New("duplicate record id")
	ErrUnknownTable = errors.New("unknown table")
)

// StoreError wraps a local persistence failure with the operation context.
// It is always surfaced to the caller, never swallowed.
type StoreError struct {
	Op    string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op, table string, err error) *StoreError {
	return &StoreError{Op: op, Table: table, Err: err}
}
