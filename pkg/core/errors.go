package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly         = errors.New("store is in read-only mode")
	ErrNotFound         = errors.New("document not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrNotebookNotFound = errors.New("notebook not found")
	ErrWrongPIN         = errors.New("wrong PIN")
	ErrNotLocked        = errors.New("note is not locked")
	ErrAlreadyLocked    = errors.New("note is already locked")
	ErrNoSnapshot       = errors.New("history snapshot not found")
)

// Remote store errors. Adapters wrap their transport errors with these so the
// sync engine can classify failures.
var (
	ErrRemoteTimeout    = errors.New("TIMEOUT: remote store did not respond")
	ErrPermissionDenied = errors.New("PERMISSION_DENIED: remote store rejected access")
	ErrNotProvisioned   = errors.New("NOT_FOUND: remote store is not provisioned")
)

// ValidationError reports invalid input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// LocalPersistenceError wraps a failure of the local store. It is logged and
// swallowed: the in-memory document stays authoritative.
type LocalPersistenceError struct {
	Op  string
	Err error
}

func (e *LocalPersistenceError) Error() string {
	return fmt.Sprintf("local persistence %s: %v", e.Op, e.Err)
}

func (e *LocalPersistenceError) Unwrap() error {
	return e.Err
}
