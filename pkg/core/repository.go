package core

import (
	"context"
	"strings"
)

// LocalStore defines the contract for persisting the whole Document on the
// local device. Calls are synchronous and never touch the network.
type LocalStore interface {
	// Load returns the persisted blob, or ErrNotFound if nothing is stored yet.
	Load() ([]byte, error)

	// Save replaces the persisted blob.
	Save(data []byte) error
}

// Notifier is told about every local mutation that should reach the remote.
type Notifier interface {
	Notify()
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func()

// Notify calls f.
func (f NotifierFunc) Notify() { f() }

// Record is what a remote document store holds for one user.
type Record struct {
	Payload   []byte
	UpdatedAt int64 // milliseconds since epoch
}

// RemoteStore defines the contract for a keyed remote document store.
// Implementations wrap their failures with ErrRemoteTimeout,
// ErrPermissionDenied or ErrNotProvisioned when they can tell them apart.
type RemoteStore interface {
	// Write replaces the record stored under key.
	Write(ctx context.Context, key string, rec Record) error

	// Read returns the record under key. The boolean is false when no record exists.
	Read(ctx context.Context, key string) (Record, bool, error)
}

// UserKeyPrefix prefixes every user document key.
const UserKeyPrefix = "users/"

// UserKey returns the remote key addressing a user's document.
func UserKey(uid string) string {
	return UserKeyPrefix + uid
}

// UserIDFromKey is the inverse of UserKey. Keys without the prefix are
// returned unchanged.
func UserIDFromKey(key string) string {
	return strings.TrimPrefix(key, UserKeyPrefix)
}
