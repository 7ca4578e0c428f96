// Package storage provides the string key-value backends that the board state is mirrored to,
// and the best-effort Adapter the store writes through.
package storage

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Select when no backend could be opened.
var ErrUnavailable = errors.New("no storage backend available")

// Backend is an eventually consistent string key-value store. Implementations make no promises
// about transactions or concurrent writers.
type Backend interface {
	// Get returns the value for key; ok is false when the key is not present.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Name identifies the backend in logs.
	Name() string
	Close() error
}
