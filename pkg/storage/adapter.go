package storage

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Adapter gives the store a best-effort view of a Backend: reads that fail look like misses and
// failed writes are logged and dropped. Nothing it does returns an error.
type Adapter struct {
	backend Backend
}

// NewAdapter wraps backend.
func NewAdapter(backend Backend) *Adapter {
	if backend == nil {
		panic("storage.NewAdapter: backend is nil")
	}

	return &Adapter{backend: backend}
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Get returns the value stored under key, or ok == false if it is missing or unreadable.
func (a *Adapter) Get(ctx context.Context, key string) (string, bool) {
	value, ok, err := a.backend.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("backend", a.backend.Name()).Str("key", key).Msg("read failed, treating as missing")

		return "", false
	}

	return value, ok
}

// Set writes value under key. A failure is logged and otherwise ignored.
func (a *Adapter) Set(ctx context.Context, key, value string) {
	if err := a.backend.Set(ctx, key, value); err != nil {
		log.Warn().Err(err).Str("backend", a.backend.Name()).Str("key", key).Int("bytes", len(value)).
			Msg("write dropped")

		return
	}

	log.Debug().Str("backend", a.backend.Name()).Str("key", key).Int("bytes", len(value)).Msg("write ok")
}

// Remove deletes key. A failure is logged and otherwise ignored.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.backend.Remove(ctx, key); err != nil {
		log.Warn().Err(err).Str("backend", a.backend.Name()).Str("key", key).Msg("remove dropped")
	}
}
