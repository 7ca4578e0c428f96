package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultDialTimeout = 2 * time.Second

// Options describe the backends Select may choose from.
type Options struct {
	// RedisAddr enables the synced backend when non-empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	DialTimeout   time.Duration

	// SQLitePath is the local fallback. Ignored when Ephemeral is set.
	SQLitePath string
	// Ephemeral keeps everything in memory when no synced backend is reachable.
	Ephemeral bool
}

// Select picks the backend once at startup: the synced redis backend when it is configured and
// answers a ping, otherwise the local one.
func Select(ctx context.Context, opts Options) (Backend, error) {
	if opts.RedisAddr != "" {
		backend, err := openRedis(ctx, opts)
		if err == nil {
			log.Info().Str("addr", opts.RedisAddr).Msg("using synced storage")

			return backend, nil
		}

		log.Warn().Err(err).Str("addr", opts.RedisAddr).Msg("synced storage unavailable, falling back to local")
	}

	if opts.Ephemeral {
		log.Info().Msg("using in-memory storage")

		return NewMemory(), nil
	}

	if opts.SQLitePath == "" {
		return nil, ErrUnavailable
	}

	backend, err := NewSQLite(ctx, opts.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}

	log.Info().Str("path", opts.SQLitePath).Msg("using local storage")

	return backend, nil
}

func openRedis(ctx context.Context, opts Options) (*Redis, error) {
	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.RedisAddr,
		Password:    opts.RedisPassword,
		DB:          opts.RedisDB,
		DialTimeout: timeout,
	})

	backend := NewRedis(client, opts.RedisPrefix)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := backend.Ping(pingCtx); err != nil {
		_ = client.Close()

		return nil, err
	}

	return backend, nil
}
