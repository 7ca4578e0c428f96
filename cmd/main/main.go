package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/matt-steen/todo-board/pkg/config"
	"github.com/matt-steen/todo-board/pkg/controller"
	"github.com/matt-steen/todo-board/pkg/storage"
	"github.com/matt-steen/todo-board/pkg/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	filePerms    = 0o666
	dirPerms     = 0o755
	closeTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	configPath := flag.String("config", "", "path to the config file (default $XDG_CONFIG_HOME/todo-board/config.yaml)")
	ephemeral := flag.Bool("ephemeral", false, "keep the board in memory when no synced storage is reachable")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), dirPerms); err != nil {
		return fmt.Errorf("error creating log directory: %w", err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}

	defer logFile.Close()

	zerolog.SetGlobalLevel(cfg.Level())

	log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
		Out: logFile, TimeFormat: "2006-01-02_15:04:05",
	})

	log.Info().Msg("starting application...")

	if err := os.MkdirAll(filepath.Dir(cfg.DataFile), dirPerms); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}

	backend, err := storage.Select(ctx, storage.Options{
		RedisAddr:     cfg.Storage.Redis.Addr,
		RedisPassword: cfg.Storage.Redis.Password,
		RedisDB:       cfg.Storage.Redis.DB,
		RedisPrefix:   cfg.Storage.Redis.Prefix,
		DialTimeout:   cfg.Storage.Redis.DialTimeout,
		SQLitePath:    cfg.DataFile,
		Ephemeral:     *ephemeral || cfg.Storage.Ephemeral,
	})
	if err != nil {
		return fmt.Errorf("error opening storage: %w", err)
	}

	defer backend.Close()

	board, err := store.Load(ctx, storage.NewAdapter(backend),
		store.WithKey(cfg.Storage.Key),
		store.WithUsers(cfg.Users()),
		store.WithAssignmentPolicy(cfg.AssignmentPolicy()),
		store.WithDueDatePolicy(store.DueDatePolicy(cfg.Board.DueDatePolicy)),
		store.WithWriteTimeout(cfg.Storage.WriteTimeout),
		store.WithDefaults(store.Defaults{
			Links:      cfg.Links(),
			Background: cfg.Board.Background,
			UserName:   cfg.Board.UserName,
		}),
	)
	if err != nil {
		return err
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(ctx, closeTimeout)
		defer cancel()

		if err := board.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("error flushing board on exit")
		}

		log.Info().Msg("stopped")
	}()

	c, err := controller.NewController(ctx, board)
	if err != nil {
		return err
	}

	return c.Go()
}
