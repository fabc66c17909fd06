package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sandeepkv93/backlog/internal/config"
	"github.com/sandeepkv93/backlog/internal/engine"
	"github.com/sandeepkv93/backlog/internal/logging"
	"github.com/sandeepkv93/backlog/internal/model"
	"github.com/sandeepkv93/backlog/internal/storage"
)

type rootOptions struct {
	configPath string
	storePath  string
	driver     string
	logLevel   string
	now        string
	seed       uint64
}

// app is everything a subcommand needs once flags are parsed.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
	store    storage.Backend
	engine   *engine.Engine
	clock    model.Clock
}

// openApp resolves configuration from file, environment and flags, in that
// order, then opens the store and loads the engine. tui routes logs away
// from the terminal unless a log file is configured.
func openApp(ctx context.Context, opts *rootOptions, stderr io.Writer, tui bool) (*app, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg = config.FromEnv(cfg)
	if opts.storePath != "" {
		cfg.Store.Path = opts.storePath
	}
	if opts.driver != "" {
		cfg.Store.Driver = strings.ToLower(opts.driver)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = strings.ToLower(opts.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sink := stderr
	if tui {
		sink = nil
	}
	logger, closeLog, err := logging.Setup(cfg.Log, sink)
	if err != nil {
		return nil, err
	}

	var clock model.Clock = model.SystemClock{}
	if opts.now != "" {
		at, err := time.Parse(time.RFC3339Nano, opts.now)
		if err != nil {
			_ = closeLog()
			return nil, fmt.Errorf("parse --now: %w", err)
		}
		clock = model.ClockFunc(func() time.Time { return at.UTC() })
	}

	store, err := storage.Open(ctx, cfg.Store.Driver, cfg.Store.Path, logger)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}

	engineOpts := []engine.Option{
		engine.WithClock(clock),
		engine.WithLogger(logger),
		engine.WithDefaultReturnDays(cfg.Engine.DefaultReturnDays),
	}
	if opts.seed != 0 {
		engineOpts = append(engineOpts, engine.WithRandom(rand.New(rand.NewPCG(opts.seed, opts.seed))))
	}
	eng, err := engine.Open(ctx, store, engineOpts...)
	if err != nil && !errors.Is(err, model.ErrPersistenceFailure) {
		_ = store.Close()
		_ = closeLog()
		return nil, err
	}
	if err != nil {
		logger.Warn("catch-up could not be saved", "err", err)
	}
	logger.Debug("backlog opened",
		"driver", cfg.Store.Driver,
		"path", cfg.Store.Path,
		"caught_up", eng.CaughtUp(),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		store:    store,
		engine:   eng,
		clock:    clock,
	}, nil
}

func (a *app) Close() error {
	return errors.Join(a.store.Close(), a.closeLog())
}
