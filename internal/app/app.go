// Package app assembles the engine: configuration, logging, the data
// store, the repository, and the command registry, behind the entry
// points the terminal consumes (Command, Autocomplete, Suggest).
package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"lorekeeper/internal/command"
	"lorekeeper/internal/config"
	"lorekeeper/internal/logging"
	"lorekeeper/internal/repo"
	"lorekeeper/internal/store"
	"lorekeeper/internal/world"
)

// App is one interactive session.
type App struct {
	cfg      config.Config
	registry *command.Registry
	meta     *command.Meta
	closer   func() error
}

// Option adjusts app construction, mainly for tests.
type Option func(*options)

type options struct {
	dataStore store.DataStore
	rng       *rand.Rand
	names     world.NameGenerator
}

// WithDataStore substitutes the backing store (tests use the memory
// store).
func WithDataStore(ds store.DataStore) Option {
	return func(o *options) { o.dataStore = ds }
}

// WithRng substitutes the random source for deterministic generation.
func WithRng(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithNameGenerator substitutes the name generator.
func WithNameGenerator(names world.NameGenerator) Option {
	return func(o *options) { o.names = names }
}

// New builds an App from configuration. The SQLite store is opened under
// the configured data dir unless an option replaces it; if it cannot be
// opened the app runs on an in-memory store.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := logging.Initialize(cfg.DataDir, logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return nil, err
	}
	log := logging.Get(logging.CategoryBoot)

	closer := func() error { return nil }
	dataStore := o.dataStore
	if dataStore == nil {
		sqliteStore, err := store.NewSQLiteStore(cfg.DatabasePath())
		if err != nil {
			log.Warnf("could not open %s, continuing without persistence: %v", cfg.DatabasePath(), err)
			dataStore = store.NewMemoryStore()
		} else {
			dataStore = sqliteStore
			closer = sqliteStore.Close
		}
	}

	demographics, err := world.DefaultDemographics()
	if err != nil {
		return nil, fmt.Errorf("load demographics: %w", err)
	}

	rng := o.rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	names := o.names
	if names == nil {
		names = world.ListNameGenerator{}
	}

	repository := repo.New(dataStore, repo.Limits{
		RecentMax: cfg.Engine.RecentMax,
		UndoMax:   cfg.Engine.UndoMax,
	})
	repository.Init(ctx)
	log.Infof("session ready, store enabled=%v", repository.StoreEnabled())

	return &App{
		cfg:      cfg,
		registry: command.DefaultRegistry(),
		meta: &command.Meta{
			Repo:            repository,
			Demographics:    demographics,
			Names:           names,
			Rng:             rng,
			AutocompleteMax: cfg.Engine.AutocompleteMax,
		},
		closer: closer,
	}, nil
}

// Command parses and runs one line of input, returning markdown output or
// a markdown error message.
func (a *App) Command(ctx context.Context, input string) (string, error) {
	return command.Run(ctx, a.registry, a.meta, input)
}

// Autocomplete returns up to the configured number of suggestions for a
// partial input, sorted by term.
func (a *App) Autocomplete(ctx context.Context, input string) []command.Suggestion {
	return command.Autocomplete(ctx, a.registry, a.meta, input)
}

// Suggest returns the canonical forms of the alternate interpretations of
// the most recent command, if there were any.
func (a *App) Suggest() []string {
	return a.meta.LastAlternates()
}

// Repo exposes the repository for status displays.
func (a *App) Repo() *repo.Repository {
	return a.meta.Repo
}

// Close flushes logs and releases the data store.
func (a *App) Close() error {
	logging.Sync()
	return a.closer()
}
