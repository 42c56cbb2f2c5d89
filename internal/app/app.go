// Package app wires the timer registry to its persistence backend and holds
// the operations the user interface calls.
package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/akyairhashvil/worktime/internal/config"
	"github.com/akyairhashvil/worktime/internal/database"
	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/akyairhashvil/worktime/internal/store"
	"github.com/akyairhashvil/worktime/internal/tracker"
	"github.com/akyairhashvil/worktime/internal/util"
	"github.com/rs/zerolog"
)

// App owns one registry and the store it is persisted to.
type App struct {
	cfg    *config.Settings
	reg    *tracker.Registry
	store  store.Store
	closer io.Closer
	log    zerolog.Logger
	loaded store.Result
}

// Option customizes Open.
type Option func(*options)

type options struct {
	clock tracker.Clock
	store store.Store
}

// WithClock replaces the wall clock used by the registry.
func WithClock(c tracker.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithStore uses s instead of the store described by the settings.
func WithStore(s store.Store) Option {
	return func(o *options) { o.store = s }
}

// Open builds the store from cfg, loads the saved timers and returns the
// application context. Malformed records are replaced with defaults and
// reported by Skipped.
func Open(ctx context.Context, cfg *config.Settings, logger zerolog.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	a := &App{
		cfg: cfg,
		log: logger.With().Str("component", "app").Logger(),
	}
	a.store = o.store
	if a.store == nil {
		s, closer, err := OpenStore(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		a.store = s
		a.closer = closer
	}
	policy := tracker.Policy{Exclusive: cfg.Timers.Exclusive, Tick: cfg.TickMode()}
	a.reg = tracker.NewRegistry(policy, o.clock, logger)

	res, err := a.store.Load(ctx)
	if err != nil {
		a.closeBackend()
		return nil, err
	}
	a.loaded = res
	a.reg.Load(res.Entries, cfg.Timers.ResumeRunning)
	a.log.Info().
		Str("store", a.store.Location()).
		Int("timers", len(res.Entries)).
		Bool("defaults", res.Defaults).
		Int("skipped", len(res.Skipped)).
		Msg("timers loaded")
	return a, nil
}

// OpenStore resolves the backend named by the settings. The closer is nil
// for file backends.
func OpenStore(ctx context.Context, cfg *config.Settings, logger zerolog.Logger) (store.Store, io.Closer, error) {
	format, err := store.ParseFormat(cfg.Store.Format)
	if err != nil {
		return nil, nil, err
	}
	path := cfg.StorePath(store.DefaultFileName(format))
	switch format {
	case store.FormatSQLite:
		db, err := database.Open(ctx, path, logger)
		if err != nil {
			return nil, nil, &store.PersistenceError{Op: "open", Path: path, Err: err}
		}
		return db, db, nil
	case store.FormatJSON, store.FormatYAML:
		// the file extension picks the codec when it names one
		if ext := store.FormatForPath(path); ext == store.FormatJSON || ext == store.FormatYAML {
			format = ext
		}
	}
	s, err := store.NewFileStore(format, path, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, nil, nil
}

func (a *App) Settings() *config.Settings { return a.cfg }

func (a *App) Registry() *tracker.Registry { return a.reg }

func (a *App) Store() store.Store { return a.store }

// FreshStart reports whether the store did not exist when the app opened.
func (a *App) FreshStart() bool { return a.loaded.Defaults }

// Skipped lists the records that were replaced with defaults on load.
func (a *App) Skipped() []*store.MalformedRecordError { return a.loaded.Skipped }

// LastSaved reports when the store was last written, when the backend
// tracks it.
func (a *App) LastSaved(ctx context.Context) (time.Time, bool) {
	if r, ok := a.store.(store.SaveTimeReporter); ok {
		return r.SavedAt(ctx)
	}
	return time.Time{}, false
}

func (a *App) Timers() []models.Timer { return a.reg.Timers() }

func (a *App) Total() models.Duration { return a.reg.Total() }

// AddTimer appends an idle timer with zero time.
func (a *App) AddTimer(label string) models.Handle {
	return a.reg.Add(label, models.Duration{})
}

// RemoveTimer deletes a timer and, unless disabled in the settings, saves the
// remaining set straight away. The removal stands even if the save fails.
func (a *App) RemoveTimer(ctx context.Context, h models.Handle) error {
	if err := a.reg.Remove(h); err != nil {
		return a.handleErr("remove", h, err)
	}
	if !a.cfg.Store.AutosaveOnRemove {
		return nil
	}
	return a.Save(ctx)
}

// StartStop toggles a timer under the configured policy.
func (a *App) StartStop(h models.Handle) (bool, error) {
	running, err := a.reg.StartStop(h)
	if err != nil {
		return running, a.handleErr("start/stop", h, err)
	}
	return running, nil
}

func (a *App) Reset(h models.Handle) error {
	return a.handleErr("reset", h, a.reg.ResetOne(h))
}

func (a *App) ResetAll() {
	a.reg.ResetAll()
	a.log.Info().Msg("all timers reset")
}

func (a *App) Rename(h models.Handle, label string) error {
	return a.handleErr("rename", h, a.reg.Rename(h, label))
}

// Tick refreshes running timers at the registry clock's current time.
func (a *App) Tick() {
	a.reg.Tick(a.reg.Clock().Now())
}

// Save writes a snapshot of every timer. Running timers keep running and are
// saved with the time tracked so far.
func (a *App) Save(ctx context.Context) error {
	entries := a.reg.Snapshot()
	if err := a.store.Save(ctx, entries); err != nil {
		a.log.Error().Err(err).Str("store", a.store.Location()).Msg("save failed")
		var pe *store.PersistenceError
		if !errors.As(err, &pe) {
			err = &store.PersistenceError{Op: "save", Path: a.store.Location(), Err: err}
		}
		return err
	}
	a.log.Debug().Int("timers", len(entries)).Msg("saved")
	return nil
}

// Close saves and releases the backend. The backend is closed even when the
// save fails; the save error is returned.
func (a *App) Close(ctx context.Context) error {
	saveErr := a.Save(ctx)
	closeErr := a.closeBackend()
	if saveErr != nil {
		return saveErr
	}
	return closeErr
}

// Release closes the backend without saving. Use it when the timers were
// already saved or the user chose to discard them.
func (a *App) Release() error {
	return a.closeBackend()
}

func (a *App) closeBackend() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	util.LogError(a.log, "close store", err)
	return err
}

// handleErr logs operations on unknown handles. Those indicate a caller bug
// and panic in debug builds.
func (a *App) handleErr(op string, h models.Handle, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, tracker.ErrNotFound) {
		a.log.Error().Err(err).Str("op", op).Uint64("handle", uint64(h)).Msg("unknown timer handle")
		tracker.AssertFound(err)
	}
	return err
}
