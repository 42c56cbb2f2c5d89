// Package tracker holds the timer registry, its start/stop policy and the
// periodic tick that refreshes running timers.
package tracker

import (
	"time"

	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/rs/zerolog"
)

// Registry is the ordered set of timers. Order is insertion order and is the
// display and persistence order. It is not safe for concurrent use; all calls
// are expected to come from one event loop.
type Registry struct {
	policy Policy
	clock  Clock
	log    zerolog.Logger
	timers []*models.Timer
	nextID models.Handle
}

func NewRegistry(policy Policy, clock Clock, logger zerolog.Logger) *Registry {
	if clock == nil {
		clock = RealClock{}
	}
	if policy.Tick == "" {
		policy.Tick = models.TickLive
	}
	return &Registry{
		policy: policy,
		clock:  clock,
		log:    logger.With().Str("component", "registry").Logger(),
		nextID: 1,
	}
}

func (r *Registry) Policy() Policy { return r.policy }

func (r *Registry) Clock() Clock { return r.clock }

func (r *Registry) Len() int { return len(r.timers) }

// Add appends an idle timer and returns its handle.
func (r *Registry) Add(label string, initial models.Duration) models.Handle {
	id := r.nextID
	r.nextID++
	initial = models.Normalize(initial.TotalSeconds())
	r.timers = append(r.timers, &models.Timer{
		ID:          id,
		Label:       label,
		Accumulated: initial,
		Display:     initial,
	})
	r.log.Debug().Uint64("handle", uint64(id)).Str("label", label).Msg("timer added")
	return id
}

// Load appends persisted entries in order. With resume set, entries flagged
// running are started at the current clock time; the time the process was
// down is not counted.
func (r *Registry) Load(entries []models.Entry, resume bool) []models.Handle {
	handles := make([]models.Handle, 0, len(entries))
	for _, e := range entries {
		h := r.Add(e.Label, e.Duration)
		handles = append(handles, h)
		if resume && e.Running {
			if _, err := r.Start(h); err != nil {
				r.log.Warn().Err(err).Uint64("handle", uint64(h)).Msg("resume failed")
			}
		}
	}
	return handles
}

// Remove deletes a timer, keeping the relative order of the others.
func (r *Registry) Remove(h models.Handle) error {
	idx := r.index(h)
	if idx < 0 {
		return notFound("remove", h)
	}
	copy(r.timers[idx:], r.timers[idx+1:])
	r.timers[len(r.timers)-1] = nil
	r.timers = r.timers[:len(r.timers)-1]
	r.log.Debug().Uint64("handle", uint64(h)).Msg("timer removed")
	return nil
}

func (r *Registry) Rename(h models.Handle, label string) error {
	t := r.find(h)
	if t == nil {
		return notFound("rename", h)
	}
	t.Label = label
	return nil
}

// ResetOne zeroes one timer. A running timer keeps running from zero.
func (r *Registry) ResetOne(h models.Handle) error {
	t := r.find(h)
	if t == nil {
		return notFound("reset", h)
	}
	t.Reset(r.clock.Now())
	return nil
}

// ResetAll zeroes every timer. Running timers keep running from zero.
func (r *Registry) ResetAll() {
	now := r.clock.Now()
	for _, t := range r.timers {
		t.Reset(now)
	}
}

// Start runs a timer. Under the exclusive policy every other running timer is
// stopped first at the same instant. It returns the handles that were stopped.
func (r *Registry) Start(h models.Handle) ([]models.Handle, error) {
	t := r.find(h)
	if t == nil {
		return nil, notFound("start", h)
	}
	if t.Running {
		return nil, ErrAlreadyRunning
	}
	now := r.clock.Now()
	var stopped []models.Handle
	if r.policy.Exclusive {
		for _, other := range r.timers {
			if other.ID == h || !other.Running {
				continue
			}
			if err := other.Stop(now); err == nil {
				stopped = append(stopped, other.ID)
			}
		}
	}
	if err := t.Start(now); err != nil {
		return stopped, err
	}
	r.log.Debug().Uint64("handle", uint64(h)).Int("stopped", len(stopped)).Msg("timer started")
	return stopped, nil
}

// Stop commits the running time of a timer.
func (r *Registry) Stop(h models.Handle) error {
	t := r.find(h)
	if t == nil {
		return notFound("stop", h)
	}
	if err := t.Stop(r.clock.Now()); err != nil {
		return err
	}
	r.log.Debug().Uint64("handle", uint64(h)).Str("total", t.Accumulated.String()).Msg("timer stopped")
	return nil
}

// StartStop toggles a timer and reports whether it is now running.
func (r *Registry) StartStop(h models.Handle) (bool, error) {
	t := r.find(h)
	if t == nil {
		return false, notFound("start/stop", h)
	}
	if t.Running {
		return false, r.Stop(h)
	}
	_, err := r.Start(h)
	return err == nil, err
}

// StopAll stops every running timer.
func (r *Registry) StopAll() {
	now := r.clock.Now()
	for _, t := range r.timers {
		if t.Running {
			_ = t.Stop(now)
		}
	}
}

// Tick refreshes every running timer for the given instant.
func (r *Registry) Tick(now time.Time) {
	for _, t := range r.timers {
		t.Tick(now, r.policy.Tick)
	}
}

// Get returns a copy of one timer.
func (r *Registry) Get(h models.Handle) (models.Timer, error) {
	t := r.find(h)
	if t == nil {
		return models.Timer{}, notFound("get", h)
	}
	return copyTimer(t), nil
}

// Timers returns copies of all timers in order.
func (r *Registry) Timers() []models.Timer {
	out := make([]models.Timer, 0, len(r.timers))
	for _, t := range r.timers {
		out = append(out, copyTimer(t))
	}
	return out
}

// Running lists the handles of running timers in order.
func (r *Registry) Running() []models.Handle {
	var out []models.Handle
	for _, t := range r.timers {
		if t.Running {
			out = append(out, t.ID)
		}
	}
	return out
}

// Total sums the displayed durations.
func (r *Registry) Total() models.Duration {
	var total models.Duration
	for _, t := range r.timers {
		total = total.Add(t.Display)
	}
	return total
}

// Snapshot returns the persisted view of every timer. Running timers are
// captured with their live value at the current clock time without
// committing it.
func (r *Registry) Snapshot() []models.Entry {
	now := r.clock.Now()
	out := make([]models.Entry, 0, len(r.timers))
	for _, t := range r.timers {
		out = append(out, models.Entry{
			Label:    t.Label,
			Duration: t.Live(now),
			Running:  t.Running,
		})
	}
	return out
}

func (r *Registry) index(h models.Handle) int {
	for i, t := range r.timers {
		if t.ID == h {
			return i
		}
	}
	return -1
}

func (r *Registry) find(h models.Handle) *models.Timer {
	if idx := r.index(h); idx >= 0 {
		return r.timers[idx]
	}
	return nil
}

func copyTimer(t *models.Timer) models.Timer {
	out := *t
	if t.StartedAt != nil {
		started := *t.StartedAt
		out.StartedAt = &started
	}
	return out
}
