// Package engine serialises access to the snapshot store. Every write-path
// operation runs load → lifecycle → validate → mutate → save under one
// exclusive lock, so cross-record invariants are always checked against a
// snapshot no older than the mutation itself.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	"github.com/campus-transit/shuttle-ops-api/internal/store"
)

// Clock supplies the current time; tests inject fixed clocks.
type Clock func() time.Time

// Engine owns the write lock over the state store.
type Engine struct {
	store  store.Store
	mu     sync.RWMutex
	clock  Clock
	logger *zap.Logger
	onSave func()
}

// OnSave registers a hook invoked after every successful persist, used for
// metrics. Must be set before the engine serves requests.
func (e *Engine) OnSave(fn func()) {
	e.onSave = fn
}

func (e *Engine) save(ctx context.Context, snap *models.Snapshot) error {
	if err := e.store.Save(ctx, snap); err != nil {
		return err
	}
	if e.onSave != nil {
		e.onSave()
	}
	return nil
}

// New builds an engine over the given store.
func New(st store.Store, clock Clock, logger *zap.Logger) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: st, clock: clock, logger: logger}
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.clock()
}

// Update runs fn against a lifecycle-normalized snapshot under the exclusive
// lock. Lifecycle mutations persist immediately, before fn runs, so derived
// trip statuses are committed even when the outer operation fails. fn
// reports whether it mutated the snapshot; a mutation is saved as one whole
// document, an error leaves no partial effect.
func (e *Engine) Update(ctx context.Context, fn func(snap *models.Snapshot) (bool, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.store.Load(ctx)
	if err != nil {
		return err
	}

	if n := ApplyLifecycle(snap, e.clock()); n > 0 {
		if err := e.save(ctx, snap); err != nil {
			return err
		}
		e.logger.Debug("trip lifecycle pass persisted", zap.Int("transitions", n))
	}

	mutated, err := fn(snap)
	if err != nil {
		return err
	}
	if mutated {
		return e.save(ctx, snap)
	}
	return nil
}

// View runs fn against a lifecycle-normalized snapshot. Reads share the lock
// and operate on their own copy-on-load view; when the lifecycle pass needs
// to persist, the read takes the writer path first like any other mutation.
func (e *Engine) View(ctx context.Context, fn func(snap *models.Snapshot) error) error {
	e.mu.RLock()
	snap, err := e.store.Load(ctx)
	e.mu.RUnlock()
	if err != nil {
		return err
	}

	if ApplyLifecycle(snap, e.clock()) > 0 {
		// The dirty view cannot be trusted against a concurrent writer;
		// reload and persist under the exclusive lock, then serve that copy.
		// The snapshot captured here is private to this Update call.
		snap = nil
		err := e.Update(ctx, func(s *models.Snapshot) (bool, error) {
			snap = s
			return false, nil
		})
		if err != nil {
			return err
		}
	}

	return fn(snap)
}
