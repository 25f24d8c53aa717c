// Package engine implements the optimistic mutation protocol: every
// mutation is applied to the local mirror before the gateway confirms it,
// then reconciled against the committed record or rolled back to the exact
// pre-mutation snapshot.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/emrgen/planmark/internal/cache"
	"github.com/emrgen/planmark/internal/mirror"
	"github.com/emrgen/planmark/internal/queue"
	"github.com/emrgen/planmark/internal/store"
	"github.com/sirupsen/logrus"
)

// DuplicatePolicy decides whether one item may carry more than one marker.
type DuplicatePolicy int

const (
	// DuplicatePerPlan forbids a second marker for an item on the same
	// floor plan; other plans may still reference it. Default.
	DuplicatePerPlan DuplicatePolicy = iota
	// DuplicateGlobal forbids a second marker for an item anywhere in the
	// project.
	DuplicateGlobal
	// DuplicateUnrestricted disables the check.
	DuplicateUnrestricted
)

// Engine owns one project's mirror and serializes the optimistic protocol
// against it. Construct one per active project context and discard it on
// exit; callers hold a reference, never a global.
type Engine struct {
	projectID string
	gateway   store.Gateway
	mirror    *mirror.LocalStore
	cache     cache.MirrorCache
	queue     queue.MarkerQueue
	policy    DuplicatePolicy
	now       func() time.Time

	// seq guards rollbacks: every optimistic apply bumps the target
	// entity's counter, and a rollback only restores while the counter
	// still holds the value that apply wrote. A later mutation on the same
	// entity bumps past it, turning the earlier rollback into a no-op so
	// it cannot clobber newer optimistic state.
	muSeq sync.Mutex
	seq   map[string]uint64
}

type Option func(*Engine)

func WithCache(c cache.MirrorCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

func WithQueue(q queue.MarkerQueue) Option {
	return func(e *Engine) {
		e.queue = q
	}
}

func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(projectID string, gateway store.Gateway, opts ...Option) *Engine {
	e := &Engine{
		projectID: projectID,
		gateway:   gateway,
		mirror:    mirror.NewLocalStore(projectID),
		policy:    DuplicatePerPlan,
		now:       time.Now,
		seq:       make(map[string]uint64),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Engine) ProjectID() string {
	return e.projectID
}

// Mirror exposes the local store for read-side consumers (projection,
// handlers). Writes still only happen through engine mutations.
func (e *Engine) Mirror() *mirror.LocalStore {
	return e.mirror
}

// HasPendingMarkers reports whether any marker in the mirror still carries
// a temp id, i.e. its create has not reconciled yet.
func (e *Engine) HasPendingMarkers() bool {
	for _, plan := range e.mirror.Plans() {
		for _, marker := range plan.Markers {
			if marker.IsTemporary() {
				return true
			}
		}
	}

	return false
}

// Load replaces the whole mirror from the gateway. Also the forced-refresh
// path after a NotFound told us the mirror went stale.
func (e *Engine) Load(ctx context.Context) error {
	plans, err := e.gateway.ListProjectFloorPlans(ctx, e.projectID)
	if err != nil {
		return err
	}

	e.mirror.Load(plans)
	e.writeCacheSnapshot(ctx)

	return nil
}

// Refresh is Load under its protocol name: a full reconciliation sweep
// that also clears orphaned optimistic entries.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.Load(ctx)
}

func (e *Engine) bumpSeq(entityID string) uint64 {
	e.muSeq.Lock()
	defer e.muSeq.Unlock()

	e.seq[entityID]++
	return e.seq[entityID]
}

// seqMatches reports whether no later mutation touched the entity since
// the apply that recorded want.
func (e *Engine) seqMatches(entityID string, want uint64) bool {
	e.muSeq.Lock()
	defer e.muSeq.Unlock()

	return e.seq[entityID] == want
}

func (e *Engine) dropSeq(entityID string) {
	e.muSeq.Lock()
	defer e.muSeq.Unlock()

	delete(e.seq, entityID)
}

// refreshOnNotFound forces a full reload when a mutation failed because
// the entity vanished server-side; the mirror is known stale at that point.
func (e *Engine) refreshOnNotFound(ctx context.Context, err error) {
	if store.Classify(err) != store.KindNotFound {
		return
	}

	if rerr := e.Refresh(ctx); rerr != nil {
		logrus.Errorf("forced refresh after not-found failed: %v", rerr)
	}
}

// writeCacheSnapshot and publishChange are best-effort fan-out; neither
// affects the outcome of a mutation.
func (e *Engine) writeCacheSnapshot(ctx context.Context) {
	if e.cache == nil {
		return
	}

	if err := e.cache.SetProject(ctx, e.projectID, e.mirror.Plans()); err != nil {
		logrus.Warnf("mirror cache write failed: %v", err)
	}
}

func (e *Engine) publishChange(ctx context.Context, floorPlanID, markerID, op string) {
	if e.queue == nil {
		return
	}

	change := &queue.Change{
		ProjectID:   e.projectID,
		FloorPlanID: floorPlanID,
		MarkerID:    markerID,
		Op:          op,
		At:          e.now(),
	}
	if err := e.queue.PublishChange(ctx, change); err != nil {
		logrus.Warnf("marker change publish failed: %v", err)
	}
}
