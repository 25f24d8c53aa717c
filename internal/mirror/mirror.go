// Package mirror keeps the in-memory, per-project copy of floor-plan state
// that the rendering layer reads. All writes go through Patch, which swaps
// a fully-updated plan in whole, so readers always see a consistent
// snapshot and never a half-applied change.
package mirror

import (
	"errors"
	"sync"

	"github.com/emrgen/planmark/internal/model"
)

var ErrPlanNotFound = errors.New("floor plan not in mirror")

// LocalStore is the single source of truth for one project's plans, pages
// and markers between refreshes. It is owned by exactly one engine
// instance; nothing else mutates it.
type LocalStore struct {
	mu        sync.RWMutex
	projectID string
	plans     []*model.FloorPlan
	index     map[string]int
}

func NewLocalStore(projectID string) *LocalStore {
	return &LocalStore{
		projectID: projectID,
		plans:     make([]*model.FloorPlan, 0),
		index:     make(map[string]int),
	}
}

func (s *LocalStore) ProjectID() string {
	return s.projectID
}

// Load replaces the entire mirror. Used on initial fetch and full refresh.
func (s *LocalStore) Load(plans []*model.FloorPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plans = make([]*model.FloorPlan, 0, len(plans))
	s.index = make(map[string]int, len(plans))
	for _, plan := range plans {
		s.index[plan.ID] = len(s.plans)
		s.plans = append(s.plans, ClonePlan(plan))
	}
}

// Plans returns deep copies of all mirrored plans in display order.
func (s *LocalStore) Plans() []*model.FloorPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.FloorPlan, 0, len(s.plans))
	for _, plan := range s.plans {
		out = append(out, ClonePlan(plan))
	}

	return out
}

// Plan returns a deep copy of one mirrored plan.
func (s *LocalStore) Plan(id string) (*model.FloorPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, ErrPlanNotFound
	}

	return ClonePlan(s.plans[i]), nil
}

// FindMarker locates a marker by id across all mirrored plans and returns
// the owning plan id with a copy of the marker.
func (s *LocalStore) FindMarker(markerID string) (string, *model.FloorPlanMarker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, plan := range s.plans {
		for i := range plan.Markers {
			if plan.Markers[i].ID == markerID {
				marker := plan.Markers[i]
				return plan.ID, &marker, nil
			}
		}
	}

	return "", nil, ErrPlanNotFound
}

// Patch applies the updater to a working copy of one plan and swaps the
// copy in. The updater must be pure; it sees and returns nothing shared.
func (s *LocalStore) Patch(planID string, update func(plan *model.FloorPlan)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[planID]
	if !ok {
		return ErrPlanNotFound
	}

	working := ClonePlan(s.plans[i])
	update(working)
	s.plans[i] = working

	return nil
}

// SnapshotPlan captures one plan exactly for later restore.
func (s *LocalStore) SnapshotPlan(planID string) (*model.FloorPlan, error) {
	return s.Plan(planID)
}

// RestorePlan puts a snapshot back at the plan's current position. If the
// plan left the mirror since the snapshot was taken (a full refresh dropped
// it), the restore is a no-op.
func (s *LocalStore) RestorePlan(snapshot *model.FloorPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[snapshot.ID]
	if !ok {
		return
	}

	s.plans[i] = ClonePlan(snapshot)
}

// RestoreOrder puts plans back into a snapshot's display order and sort
// keys without touching their contents. Markers or pages reconciled since
// the snapshot was taken survive; plans that joined since keep their
// relative order after the snapshotted ones.
func (s *LocalStore) RestoreOrder(snapshot []*model.FloorPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sortKeys := make(map[string]int, len(snapshot))
	seen := make(map[string]bool, len(snapshot))
	next := make([]*model.FloorPlan, 0, len(s.plans))
	for _, plan := range snapshot {
		sortKeys[plan.ID] = plan.SortOrder
		if i, ok := s.index[plan.ID]; ok && !seen[plan.ID] {
			seen[plan.ID] = true
			next = append(next, s.plans[i])
		}
	}
	for _, plan := range s.plans {
		if !seen[plan.ID] {
			next = append(next, plan)
		}
	}

	for _, plan := range next {
		if key, ok := sortKeys[plan.ID]; ok {
			plan.SortOrder = key
		}
	}

	s.plans = next
	s.index = make(map[string]int, len(next))
	for i, plan := range next {
		s.index[plan.ID] = i
	}
}

// Reorder rearranges mirrored plans to follow orderedIDs; plans not listed
// keep their relative order after the listed ones.
func (s *LocalStore) Reorder(orderedIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(orderedIDs))
	next := make([]*model.FloorPlan, 0, len(s.plans))
	for _, id := range orderedIDs {
		if i, ok := s.index[id]; ok && !seen[id] {
			seen[id] = true
			next = append(next, s.plans[i])
		}
	}
	for _, plan := range s.plans {
		if !seen[plan.ID] {
			next = append(next, plan)
		}
	}

	for i, plan := range next {
		plan.SortOrder = i
	}

	s.plans = next
	s.index = make(map[string]int, len(next))
	for i, plan := range next {
		s.index[plan.ID] = i
	}
}

// Remove drops a plan from the mirror (soft delete reflected locally).
func (s *LocalStore) Remove(planID string) (*model.FloorPlan, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[planID]
	if !ok {
		return nil, 0, ErrPlanNotFound
	}

	removed := s.plans[i]
	s.plans = append(s.plans[:i], s.plans[i+1:]...)
	delete(s.index, planID)
	for j := i; j < len(s.plans); j++ {
		s.index[s.plans[j].ID] = j
	}

	return removed, i, nil
}

// Insert places a plan at the given display position.
func (s *LocalStore) Insert(plan *model.FloorPlan, at int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if at < 0 {
		at = 0
	}
	if at > len(s.plans) {
		at = len(s.plans)
	}

	clone := ClonePlan(plan)
	s.plans = append(s.plans, nil)
	copy(s.plans[at+1:], s.plans[at:])
	s.plans[at] = clone

	s.index = make(map[string]int, len(s.plans))
	for i, p := range s.plans {
		s.index[p.ID] = i
	}
}

// ClonePlan deep-copies a plan with its pages and markers.
func ClonePlan(plan *model.FloorPlan) *model.FloorPlan {
	clone := *plan

	clone.Pages = make([]model.FloorPlanPage, len(plan.Pages))
	copy(clone.Pages, plan.Pages)

	clone.Markers = make([]model.FloorPlanMarker, len(plan.Markers))
	copy(clone.Markers, plan.Markers)

	return &clone
}
