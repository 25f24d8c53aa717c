package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/emrgen/planmark/internal/mirror"
	"github.com/emrgen/planmark/internal/model"
	"github.com/emrgen/planmark/internal/store"
)

// fakeGateway is an in-memory Gateway double with per-operation failure
// injection and call hooks to interleave mutations mid-flight.
type fakeGateway struct {
	plans []*model.FloorPlan

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	createErr     error
	updateErr     error
	deleteErr     error
	planUpdateErr error
	deactivateErr error
	reorderErr    error
	pageCreateErr error
	pageUpdateErr error

	onPlanUpdate func() error
	onReorder    func() error
	onPageUpdate func() error

	onCreate func(call int) error
	onUpdate func(call int) error
	onDelete func(call int) error

	nextID  int
	created time.Time
}

var _ store.Gateway = (*fakeGateway)(nil)

func newFakeGateway(plans ...*model.FloorPlan) *fakeGateway {
	return &fakeGateway{
		plans:   plans,
		created: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeGateway) ListProjectFloorPlans(ctx context.Context, projectID string) ([]*model.FloorPlan, error) {
	f.listCalls++
	out := make([]*model.FloorPlan, 0, len(f.plans))
	for _, plan := range f.plans {
		out = append(out, mirror.ClonePlan(plan))
	}
	return out, nil
}

func (f *fakeGateway) CreateMarker(ctx context.Context, marker *model.FloorPlanMarker) error {
	f.createCalls++
	if f.onCreate != nil {
		if err := f.onCreate(f.createCalls); err != nil {
			return err
		}
	}
	if f.createErr != nil {
		return f.createErr
	}

	f.nextID++
	marker.ID = fmt.Sprintf("srv-%d", f.nextID)
	marker.CreatedAt = f.created
	return nil
}

func (f *fakeGateway) UpdateMarkerPosition(ctx context.Context, id string, x, y float64) error {
	f.updateCalls++
	if f.onUpdate != nil {
		if err := f.onUpdate(f.updateCalls); err != nil {
			return err
		}
	}
	return f.updateErr
}

func (f *fakeGateway) DeleteMarker(ctx context.Context, id string) error {
	f.deleteCalls++
	if f.onDelete != nil {
		if err := f.onDelete(f.deleteCalls); err != nil {
			return err
		}
	}
	return f.deleteErr
}

func (f *fakeGateway) GetMarker(ctx context.Context, id string) (*model.FloorPlanMarker, error) {
	return nil, store.ErrNotFound
}

func (f *fakeGateway) ListMarkers(ctx context.Context, floorPlanID string) ([]*model.FloorPlanMarker, error) {
	return nil, nil
}

func (f *fakeGateway) CreateFloorPlan(ctx context.Context, plan *model.FloorPlan) error {
	return nil
}

func (f *fakeGateway) GetFloorPlan(ctx context.Context, id string) (*model.FloorPlan, error) {
	return nil, store.ErrNotFound
}

func (f *fakeGateway) UpdateFloorPlan(ctx context.Context, plan *model.FloorPlan) error {
	if f.onPlanUpdate != nil {
		if err := f.onPlanUpdate(); err != nil {
			return err
		}
	}
	return f.planUpdateErr
}

func (f *fakeGateway) DeactivateFloorPlan(ctx context.Context, id string) error {
	return f.deactivateErr
}

func (f *fakeGateway) ReorderFloorPlans(ctx context.Context, projectID string, orderedIDs []string) error {
	if f.onReorder != nil {
		if err := f.onReorder(); err != nil {
			return err
		}
	}
	return f.reorderErr
}

func (f *fakeGateway) CreateFloorPlanPage(ctx context.Context, page *model.FloorPlanPage) error {
	if f.pageCreateErr != nil {
		return f.pageCreateErr
	}

	f.nextID++
	page.ID = fmt.Sprintf("srv-%d", f.nextID)
	return nil
}

func (f *fakeGateway) GetFloorPlanPage(ctx context.Context, floorPlanID string, pageNumber int) (*model.FloorPlanPage, error) {
	return nil, store.ErrNotFound
}

func (f *fakeGateway) UpdateFloorPlanPage(ctx context.Context, page *model.FloorPlanPage) error {
	if f.onPageUpdate != nil {
		if err := f.onPageUpdate(); err != nil {
			return err
		}
	}
	return f.pageUpdateErr
}

func (f *fakeGateway) Transaction(ctx context.Context, fn func(tx store.Gateway) error) error {
	return fn(f)
}

func (f *fakeGateway) Migrate() error {
	return nil
}
