package store

import (
	"context"

	"github.com/emrgen/planmark/internal/model"
)

// Gateway is the persistence boundary of the sync engine. Every call either
// returns committed records or a classified failure; partial success within
// one call never happens.
type Gateway interface {
	FloorPlanStore
	PageStore
	MarkerStore
	Transaction(ctx context.Context, f func(tx Gateway) error) error
	Migrate() error
}

type FloorPlanStore interface {
	// CreateFloorPlan creates a new floor plan.
	CreateFloorPlan(ctx context.Context, plan *model.FloorPlan) error
	// GetFloorPlan retrieves a floor plan by ID.
	GetFloorPlan(ctx context.Context, id string) (*model.FloorPlan, error)
	// ListProjectFloorPlans retrieves a project's active floor plans with
	// their pages and markers in one call, ordered for display.
	ListProjectFloorPlans(ctx context.Context, projectID string) ([]*model.FloorPlan, error)
	// UpdateFloorPlan updates a floor plan.
	UpdateFloorPlan(ctx context.Context, plan *model.FloorPlan) error
	// DeactivateFloorPlan soft-deletes a floor plan; the record stays while
	// markers still reference it.
	DeactivateFloorPlan(ctx context.Context, id string) error
	// ReorderFloorPlans rewrites the sort order of a project's plans.
	ReorderFloorPlans(ctx context.Context, projectID string, orderedIDs []string) error
}

type PageStore interface {
	// CreateFloorPlanPage creates a page record; pages exist only once named.
	CreateFloorPlanPage(ctx context.Context, page *model.FloorPlanPage) error
	// GetFloorPlanPage retrieves a page by floor plan and page number.
	GetFloorPlanPage(ctx context.Context, floorPlanID string, pageNumber int) (*model.FloorPlanPage, error)
	// UpdateFloorPlanPage updates a page record.
	UpdateFloorPlanPage(ctx context.Context, page *model.FloorPlanPage) error
}

type MarkerStore interface {
	// CreateMarker creates a marker and returns the committed record.
	CreateMarker(ctx context.Context, marker *model.FloorPlanMarker) error
	// GetMarker retrieves a marker by ID.
	GetMarker(ctx context.Context, id string) (*model.FloorPlanMarker, error)
	// ListMarkers retrieves all markers of a floor plan.
	ListMarkers(ctx context.Context, floorPlanID string) ([]*model.FloorPlanMarker, error)
	// UpdateMarkerPosition overwrites a marker's coordinates.
	UpdateMarkerPosition(ctx context.Context, id string, xPercent, yPercent float64) error
	// DeleteMarker deletes a marker by ID.
	DeleteMarker(ctx context.Context, id string) error
}
