// Package planmark synchronizes floor-plan markers between a host
// application and a persistent store. Mutations apply to the local mirror
// optimistically, reconcile against the committed record, and roll back
// exactly on failure; reads go through a pure enrichment projection.
package planmark

import (
	"time"

	"github.com/emrgen/planmark/internal/engine"
	"github.com/emrgen/planmark/internal/geometry"
	"github.com/emrgen/planmark/internal/item"
	"github.com/emrgen/planmark/internal/model"
	"github.com/emrgen/planmark/internal/projection"
	"github.com/emrgen/planmark/internal/store"
	"gorm.io/gorm"
)

// Re-exported core types; host applications import only this package.
type (
	Engine            = engine.Engine
	Option            = engine.Option
	CreateMarkerInput = engine.CreateMarkerInput
	DuplicatePolicy   = engine.DuplicatePolicy
	Gateway           = store.Gateway
	FloorPlan         = model.FloorPlan
	FloorPlanPage     = model.FloorPlanPage
	FloorPlanMarker   = model.FloorPlanMarker
	ItemKind          = item.Kind
	ItemRecord        = item.Record
	ItemSet           = item.Set
	EnrichedMarker    = projection.EnrichedMarker
	StatusFilter      = projection.StatusFilter
	Position          = geometry.Position
	Point             = geometry.Point
	Box               = geometry.Box
)

const (
	KindRFI       = item.KindRFI
	KindSubmittal = item.KindSubmittal
	KindTask      = item.KindTask

	DuplicatePerPlan      = engine.DuplicatePerPlan
	DuplicateGlobal       = engine.DuplicateGlobal
	DuplicateUnrestricted = engine.DuplicateUnrestricted

	StatusFilterAll    = projection.StatusFilterAll
	StatusFilterOpen   = projection.StatusFilterOpen
	StatusFilterClosed = projection.StatusFilterClosed
	KindFilterAll      = projection.KindFilterAll
)

var (
	WithCache           = engine.WithCache
	WithQueue           = engine.WithQueue
	WithDuplicatePolicy = engine.WithDuplicatePolicy
)

// New constructs the sync engine for one project. Callers own the returned
// engine for the life of the project context and drop it on exit.
func New(projectID string, gateway Gateway, opts ...Option) *Engine {
	return engine.New(projectID, gateway, opts...)
}

// NewGormGateway wraps a gorm database as the engine's persistence
// boundary.
func NewGormGateway(db *gorm.DB) Gateway {
	return store.NewGormStore(db)
}

// NewItemSet builds the tagged item collections used by Project.
func NewItemSet(rfis, submittals, tasks []ItemRecord) *ItemSet {
	return item.NewSet().
		WithKind(item.KindRFI, rfis).
		WithKind(item.KindSubmittal, submittals).
		WithKind(item.KindTask, tasks)
}

// Project computes the filtered, enriched marker view for one page of a
// plan. Pure: identical inputs give value-equal output.
func Project(plan *FloorPlan, page int, kind string, status StatusFilter, items *ItemSet) []EnrichedMarker {
	return projection.Project(projection.Input{
		Plan:   plan,
		Page:   page,
		Kind:   kind,
		Status: status,
		Items:  items,
		Now:    time.Now(),
	})
}

// ToPercent converts a pointer position inside a rendered element into the
// viewport-independent percent space markers are stored in.
func ToPercent(p Point, b Box) Position {
	return geometry.ToPercent(p, b)
}
