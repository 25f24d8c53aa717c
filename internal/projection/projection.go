// Package projection computes the filtered, enriched marker view the
// rendering layer consumes. Project is a pure function: it never mutates
// its inputs and identical inputs always produce value-equal output.
package projection

import (
	"time"

	"github.com/emrgen/planmark/internal/item"
	"github.com/emrgen/planmark/internal/model"
)

// KindFilterAll disables type filtering; otherwise the filter is a
// item.Kind string.
const KindFilterAll = "all"

// StatusFilter narrows markers by the open/closed classification of their
// resolved item.
type StatusFilter string

const (
	StatusFilterAll    StatusFilter = "all"
	StatusFilterOpen   StatusFilter = "open"
	StatusFilterClosed StatusFilter = "closed"
)

// EnrichedMarker is a marker joined with its resolved item. It is derived
// state, never persisted.
type EnrichedMarker struct {
	Marker  model.FloorPlanMarker `json:"marker"`
	Item    item.Record           `json:"item"`
	Overdue bool                  `json:"overdue"`
}

// Input bundles the arguments of a projection run. Items is the host
// application's current snapshot of the external collections.
type Input struct {
	Plan   *model.FloorPlan
	Page   int
	Kind   string
	Status StatusFilter
	Items  *item.Set
	Now    time.Time
}

// Project filters the plan's markers to the current page, applies the type
// and status filters, and joins each survivor against the item collections.
// Markers whose item cannot be resolved are dropped: the reference is
// stale and rendering it would point at nothing.
func Project(in Input) []EnrichedMarker {
	out := make([]EnrichedMarker, 0)
	if in.Plan == nil || in.Items == nil {
		return out
	}

	for _, marker := range in.Plan.Markers {
		if marker.PageNumber != in.Page {
			continue
		}
		if in.Kind != KindFilterAll && marker.ItemKind != in.Kind {
			continue
		}

		kind, err := item.ParseKind(marker.ItemKind)
		if err != nil {
			continue
		}

		rec, ok := in.Items.Lookup(kind, marker.ItemID)
		if !ok {
			continue
		}

		switch in.Status {
		case StatusFilterOpen:
			if !item.Open(kind, rec.Status) {
				continue
			}
		case StatusFilterClosed:
			if !item.Closed(kind, rec.Status) {
				continue
			}
		}

		out = append(out, EnrichedMarker{
			Marker:  marker,
			Item:    rec,
			Overdue: item.Overdue(rec, kind, in.Now),
		})
	}

	return out
}
