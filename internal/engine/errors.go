package engine

import "errors"

var (
	// ErrPlanNotFound is returned when the target floor plan is not in the
	// mirror; the caller is working from stale state.
	ErrPlanNotFound = errors.New("floor plan not found")
	// ErrMarkerNotFound is returned when the target marker is not in the
	// mirror.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrMarkerPending is returned when a mutation targets a marker whose
	// create has not reconciled yet; the server does not know its id.
	ErrMarkerPending = errors.New("marker create has not settled")
	// ErrPageOutOfRange is returned when a page number falls outside
	// [1, PageCount] for the plan.
	ErrPageOutOfRange = errors.New("page number out of range")
	// ErrDuplicateMarker is returned when the duplicate policy forbids a
	// second marker for the same item.
	ErrDuplicateMarker = errors.New("item already has a marker")
)
