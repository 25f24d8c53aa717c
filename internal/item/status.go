package item

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Every kind has its own status vocabulary; the open/closed split below is
// the one the filter bar exposes.
var (
	openStatuses = map[Kind]mapset.Set[string]{
		KindRFI:       mapset.NewSet("Open", "Pending"),
		KindSubmittal: mapset.NewSet("Pending", "Submitted", "Under Review"),
		KindTask:      mapset.NewSet("Not Started", "In Progress", "Awaiting Response"),
	}

	closedStatuses = map[Kind]mapset.Set[string]{
		KindRFI:       mapset.NewSet("Answered", "Closed"),
		KindSubmittal: mapset.NewSet("Approved", "Approved as Noted", "Rejected", "Revise & Resubmit"),
		KindTask:      mapset.NewSet("Completed", "Cancelled"),
	}
)

// Open reports whether a status counts as open for the given kind.
func Open(kind Kind, status string) bool {
	set, ok := openStatuses[kind]
	return ok && set.Contains(status)
}

// Closed reports whether a status counts as closed for the given kind.
func Closed(kind Kind, status string) bool {
	set, ok := closedStatuses[kind]
	return ok && set.Contains(status)
}

// Overdue reports whether the record's due date has passed while its status
// is still not in the kind's closed set. Overdue overrides the normal
// status color in the consumer.
func Overdue(rec Record, kind Kind, now time.Time) bool {
	if rec.DueDate == nil {
		return false
	}
	if Closed(kind, rec.Status) {
		return false
	}

	return rec.DueDate.Before(now)
}
