// Package item models the externally owned work items markers point at.
// The host application supplies fresh collections on its own schedule; this
// package only reads them.
package item

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownKind = errors.New("unknown item kind")

// Kind is the closed set of item families a marker can reference.
type Kind string

const (
	KindRFI       Kind = "rfi"
	KindSubmittal Kind = "submittal"
	KindTask      Kind = "task"
)

// Kinds lists all valid kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindRFI, KindSubmittal, KindTask}
}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindRFI, KindSubmittal, KindTask:
		return Kind(s), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Record is the slice of an external item the sync core needs: identity,
// status for filtering and a due date for overdue derivation. Anything else
// the item carries stays with its owner.
type Record struct {
	ID      string     `json:"id"`
	Number  string     `json:"number"`
	Title   string     `json:"title"`
	Status  string     `json:"status"`
	DueDate *time.Time `json:"due_date"`
}

// Set is a tagged union of item collections keyed by kind, captured as a
// snapshot at call time. Lookups go through the kind tag instead of probing
// every collection.
type Set struct {
	byKind map[Kind]map[string]Record
}

func NewSet() *Set {
	return &Set{byKind: make(map[Kind]map[string]Record)}
}

// WithKind registers a kind's collection, replacing any previous one.
func (s *Set) WithKind(kind Kind, records []Record) *Set {
	indexed := make(map[string]Record, len(records))
	for _, rec := range records {
		indexed[rec.ID] = rec
	}
	s.byKind[kind] = indexed

	return s
}

// Lookup resolves an item by kind and id. The second result is false when
// the reference is stale: the item was deleted or its collection omitted.
func (s *Set) Lookup(kind Kind, id string) (Record, bool) {
	records, ok := s.byKind[kind]
	if !ok {
		return Record{}, false
	}

	rec, ok := records[id]
	return rec, ok
}

// Len reports the total number of records across all kinds.
func (s *Set) Len() int {
	n := 0
	for _, records := range s.byKind {
		n += len(records)
	}
	return n
}
