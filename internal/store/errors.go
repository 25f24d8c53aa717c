package store

import (
	"context"
	"errors"
	"fmt"
	"net"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the referenced entity vanished server-side,
	// e.g. it was deleted by another session. Callers must treat their local
	// mirror as stale.
	ErrNotFound = errors.New("entity not found")
	// ErrConstraint is returned when the server rejected the payload; retrying
	// the same mutation without correction will fail again.
	ErrConstraint = errors.New("constraint violated")
	// ErrNetwork is returned on transport or availability failures; the same
	// mutation may be re-issued.
	ErrNetwork = errors.New("network failure")
	// ErrStoreNotFound is returned by a Provider with no gateway registered
	// for the requested project.
	ErrStoreNotFound = errors.New("store not found")
)

// Kind buckets a gateway failure for the mutation engine. Every failure
// rolls back the optimistic change; the kind decides what happens next.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindConstraint
	KindNotFound
)

// Classify maps an error returned by a Gateway onto the failure taxonomy.
// Unrecognized errors classify as KindUnknown and are handled the same as
// the worst case: roll back, never leave a partial application behind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, ErrConstraint), errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return KindConstraint
	case errors.Is(err, ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	return KindUnknown
}

// wrap tags a raw gorm error with the matching sentinel so callers can use
// errors.Is against the taxonomy without importing gorm.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	switch Classify(err) {
	case KindNotFound:
		return fmt.Errorf("%s: %w: %v", op, ErrNotFound, err)
	case KindConstraint:
		return fmt.Errorf("%s: %w: %v", op, ErrConstraint, err)
	case KindNetwork:
		return fmt.Errorf("%s: %w: %v", op, ErrNetwork, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
