package cache

import (
	"context"

	"github.com/emrgen/planmark/internal/model"
)

// MirrorCache holds warm snapshots of project mirrors. Implementations are
// best-effort collaborators: the engine logs cache failures and moves on.
type MirrorCache interface {
	// SetProject stores a snapshot of the project's plan list.
	SetProject(ctx context.Context, projectID string, plans []*model.FloorPlan) error
	// GetProject returns the cached snapshot, or nil when absent.
	GetProject(ctx context.Context, projectID string) ([]*model.FloorPlan, error)
	// DeleteProject drops the cached snapshot.
	DeleteProject(ctx context.Context, projectID string) error
	// GetProjectVersion returns the snapshot version for staleness checks.
	GetProjectVersion(ctx context.Context, projectID string) (int64, error)
}
