package jobs

import (
	"context"

	"github.com/emrgen/planmark/internal/cache"
	"github.com/emrgen/planmark/internal/queue"
	"github.com/emrgen/planmark/internal/store"
	"github.com/sirupsen/logrus"
)

// CacheSyncTask drains the marker change queue and rewrites the cached
// snapshot of every project that changed since the last run.
type CacheSyncTask struct {
	queue queue.MarkerQueue
	cache cache.MirrorCache
	store store.Gateway
	cron  string
}

func NewCacheSyncTask(interval string, q queue.MarkerQueue, c cache.MirrorCache, s store.Gateway) *CacheSyncTask {
	return &CacheSyncTask{
		queue: q,
		cache: c,
		store: s,
		cron:  interval,
	}
}

func (c *CacheSyncTask) ID() string {
	return "cache_sync"
}

func (c *CacheSyncTask) Name() string {
	return "cache_sync"
}

func (c *CacheSyncTask) Schedule() string {
	return c.cron
}

func (c *CacheSyncTask) Run() {
	ctx := context.Background()

	dirty := make(map[string]bool)
	for {
		change, err := c.queue.NextChange(ctx)
		if err != nil {
			logrus.Errorf("cache sync: reading change queue: %v", err)
			return
		}
		if change == nil {
			break
		}

		dirty[change.ProjectID] = true
	}

	for projectID := range dirty {
		plans, err := c.store.ListProjectFloorPlans(ctx, projectID)
		if err != nil {
			logrus.Errorf("cache sync: loading project %s: %v", projectID, err)
			continue
		}

		if err := c.cache.SetProject(ctx, projectID, plans); err != nil {
			logrus.Errorf("cache sync: writing project %s: %v", projectID, err)
		}
	}
}
