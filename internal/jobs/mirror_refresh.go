package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/emrgen/planmark/internal/engine"
	"github.com/sirupsen/logrus"
)

// MirrorRefreshTask periodically reloads every registered engine's mirror.
// The full refresh reconciles anything a crashed or unmounted caller left
// behind, including orphaned optimistic entries from in-flight mutations.
type MirrorRefreshTask struct {
	mu      sync.Mutex
	engines map[string]*engine.Engine
	cron    string
	done    chan struct{}
}

func NewMirrorRefreshTask(interval string) *MirrorRefreshTask {
	return &MirrorRefreshTask{
		engines: make(map[string]*engine.Engine),
		cron:    interval,
		done:    make(chan struct{}),
	}
}

func (m *MirrorRefreshTask) ID() string {
	return "mirror_refresh"
}

func (m *MirrorRefreshTask) Name() string {
	return "mirror_refresh"
}

func (m *MirrorRefreshTask) Schedule() string {
	return m.cron
}

// Register adds an engine to the sweep. Deregister on project exit.
func (m *MirrorRefreshTask) Register(e *engine.Engine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engines[e.ProjectID()] = e
}

func (m *MirrorRefreshTask) Deregister(projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, projectID)
}

func (m *MirrorRefreshTask) Stop() {
	close(m.done)
}

func (m *MirrorRefreshTask) Run() {
	m.mu.Lock()
	engines := make([]*engine.Engine, 0, len(m.engines))
	for _, e := range m.engines {
		engines = append(engines, e)
	}
	m.mu.Unlock()

	for _, e := range engines {
		select {
		case <-m.done:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := e.Refresh(ctx); err != nil {
			logrus.Errorf("mirror refresh for project %s: %v", e.ProjectID(), err)
		}
		cancel()
	}
}
