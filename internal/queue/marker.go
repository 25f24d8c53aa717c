package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var MarkerChangeQueue = "planmark:marker:change:queue"

// Change describes one reconciled marker mutation. Published after the
// server confirms, never for optimistic state.
type Change struct {
	ProjectID   string    `json:"project_id"`
	FloorPlanID string    `json:"floor_plan_id"`
	MarkerID    string    `json:"marker_id"`
	Op          string    `json:"op"` // create, reposition, delete
	At          time.Time `json:"at"`
}

// MarkerQueue fans reconciled marker changes out to interested consumers
// (cache sync, audit). Best-effort: publish failures are logged by the
// caller, not surfaced to the user.
type MarkerQueue interface {
	// PublishChange appends a marker change to the queue.
	PublishChange(ctx context.Context, change *Change) error
	// NextChange pops the oldest change, or nil when the queue is empty.
	NextChange(ctx context.Context) (*Change, error)
}

var _ MarkerQueue = (*RedisMarkerQueue)(nil)

type RedisMarkerQueue struct {
	client *redis.Client
}

func NewRedisMarkerQueue(client *redis.Client) *RedisMarkerQueue {
	return &RedisMarkerQueue{client: client}
}

func (q *RedisMarkerQueue) PublishChange(ctx context.Context, change *Change) error {
	marshal, err := json.Marshal(change)
	if err != nil {
		return err
	}

	return q.client.RPush(ctx, MarkerChangeQueue, marshal).Err()
}

func (q *RedisMarkerQueue) NextChange(ctx context.Context) (*Change, error) {
	res := q.client.LPop(ctx, MarkerChangeQueue)
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	change := &Change{}
	if err := json.Unmarshal([]byte(res.Val()), change); err != nil {
		return nil, err
	}

	return change, nil
}
