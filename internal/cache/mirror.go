package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/emrgen/planmark/internal/compress"
	"github.com/emrgen/planmark/internal/model"
	redis "github.com/redis/go-redis/v9"
)

const (
	projectVersionHash = "planmark:project:version"
	snapshotTTL        = time.Hour
)

func projectKey(id string) string {
	return "planmark:project:" + id
}

var _ MirrorCache = (*RedisMirrorCache)(nil)

// RedisMirrorCache stores compressed snapshots of a project's plan list so
// a fresh engine (or another replica) can warm its mirror without hitting
// the database.
type RedisMirrorCache struct {
	client  *redis.Client
	encoder compress.Compress
}

func NewRedisMirrorCache(client *redis.Client, encoder compress.Compress) *RedisMirrorCache {
	return &RedisMirrorCache{client: client, encoder: encoder}
}

// NewRedis connects to the local redis with default options; used by the
// server wiring and the CLI.
func NewRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     "localhost:6379",
		Password: "", // No password set
		DB:       0,  // Use default DB
		Protocol: 2,  // Connection protocol
	})
}

func (r *RedisMirrorCache) SetProject(ctx context.Context, projectID string, plans []*model.FloorPlan) error {
	marshal, err := json.Marshal(plans)
	if err != nil {
		return err
	}

	encoded, err := r.encoder.Encode(marshal)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if err := p.Set(ctx, projectKey(projectID), encoded, snapshotTTL).Err(); err != nil {
			return err
		}

		if err := p.HIncrBy(ctx, projectVersionHash, projectID, 1).Err(); err != nil {
			return err
		}

		return nil
	})

	return err
}

func (r *RedisMirrorCache) GetProject(ctx context.Context, projectID string) ([]*model.FloorPlan, error) {
	res := r.client.Get(ctx, projectKey(projectID))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	decoded, err := r.encoder.Decode(buf)
	if err != nil {
		return nil, err
	}

	plans := make([]*model.FloorPlan, 0)
	err = json.Unmarshal(decoded, &plans)
	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *RedisMirrorCache) DeleteProject(ctx context.Context, projectID string) error {
	return r.client.Del(ctx, projectKey(projectID)).Err()
}

// GetProjectVersion returns the monotonically increasing snapshot version,
// 0 when the project was never cached.
func (r *RedisMirrorCache) GetProjectVersion(ctx context.Context, projectID string) (int64, error) {
	res := r.client.HGet(ctx, projectVersionHash, projectID)
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return 0, nil
		}
		return 0, res.Err()
	}

	return res.Int64()
}
