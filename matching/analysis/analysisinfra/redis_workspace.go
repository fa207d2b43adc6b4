package analysisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
	"github.com/go-redis/redis/v8"
)

const (
	DefaultWorkspaceTTL = 24 * time.Hour
	workspaceKeyPrefix  = "resumatch:current:"
)

// RedisWorkspace stores each user's current analysis as a JSON value with a TTL
type RedisWorkspace struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisWorkspace(client redis.Cmdable, ttl time.Duration) *RedisWorkspace {
	if ttl <= 0 {
		ttl = DefaultWorkspaceTTL
	}
	return &RedisWorkspace{
		client: client,
		ttl:    ttl,
	}
}

func workspaceKey(userID kernel.UserID) string {
	return workspaceKeyPrefix + userID.String()
}

func (w *RedisWorkspace) Get(ctx context.Context, userID kernel.UserID) (*analysis.Current, error) {
	data, err := w.client.Get(ctx, workspaceKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, analysis.ErrNoCurrentAnalysis()
		}
		return nil, analysis.ErrWorkspaceUnavailable(err)
	}

	var current analysis.Current
	if err := json.Unmarshal(data, &current); err != nil {
		return nil, analysis.ErrWorkspaceUnavailable(fmt.Errorf("corrupt workspace value: %w", err))
	}
	return &current, nil
}

func (w *RedisWorkspace) Put(ctx context.Context, userID kernel.UserID, current analysis.Current) error {
	data, err := json.Marshal(current)
	if err != nil {
		return analysis.ErrWorkspaceUnavailable(err)
	}
	if err := w.client.Set(ctx, workspaceKey(userID), data, w.ttl).Err(); err != nil {
		return analysis.ErrWorkspaceUnavailable(err)
	}
	return nil
}

func (w *RedisWorkspace) Invalidate(ctx context.Context, userID kernel.UserID) error {
	if err := w.client.Del(ctx, workspaceKey(userID)).Err(); err != nil {
		return analysis.ErrWorkspaceUnavailable(err)
	}
	return nil
}
