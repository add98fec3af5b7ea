package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nventive-labs/todosync/internal/core/domain"
)

const snapshotKey = "todosync:todos:snapshot"

// SnapshotCache caches the serialised newest-first todo collection. The
// service invalidates it after every successful mutation, so a hit always
// reflects committed state. Only the discrete REST read path benefits; hub
// broadcasts force a re-read by invalidating first.
type SnapshotCache struct {
	client *redis.Client
}

func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

func (s *SnapshotCache) GetTodos(ctx context.Context) ([]*domain.Todo, bool, error) {
	raw, err := s.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("snapshot get: %w", err)
	}

	var todos []*domain.Todo
	if err := json.Unmarshal(raw, &todos); err != nil {
		// a corrupt snapshot is treated as a miss and overwritten later
		return nil, false, nil
	}
	return todos, true, nil
}

func (s *SnapshotCache) SetTodos(ctx context.Context, todos []*domain.Todo) error {
	raw, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("snapshot marshal: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("snapshot set: %w", err)
	}
	return nil
}

func (s *SnapshotCache) Invalidate(ctx context.Context) error {
	if err := s.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("snapshot invalidate: %w", err)
	}
	return nil
}
