package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

const DefaultStateKey = "pos:state"

type RedisAdapter struct {
	client *redis.Client
	key    string
}

func NewRedisAdapter(client *redis.Client, key string) *RedisAdapter {
	if key == "" {
		key = DefaultStateKey
	}
	return &RedisAdapter{client: client, key: key}
}

func (r *RedisAdapter) Load(ctx context.Context) (domain.State, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.EmptyState(), nil
	}
	if err != nil {
		return domain.EmptyState(), fmt.Errorf("redis get state: %w", err)
	}

	return decodeState(data)
}

func (r *RedisAdapter) Save(ctx context.Context, state domain.State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}
