// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vereinskasse/kiosk/internal/platform/constants"
)

// RedisStore keeps values in Redis under [constants.RedisPrefixState].
// Records have no TTL: a session lives until logout or refresh failure.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an already connected client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, constants.RedisPrefixState+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv: redis get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, constants.RedisPrefixState+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv: redis set %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, constants.RedisPrefixState+key).Err(); err != nil {
		return fmt.Errorf("kv: redis delete %q: %w", key, err)
	}
	return nil
}
