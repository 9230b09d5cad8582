// Package cache is a small JSON read-through cache in front of slow stores.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

const QuestionTTL = 10 * time.Minute

func QuestionKey(id string) string { return "question:" + id }

func QuestionListKey(category string) string {
	if category == "" {
		category = "_all"
	}
	return "questions:list:" + category
}

// GetOrLoad returns the cached value for key, or calls load and caches what it
// returns. A cache read error counts as a miss; a nil c always loads.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c != nil {
		var v T
		if hit, err := c.GetJSON(ctx, key, &v); err == nil && hit {
			return v, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if c != nil {
		_ = c.SetJSON(ctx, key, v, ttl)
	}
	return v, nil
}
