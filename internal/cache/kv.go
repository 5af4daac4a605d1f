package cache

import (
	"context"
	"time"
)

// KV is a small JSON key/value cache. Values are marshaled on Set and
// unmarshaled into dst on Get; a miss is (false, nil).
type KV interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
