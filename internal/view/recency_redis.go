package view

import (
	"context"
	"time"

	platformredis "dynaform/internal/platform/redis"
)

// RedisRecencyMarker is an optional fast path in front of the event store:
// one SET NX with a TTL. Only a hit is authoritative — it proves a view
// inside the window and suppresses the repeat without a database query. A
// miss proves nothing, because markers do not survive restarts or
// eviction, so the caller still checks the event log. A marker set for a
// view whose event append later fails suppresses repeats for one window,
// which undercounts and never overcounts.
type RedisRecencyMarker struct {
	client *platformredis.Client
}

func NewRedisRecencyMarker(client *platformredis.Client) *RedisRecencyMarker {
	return &RedisRecencyMarker{client: client}
}

// MarkIfAbsent sets the marker for key with the window as TTL. It returns
// true when the marker was newly set, meaning no view was seen for the
// key inside the window.
func (m *RedisRecencyMarker) MarkIfAbsent(ctx context.Context, key string, window time.Duration) (bool, error) {
	return m.client.SetNX(ctx, "viewmark:"+key, 1, window).Result()
}
