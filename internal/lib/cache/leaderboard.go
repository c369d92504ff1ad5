// Package cache keeps computed leaderboards in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deppfellow/rowboard/internal/model"
)

// KeyPrefix is shared by every leaderboard key.
const KeyPrefix = "leaderboard:"

// versionPrefix must not match KeyPrefix+"*", so InvalidateAll never
// deletes a version counter.
const versionPrefix = "leaderboard-version:"

const allVersionKey = versionPrefix + "all"

// scanBatch is the COUNT hint passed to SCAN when invalidating.
const scanBatch = 100

// ErrStale is returned by Set when the month was invalidated after the
// version passed to it was read. Nothing is written.
var ErrStale = errors.New("leaderboard changed while it was being computed")

// Version is the invalidation generation a leaderboard was computed under.
// All is bumped by InvalidateAll, Month by Invalidate for that month.
type Version struct {
	All   int64
	Month int64
}

// LeaderboardCache stores computed leaderboards per month.
//
// Readers call Version before querying the database and pass the result
// to Set, so a leaderboard computed before a concurrent write is never
// stored after that write's invalidation.
type LeaderboardCache interface {
	// Get returns the cached leaderboard for a month. ok is false on a miss.
	Get(ctx context.Context, year, month int) (entries []model.LeaderboardEntry, ok bool, err error)

	Version(ctx context.Context, year, month int) (Version, error)

	// Set stores entries computed under version, or returns ErrStale.
	Set(ctx context.Context, year, month int, version Version, entries []model.LeaderboardEntry) error

	// Invalidate drops a single month.
	Invalidate(ctx context.Context, year, month int) error

	// InvalidateAll drops every cached month.
	InvalidateAll(ctx context.Context) error
}

type RedisLeaderboardCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ LeaderboardCache = (*RedisLeaderboardCache)(nil)

func NewRedisLeaderboardCache(client redis.UniversalClient, ttl time.Duration) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{
		client: client,
		ttl:    ttl,
	}
}

// Key returns the Redis key for a month, e.g. "leaderboard:2024:3".
func Key(year, month int) string {
	return fmt.Sprintf("%s%d:%d", KeyPrefix, year, month)
}

func versionKey(year, month int) string {
	return fmt.Sprintf("%s%d:%d", versionPrefix, year, month)
}

func (c *RedisLeaderboardCache) Get(ctx context.Context, year, month int) ([]model.LeaderboardEntry, bool, error) {
	data, err := c.client.Get(ctx, Key(year, month)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get leaderboard from cache: %w", err)
	}

	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached leaderboard: %w", err)
	}
	return entries, true, nil
}

func (c *RedisLeaderboardCache) Version(ctx context.Context, year, month int) (Version, error) {
	return readVersion(ctx, c.client, year, month)
}

type multiGetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

func readVersion(ctx context.Context, r multiGetter, year, month int) (Version, error) {
	values, err := r.MGet(ctx, allVersionKey, versionKey(year, month)).Result()
	if err != nil {
		return Version{}, fmt.Errorf("failed to read leaderboard version: %w", err)
	}

	counters := make([]int64, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return Version{}, fmt.Errorf("unexpected leaderboard version type %T", v)
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("failed to parse leaderboard version: %w", err)
		}
		counters[i] = n
	}
	return Version{All: counters[0], Month: counters[1]}, nil
}

// Set writes the leaderboard inside a WATCH on both version counters, so
// an invalidation that lands between the check and the write aborts it.
func (c *RedisLeaderboardCache) Set(ctx context.Context, year, month int, version Version, entries []model.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, year, month)
		if err != nil {
			return err
		}
		if current != version {
			return ErrStale
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(year, month), data, c.ttl)
			return nil
		})
		return err
	}, allVersionKey, versionKey(year, month))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStale), errors.Is(err, redis.TxFailedErr):
		return ErrStale
	default:
		return fmt.Errorf("failed to cache leaderboard: %w", err)
	}
}

// Invalidate bumps the month's version and drops its cached value in one
// transaction.
func (c *RedisLeaderboardCache) Invalidate(ctx context.Context, year, month int) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(year, month))
		pipe.Del(ctx, Key(year, month))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate leaderboard %d-%d: %w", year, month, err)
	}
	return nil
}

// InvalidateAll bumps the shared version first, so no reader that started
// earlier can store a result, then deletes every cached month.
func (c *RedisLeaderboardCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, allVersionKey).Err(); err != nil {
		return fmt.Errorf("failed to bump leaderboard version: %w", err)
	}

	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", scanBatch).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to invalidate leaderboards: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan leaderboard keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate leaderboards: %w", err)
		}
	}
	return nil
}

// Nop is used when Redis is not configured: every Get misses and every
// write succeeds.
type Nop struct{}

var _ LeaderboardCache = Nop{}

func (Nop) Get(context.Context, int, int) ([]model.LeaderboardEntry, bool, error) {
	return nil, false, nil
}

func (Nop) Version(context.Context, int, int) (Version, error) { return Version{}, nil }

func (Nop) Set(context.Context, int, int, Version, []model.LeaderboardEntry) error { return nil }

func (Nop) Invalidate(context.Context, int, int) error { return nil }

func (Nop) InvalidateAll(context.Context) error { return nil }
