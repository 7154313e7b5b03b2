// Package cache keeps the last computed stats snapshot so that it is not
// recomputed from the full log history on every read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"

	"github.com/2beens/calisthenics/internal/stats"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
	"github.com/2beens/calisthenics/internal/workout"
)

const (
	statsKey = "calisthenics:stats"
	statsTTL = 24 * time.Hour
)

// entry ties the snapshot to the day it was computed for, since the
// current streak depends on today.
type entry struct {
	Day      workout.Date   `json:"day"`
	Snapshot stats.Snapshot `json:"snapshot"`
}

func encode(day workout.Date, s stats.Snapshot) ([]byte, error) {
	return json.Marshal(entry{Day: day, Snapshot: s})
}

func decode(raw []byte, today workout.Date) (*stats.Snapshot, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode cached stats: %w", err)
	}
	if e.Day != today {
		return nil, nil
	}
	return &e.Snapshot, nil
}

// Redis stores the snapshot in redis, shared by every service instance.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{
		rdb: rdb,
	}
}

// Get returns nil on a miss or when the snapshot was computed on another day.
func (c *Redis) Get(ctx context.Context, today workout.Date) (_ *stats.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.redis.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := c.rdb.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(raw, today)
}

func (c *Redis) Set(ctx context.Context, today workout.Date, s stats.Snapshot) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.redis.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := encode(today, s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, statsKey, string(raw), statsTTL).Err()
}

func (c *Redis) Invalidate(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.redis.invalidate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return c.rdb.Del(ctx, statsKey).Err()
}

// Local stores the snapshot in process memory.
type Local struct {
	cache *freecache.Cache
}

func NewLocal(sizeBytes int) *Local {
	return &Local{
		cache: freecache.NewCache(sizeBytes),
	}
}

func (c *Local) Get(_ context.Context, today workout.Date) (*stats.Snapshot, error) {
	raw, err := c.cache.Get([]byte(statsKey))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(raw, today)
}

func (c *Local) Set(_ context.Context, today workout.Date, s stats.Snapshot) error {
	raw, err := encode(today, s)
	if err != nil {
		return err
	}
	return c.cache.Set([]byte(statsKey), raw, int(statsTTL.Seconds()))
}

func (c *Local) Invalidate(_ context.Context) error {
	c.cache.Del([]byte(statsKey))
	return nil
}
