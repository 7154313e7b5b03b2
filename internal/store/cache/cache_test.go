package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/calisthenics/internal/stats"
	"github.com/2beens/calisthenics/internal/workout"
)

var (
	today    = workout.MustParseDate("2024-01-12")
	lastDay  = workout.MustParseDate("2024-01-12")
	snapshot = stats.Snapshot{
		TotalDays:       8,
		CurrentStreak:   2,
		LongestStreak:   3,
		RecoveryCount:   2,
		LastWorkoutDate: &lastDay,
	}
)

func TestRedis(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := NewRedis(db)

	raw, err := encode(today, snapshot)
	require.NoError(t, err)

	mock.ExpectGet(statsKey).RedisNil()
	got, err := c.Get(ctx, today)
	require.NoError(t, err)
	assert.Nil(t, got)

	mock.ExpectSet(statsKey, string(raw), statsTTL).SetVal("OK")
	require.NoError(t, c.Set(ctx, today, snapshot))

	mock.ExpectGet(statsKey).SetVal(string(raw))
	got, err = c.Get(ctx, today)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snapshot, *got)

	// computed yesterday, stale today
	mock.ExpectGet(statsKey).SetVal(string(raw))
	got, err = c.Get(ctx, today.AddDays(1))
	require.NoError(t, err)
	assert.Nil(t, got)

	mock.ExpectDel(statsKey).SetVal(1)
	require.NoError(t, c.Invalidate(ctx))

	mock.ExpectGet(statsKey).SetErr(errors.New("connection refused"))
	_, err = c.Get(ctx, today)
	assert.ErrorContains(t, err, "connection refused")

	mock.ExpectGet(statsKey).SetVal("{broken")
	_, err = c.Get(ctx, today)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	c := NewLocal(1024 * 1024)

	got, err := c.Get(ctx, today)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, today, snapshot))
	got, err = c.Get(ctx, today)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snapshot, *got)

	got, err = c.Get(ctx, today.AddDays(1))
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Invalidate(ctx))
	got, err = c.Get(ctx, today)
	require.NoError(t, err)
	assert.Nil(t, got)
}
