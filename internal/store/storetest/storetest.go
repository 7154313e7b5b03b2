// Package storetest holds the behaviour every store implementation shares.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/workout"
)

// Run exercises a fresh store returned by newStore for every subtest.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	tests := map[string]func(t *testing.T, s store.Store){
		"logs append and query":  testLogs,
		"logs append idempotent": testAppendIdempotent,
		"logs delete":            testDelete,
		"progress":               testProgress,
		"plan":                   testPlan,
		"settings":               testSettings,
		"import and reset":       testImportReset,
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() {
				assert.NoError(t, s.Close())
			})
			tc(t, s)
		})
	}
}

var createdBase = time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)

// Log builds a completed log with a fixed creation time offset by minutes.
func Log(id, date, key string, minutes int) workout.WorkoutLog {
	return workout.WorkoutLog{
		ID:          id,
		Date:        workout.MustParseDate(date),
		ExerciseKey: key,
		Level:       3,
		Completed:   true,
		Sets:        2,
		Reps:        12,
		Feeling:     workout.FeelingNormal,
		Note:        gofakeit.Sentence(4),
		CreatedAt:   createdBase.Add(time.Duration(minutes) * time.Minute),
	}
}

func ids(logs []workout.WorkoutLog) []string {
	out := make([]string, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.ID)
	}
	return out
}

func testLogs(t *testing.T, s store.Store) {
	ctx := context.Background()
	logs := s.Logs()

	skip := workout.WorkoutLog{
		ID:          "d",
		Date:        workout.MustParseDate("2024-01-03"),
		ExerciseKey: "pushup",
		Level:       3,
		SkipReason:  workout.SkipTired,
		CreatedAt:   createdBase.Add(time.Hour),
	}
	for _, l := range []workout.WorkoutLog{
		Log("b", "2024-01-02", "pushup", 10),
		Log("a", "2024-01-02", "pushup", 5),
		Log("c", "2024-01-02", "squat", 0),
		skip,
		Log("e", "2024-01-05", "pushup", 0),
	} {
		id, err := logs.Append(ctx, l)
		require.NoError(t, err)
		assert.Equal(t, l.ID, id)
	}

	got, err := logs.ByDate(ctx, workout.MustParseDate("2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))

	got, err = logs.ByDateRange(ctx, workout.MustParseDate("2024-01-03"), workout.MustParseDate("2024-01-05"))
	require.NoError(t, err)
	require.Equal(t, []string{"d", "e"}, ids(got))
	assert.False(t, got[0].Completed)
	assert.Equal(t, workout.SkipTired, got[0].SkipReason)

	got, err = logs.Recent(ctx, "pushup", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "d", "b"}, ids(got))

	got, err = logs.Recent(ctx, "pushup", 0)
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = logs.All(ctx)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "c", got[0].ID)

	first := got[0]
	assert.Equal(t, workout.MustParseDate("2024-01-02"), first.Date)
	assert.Equal(t, "squat", first.ExerciseKey)
	assert.Equal(t, 3, first.Level)
	assert.Equal(t, 2, first.Sets)
	assert.Equal(t, 12, first.Reps)
	assert.Equal(t, workout.FeelingNormal, first.Feeling)
	assert.NotEmpty(t, first.Note)
	assert.True(t, createdBase.Equal(first.CreatedAt))

	id, err := logs.Append(ctx, workout.WorkoutLog{
		Date:        workout.MustParseDate("2024-01-06"),
		ExerciseKey: "bridge",
		Level:       1,
		Completed:   true,
		Feeling:     workout.FeelingEasy,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func testAppendIdempotent(t *testing.T, s store.Store) {
	ctx := context.Background()
	l := Log("same", "2024-02-01", "pullup", 0)
	for i := 0; i < 3; i++ {
		_, err := s.Logs().Append(ctx, l)
		require.NoError(t, err)
	}
	all, err := s.Logs().All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.Logs().Append(ctx, Log("x", "2024-02-01", "pullup", 0))
	require.NoError(t, err)

	require.NoError(t, s.Logs().Delete(ctx, "x"))
	assert.ErrorIs(t, s.Logs().Delete(ctx, "x"), store.ErrNotFound)

	all, err := s.Logs().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testProgress(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.Progress().Get(ctx, "pushup")
	assert.ErrorIs(t, err, store.ErrNotFound)

	upgraded := createdBase.Add(24 * time.Hour)
	require.NoError(t, s.Progress().Put(ctx, workout.UserProgress{
		ExerciseKey: "pushup",
		Level:       4,
		UpgradedAt:  &upgraded,
		UpdatedAt:   upgraded,
	}))
	require.NoError(t, s.Progress().Put(ctx, workout.NewProgress("bridge", createdBase)))

	p, err := s.Progress().Get(ctx, "pushup")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Level)
	require.NotNil(t, p.UpgradedAt)
	assert.True(t, upgraded.Equal(*p.UpgradedAt))
	assert.Nil(t, p.DowngradedAt)

	p.Level = 3
	require.NoError(t, s.Progress().Put(ctx, *p))

	all, err := s.Progress().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "bridge", all[0].ExerciseKey)
	assert.Equal(t, 1, all[0].Level)
	assert.Equal(t, 3, all[1].Level)
}

func testPlan(t *testing.T, s store.Store) {
	ctx := context.Background()

	plan, err := s.Plan().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, workout.DefaultWeeklyPlan().For(time.Monday), plan.For(time.Monday))
	assert.True(t, plan.IsRestDay(time.Sunday))

	require.NoError(t, s.Plan().Put(ctx, time.Sunday, []string{"bridge", "legRaise"}))
	require.NoError(t, s.Plan().Put(ctx, time.Monday, nil))

	plan, err = s.Plan().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bridge", "legRaise"}, plan.For(time.Sunday))
	assert.True(t, plan.IsRestDay(time.Monday))
	assert.Equal(t, workout.DefaultWeeklyPlan().For(time.Tuesday), plan.For(time.Tuesday))
}

func testSettings(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, ok, err := s.Settings().Get(ctx, "enableNotification")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Settings().Put(ctx, "enableNotification", "true"))
	require.NoError(t, s.Settings().Put(ctx, "enableRecoveryMode", "false"))
	require.NoError(t, s.Settings().Put(ctx, "enableRecoveryMode", "true"))

	v, ok, err := s.Settings().Get(ctx, "enableRecoveryMode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	all, err := s.Settings().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"enableNotification": "true",
		"enableRecoveryMode": "true",
	}, all)
}

func testImportReset(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.Logs().Append(ctx, Log("local", "2024-03-01", "pushup", 0))
	require.NoError(t, err)

	state := store.State{
		Progress: []workout.UserProgress{
			{ExerciseKey: "squat", Level: 5, UpdatedAt: createdBase},
		},
		Logs: []workout.WorkoutLog{
			Log("local", "2024-03-01", "pushup", 0),
			Log("remote", "2024-03-02", "squat", 0),
		},
		Plan: workout.WeeklyPlan{
			time.Sunday: {"squat"},
		},
		Settings: map[string]string{"enableNotification": "true"},
	}
	require.NoError(t, s.Import(ctx, state))

	all, err := s.Logs().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"local", "remote"}, ids(all))

	p, err := s.Progress().Get(ctx, "squat")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Level)

	plan, err := s.Plan().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"squat"}, plan.For(time.Sunday))

	v, ok, err := s.Settings().Get(ctx, "enableNotification")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	bad := store.State{Logs: []workout.WorkoutLog{Log("", "2024-03-03", "squat", 0)}}
	assert.Error(t, s.Import(ctx, bad))

	require.NoError(t, s.Reset(ctx))
	all, err = s.Logs().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	progress, err := s.Progress().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, progress)
	settings, err := s.Settings().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, settings)
	plan, err = s.Plan().Get(ctx)
	require.NoError(t, err)
	assert.True(t, plan.IsRestDay(time.Sunday))
}
