package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/calisthenics/internal/telemetry/metrics"
	"github.com/2beens/calisthenics/internal/recommend"
	"github.com/2beens/calisthenics/internal/recovery"
	"github.com/2beens/calisthenics/internal/stats"
	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/tracker"
	"github.com/2beens/calisthenics/internal/workout"
)

// Wed 2024-03-13
var testNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) *tracker.Service {
	t.Helper()
	return tracker.NewService(tracker.ServiceParams{
		Store:    store.NewMemory(),
		Metrics:  metrics.NewTestManager(),
		Location: time.UTC,
		Now: func() time.Time {
			return testNow
		},
	})
}

func logWorkout(t *testing.T, s *tracker.Service, key, date string, sets, reps int) {
	t.Helper()
	d := workout.MustParseDate(date)
	_, err := s.LogWorkout(context.Background(), tracker.LogWorkoutInput{
		ExerciseKey: key,
		Date:        &d,
		Sets:        sets,
		Reps:        reps,
		Feeling:     workout.FeelingNormal,
	})
	require.NoError(t, err)
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, resultText(t, res))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &v))
	return v
}

func TestHandler_GetProgressTool(t *testing.T) {
	h := NewHandler(newTestTracker(t))

	res, _, err := h.GetProgressTool()(context.Background(), &mcp.CallToolRequest{}, nil)
	require.NoError(t, err)

	views := decodeResult[[]progressView](t, res)
	require.Len(t, views, 6)
	for _, v := range views {
		assert.Equal(t, 1, v.Level, v.ExerciseKey)
		assert.NotEmpty(t, v.Exercise, v.ExerciseKey)
		assert.NotEmpty(t, v.LevelName, v.ExerciseKey)
		assert.NotZero(t, v.Target.Sets, v.ExerciseKey)
	}
}

func TestHandler_GetStatsTool(t *testing.T) {
	s := newTestTracker(t)
	logWorkout(t, s, "pushup", "2024-03-11", 1, 10)
	logWorkout(t, s, "squat", "2024-03-12", 1, 10)
	h := NewHandler(s)

	res, _, err := h.GetStatsTool()(context.Background(), &mcp.CallToolRequest{}, nil)
	require.NoError(t, err)

	snapshot := decodeResult[stats.Snapshot](t, res)
	assert.Equal(t, 2, snapshot.TotalDays)
	assert.Equal(t, 2, snapshot.CurrentStreak)
	require.NotNil(t, snapshot.LastWorkoutDate)
	assert.Equal(t, "2024-03-12", snapshot.LastWorkoutDate.String())

	t.Run("store_error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, _, err := h.GetStatsTool()(ctx, &mcp.CallToolRequest{}, nil)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "Error fetching stats: ")
	})
}

func TestHandler_GetRecommendationTool(t *testing.T) {
	h := NewHandler(newTestTracker(t))
	fn := h.GetRecommendationTool()

	t.Run("beginner_target", func(t *testing.T) {
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, ExerciseInput{ExerciseKey: "pushup"})
		require.NoError(t, err)
		rec := decodeResult[recommend.Recommendation](t, res)
		assert.Equal(t, "pushup", rec.ExerciseKey)
		assert.Equal(t, 1, rec.Level)
		assert.False(t, rec.BasedOnLast)
	})

	t.Run("unknown_exercise", func(t *testing.T) {
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, ExerciseInput{ExerciseKey: "burpee"})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "Error fetching recommendation: ")
	})
}

func TestHandler_GetProgressionAnalysisTool(t *testing.T) {
	s := newTestTracker(t)
	logWorkout(t, s, "pushup", "2024-03-12", 1, 10)
	h := NewHandler(s)

	res, _, err := h.GetProgressionAnalysisTool()(context.Background(), &mcp.CallToolRequest{}, ExerciseInput{ExerciseKey: "pushup"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"state"`)

	res, _, err = h.GetProgressionAnalysisTool()(context.Background(), &mcp.CallToolRequest{}, ExerciseInput{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandler_GetWorkoutLogsTool(t *testing.T) {
	s := newTestTracker(t)
	logWorkout(t, s, "pushup", "2024-03-01", 1, 10)
	logWorkout(t, s, "pushup", "2024-03-10", 1, 12)
	h := NewHandler(s)
	fn := h.GetWorkoutLogsTool()

	t.Run("invalid_from_date", func(t *testing.T) {
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, LogsTimeRangeInput{FromDate: "03/01/2024", ToDate: "2024-03-13"})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "Invalid from_date")
	})

	t.Run("invalid_to_date", func(t *testing.T) {
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, LogsTimeRangeInput{FromDate: "2024-03-01", ToDate: "tomorrow"})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "Invalid to_date")
	})

	t.Run("range", func(t *testing.T) {
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, LogsTimeRangeInput{FromDate: "2024-03-05", ToDate: "2024-03-13"})
		require.NoError(t, err)
		logs := decodeResult[[]workout.WorkoutLog](t, res)
		require.Len(t, logs, 1)
		assert.Equal(t, 12, logs[0].Reps)
	})

	t.Run("empty_range", func(t *testing.T) {
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, LogsTimeRangeInput{FromDate: "2024-02-01", ToDate: "2024-02-10"})
		require.NoError(t, err)
		assert.Equal(t, "[]", resultText(t, res))
	})
}

func TestHandler_GetWeeklyReportTool(t *testing.T) {
	s := newTestTracker(t)
	logWorkout(t, s, "pushup", "2024-03-12", 1, 10)
	h := NewHandler(s)

	res, _, err := h.GetWeeklyReportTool()(context.Background(), &mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	require.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Calisthenics weekly report")
	assert.Contains(t, text, "Trained days: 1")
}

func TestHandler_GetRecoverySuggestionTool(t *testing.T) {
	t.Run("nothing_logged", func(t *testing.T) {
		h := NewHandler(newTestTracker(t))
		res, _, err := h.GetRecoverySuggestionTool()(context.Background(), &mcp.CallToolRequest{}, nil)
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Contains(t, resultText(t, res), "No recovery needed")
	})

	t.Run("after_a_break", func(t *testing.T) {
		s := newTestTracker(t)
		logWorkout(t, s, "pushup", "2024-03-08", 1, 10)
		h := NewHandler(s)
		res, _, err := h.GetRecoverySuggestionTool()(context.Background(), &mcp.CallToolRequest{}, nil)
		require.NoError(t, err)
		suggestion := decodeResult[recovery.Suggestion](t, res)
		assert.Equal(t, 5, suggestion.Days)
		assert.Equal(t, recovery.ActionLight, suggestion.Action)
	})
}

func TestHandler_LogWorkoutTool(t *testing.T) {
	s := newTestTracker(t)
	h := NewHandler(s)
	fn := h.LogWorkoutTool()

	t.Run("logged_today", func(t *testing.T) {
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, LogWorkoutInput{
			ExerciseKey: "squat",
			Sets:        1,
			Reps:        10,
			Feeling:     "easy",
		})
		require.NoError(t, err)
		require.False(t, res.IsError, resultText(t, res))
		assert.Contains(t, resultText(t, res), "Logged squat 1x10 at level 1.")

		logs, err := s.LogsByDate(context.Background(), workout.MustParseDate("2024-03-13"))
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, workout.FeelingEasy, logs[0].Feeling)
	})

	t.Run("invalid_date", func(t *testing.T) {
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, LogWorkoutInput{
			ExerciseKey: "squat",
			Sets:        1,
			Reps:        10,
			Date:        "yesterday",
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "Invalid date")
	})

	t.Run("invalid_input", func(t *testing.T) {
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, LogWorkoutInput{
			ExerciseKey: "squat",
			Sets:        0,
			Reps:        10,
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "Error logging workout: ")
	})
}

func TestNewServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestTracker(t)
	logWorkout(t, s, "pushup", "2024-03-12", 2, 20)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := NewServer(s).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer clientSession.Close()

	tools, err := clientSession.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"get_progress",
		"get_stats",
		"get_recommendation",
		"get_progression_analysis",
		"get_workout_logs",
		"get_weekly_report",
		"get_recovery_suggestion",
		"log_workout",
	}, names)

	res, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_recommendation",
		Arguments: map[string]any{"exercise_key": "pushup"},
	})
	require.NoError(t, err)
	rec := decodeResult[recommend.Recommendation](t, res)
	assert.True(t, rec.BasedOnLast)
	assert.Equal(t, 2, rec.Sets)
}
