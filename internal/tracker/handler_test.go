package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/2beens/calisthenics/internal/backup"
	"github.com/2beens/calisthenics/internal/progression"
	"github.com/2beens/calisthenics/internal/recommend"
	"github.com/2beens/calisthenics/internal/recovery"
	"github.com/2beens/calisthenics/internal/report"
	"github.com/2beens/calisthenics/internal/stats"
	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/workout"
)

func newTestRouter(t *testing.T, params ServiceParams) (*mux.Router, *Service) {
	t.Helper()
	s, _ := newTestService(t, params)
	r := mux.NewRouter()
	NewHandler(s).SetupRoutes(r)
	return r, s
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ErrUnknownExercise, http.StatusNotFound},
		{ErrLogNotFound, http.StatusNotFound},
		{ErrInvalidInput, http.StatusBadRequest},
		{backup.ErrInvalidExport, http.StatusBadRequest},
		{progression.ErrMaxLevel, http.StatusConflict},
		{ErrBackupDisabled, http.StatusNotImplemented},
		{storeErr("append log", errors.New("disk full")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, errorStatus(tc.err), tc.err.Error())
	}
}

func TestHandler_Catalog(t *testing.T) {
	r, s := newTestRouter(t, ServiceParams{})

	rr := doRequest(t, r, "GET", "/catalog", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp []struct {
		Key    string `json:"key"`
		Levels []struct {
			Level int    `json:"level"`
			Name  string `json:"name"`
		} `json:"levels"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, len(s.Catalog().Types()))
	assert.Equal(t, "pushup", resp[0].Key)
	assert.Len(t, resp[0].Levels, 10)
	assert.Equal(t, "Wall Pushup", resp[0].Levels[0].Name)
}

func TestHandler_Logs(t *testing.T) {
	r, _ := newTestRouter(t, ServiceParams{})

	rr := doRequest(t, r, "POST", "/logs", map[string]any{
		"exerciseKey": "pushup",
		"date":        "2024-03-12",
		"sets":        3,
		"reps":        50,
		"feeling":     "moderate",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	result := decodeBody[LogResult](t, rr)
	assert.Equal(t, workout.FeelingNormal, result.Log.Feeling)
	assert.True(t, result.Check.CanProgress)
	assert.False(t, result.Banner)

	rr = doRequest(t, r, "POST", "/logs/skip", map[string]any{
		"exerciseKey": "squat",
		"reason":      "overtime",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	skipped := decodeBody[workout.WorkoutLog](t, rr)
	assert.Equal(t, workout.SkipBusy, skipped.SkipReason)

	rr = doRequest(t, r, "GET", "/logs?date=2024-03-12", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]workout.WorkoutLog](t, rr), 1)

	// today
	rr = doRequest(t, r, "GET", "/logs", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]workout.WorkoutLog](t, rr), 1)

	rr = doRequest(t, r, "GET", "/logs?from=2024-03-01&to=2024-03-13", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]workout.WorkoutLog](t, rr), 2)

	rr = doRequest(t, r, "GET", "/logs?from=2024-03-13&to=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = doRequest(t, r, "GET", "/logs?date=13.03.2024", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, r, "GET", "/logs/pushup/recent?limit=5", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	recent := decodeBody[[]workout.WorkoutLog](t, rr)
	require.Len(t, recent, 1)
	assert.Equal(t, result.Log.ID, recent[0].ID)

	rr = doRequest(t, r, "GET", "/logs/pullup/recent", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())

	rr = doRequest(t, r, "GET", "/logs/pushup/recent?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = doRequest(t, r, "GET", "/logs/burpee/recent", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, r, "DELETE", "/logs/"+result.Log.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = doRequest(t, r, "DELETE", "/logs/"+result.Log.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Logs_Invalid(t *testing.T) {
	r, _ := newTestRouter(t, ServiceParams{})

	rr := doRequest(t, r, "POST", "/logs", map[string]any{"exerciseKey": "burpee", "sets": 1, "reps": 1})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, r, "POST", "/logs", map[string]any{"exerciseKey": "pushup", "sets": 0, "reps": 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, r, "POST", "/logs", map[string]any{"exerciseKey": "pushup", "sets": 1, "reps": 1, "feeling": "sleepy"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, r, "POST", "/logs", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest("POST", "/logs", bytes.NewReader([]byte(`{"exerciseKey":"pushup","sets":1,"reps":1}`)))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Progress(t *testing.T) {
	r, s := newTestRouter(t, ServiceParams{})

	rr := doRequest(t, r, "GET", "/progress", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]workout.UserProgress](t, rr), len(s.Catalog().Types()))

	rr = doRequest(t, r, "POST", "/progress/bridge/downgrade", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doRequest(t, r, "POST", "/progress/bridge/upgrade", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decodeBody[workout.UserProgress](t, rr).Level)

	rr = doRequest(t, r, "GET", "/progress/bridge", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decodeBody[workout.UserProgress](t, rr).Level)

	rr = doRequest(t, r, "POST", "/progress/bridge/downgrade", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decodeBody[workout.UserProgress](t, rr).Level)

	rr = doRequest(t, r, "GET", "/progress/burpee", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, r, "GET", "/progress/pushup/recommendation", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rec := decodeBody[recommend.Recommendation](t, rr)
	assert.Equal(t, 1, rec.Sets)
	assert.Equal(t, 10, rec.Reps)

	rr = doRequest(t, r, "GET", "/progress/pushup/analysis", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, progression.StateInsufficientData, decodeBody[progression.Analysis](t, rr).State)

	rr = doRequest(t, r, "GET", "/progress/pushup/banner", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"upgradeBanner":false}`, rr.Body.String())
}

func TestHandler_StatsAndReports(t *testing.T) {
	r, s := newTestRouter(t, ServiceParams{})

	rr := doRequest(t, r, "GET", "/stats/recovery", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err := s.LogWorkout(context.Background(), LogWorkoutInput{
		ExerciseKey: "squat",
		Date:        datePtr("2024-03-03"),
		Sets:        2,
		Reps:        20,
	})
	require.NoError(t, err)

	rr = doRequest(t, r, "GET", "/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	snapshot := decodeBody[stats.Snapshot](t, rr)
	assert.Equal(t, 1, snapshot.TotalDays)
	assert.Equal(t, 0, snapshot.CurrentStreak)

	rr = doRequest(t, r, "GET", "/stats/recovery", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	suggestion := decodeBody[recovery.Suggestion](t, rr)
	assert.Equal(t, recovery.ActionRestart, suggestion.Action)
	assert.Equal(t, 10, suggestion.Days)

	rr = doRequest(t, r, "GET", "/stats/pattern", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"reminderTime"`)

	rr = doRequest(t, r, "GET", "/report/weekly", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decodeBody[report.Summary](t, rr)
	assert.Equal(t, 0, summary.Overview.TotalWorkouts)

	rr = doRequest(t, r, "GET", "/report/weekly?format=text", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Calisthenics weekly report")
}

func TestHandler_PlanAndSettings(t *testing.T) {
	r, _ := newTestRouter(t, ServiceParams{})

	rr := doRequest(t, r, "PUT", "/plan/0", map[string]any{"exercises": []string{"bridge"}})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = doRequest(t, r, "PUT", "/plan/sunday", map[string]any{"exercises": []string{"bridge"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = doRequest(t, r, "PUT", "/plan/7", map[string]any{"exercises": []string{"bridge"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = doRequest(t, r, "PUT", "/plan/1", map[string]any{"exercises": []string{"burpee"}})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, r, "GET", "/plan", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	plan := decodeBody[workout.WeeklyPlan](t, rr)
	assert.Equal(t, []string{"bridge"}, plan[0])
	assert.Equal(t, []string{"pushup", "pullup", "handstandPushup"}, plan[1])

	rr = doRequest(t, r, "PUT", "/settings/"+SettingReminderHour, map[string]any{"value": "7"})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = doRequest(t, r, "GET", "/settings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"reminderHour":"7"}`, rr.Body.String())
}

func TestHandler_Data(t *testing.T) {
	ctrl := gomock.NewController(t)
	uploader := NewMockbackupUploader(ctrl)
	r, s := newTestRouter(t, ServiceParams{Uploader: uploader})
	ctx := context.Background()

	_, err := s.LogWorkout(ctx, LogWorkoutInput{ExerciseKey: "pullup", Sets: 1, Reps: 5})
	require.NoError(t, err)

	rr := doRequest(t, r, "GET", "/data/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `attachment; filename="calisthenics-backup-2024-03-13.json"`, rr.Header().Get("Content-Disposition"))
	exported := rr.Body.String()

	rr = doRequest(t, r, "DELETE", "/data", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	logs, err := s.RecentLogs(ctx, "pullup", 0)
	require.NoError(t, err)
	assert.Empty(t, logs)

	rr = doRequest(t, r, "POST", "/data/import", exported)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"logs":1,"progress":6}`, rr.Body.String())
	logs, err = s.RecentLogs(ctx, "pullup", 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	rr = doRequest(t, r, "POST", "/data/import", `{"version":99}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	uploader.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).Return("drive-file-id", nil)
	rr = doRequest(t, r, "POST", "/data/backup", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"fileId":"drive-file-id"}`, rr.Body.String())
}

func TestHandler_BackupDisabled(t *testing.T) {
	r, _ := newTestRouter(t, ServiceParams{})

	rr := doRequest(t, r, "POST", "/data/backup", nil)
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}

func TestHandler_StoreFailure(t *testing.T) {
	r, _ := newTestRouter(t, ServiceParams{
		Store: failingStore{Memory: store.NewMemory(), err: errors.New("disk full")},
	})

	rr := doRequest(t, r, "GET", "/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = doRequest(t, r, "POST", "/logs", map[string]any{"exerciseKey": "pushup", "sets": 1, "reps": 5})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
