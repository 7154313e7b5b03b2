package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/calisthenics/internal/backup"
	"github.com/2beens/calisthenics/internal/catalog"
	"github.com/2beens/calisthenics/internal/progression"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
	"github.com/2beens/calisthenics/internal/workout"
	"github.com/2beens/calisthenics/pkg"
)

const maxImportBytes = 32 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/catalog", h.HandleCatalog).Methods("GET", "OPTIONS").Name("catalog")

	r.HandleFunc("/logs", h.HandleLogWorkout).Methods("POST", "OPTIONS").Name("log-workout")
	r.HandleFunc("/logs/skip", h.HandleLogSkip).Methods("POST", "OPTIONS").Name("log-skip")
	r.HandleFunc("/logs", h.HandleListLogs).Methods("GET", "OPTIONS").Name("list-logs")
	r.HandleFunc("/logs/{exercise}/recent", h.HandleRecentLogs).Methods("GET", "OPTIONS").Name("recent-logs")
	r.HandleFunc("/logs/{id}", h.HandleDeleteLog).Methods("DELETE", "OPTIONS").Name("delete-log")

	r.HandleFunc("/progress", h.HandleAllProgress).Methods("GET", "OPTIONS").Name("all-progress")
	r.HandleFunc("/progress/{exercise}", h.HandleProgress).Methods("GET", "OPTIONS").Name("progress")
	r.HandleFunc("/progress/{exercise}/upgrade", h.HandleUpgrade).Methods("POST", "OPTIONS").Name("upgrade")
	r.HandleFunc("/progress/{exercise}/downgrade", h.HandleDowngrade).Methods("POST", "OPTIONS").Name("downgrade")
	r.HandleFunc("/progress/{exercise}/recommendation", h.HandleRecommendation).Methods("GET", "OPTIONS").Name("recommendation")
	r.HandleFunc("/progress/{exercise}/analysis", h.HandleAnalysis).Methods("GET", "OPTIONS").Name("analysis")
	r.HandleFunc("/progress/{exercise}/banner", h.HandleBanner).Methods("GET", "OPTIONS").Name("banner")

	r.HandleFunc("/stats", h.HandleStats).Methods("GET", "OPTIONS").Name("stats")
	r.HandleFunc("/stats/recovery", h.HandleRecovery).Methods("GET", "OPTIONS").Name("recovery")
	r.HandleFunc("/stats/pattern", h.HandlePattern).Methods("GET", "OPTIONS").Name("pattern")
	r.HandleFunc("/report/weekly", h.HandleWeeklyReport).Methods("GET", "OPTIONS").Name("weekly-report")

	r.HandleFunc("/plan", h.HandlePlan).Methods("GET", "OPTIONS").Name("plan")
	r.HandleFunc("/plan/{weekday}", h.HandleSetPlanDay).Methods("PUT", "OPTIONS").Name("set-plan-day")
	r.HandleFunc("/settings", h.HandleSettings).Methods("GET", "OPTIONS").Name("settings")
	r.HandleFunc("/settings/{key}", h.HandlePutSetting).Methods("PUT", "OPTIONS").Name("put-setting")

	r.HandleFunc("/data/export", h.HandleExport).Methods("GET", "OPTIONS").Name("export")
	r.HandleFunc("/data/import", h.HandleImport).Methods("POST", "OPTIONS").Name("import")
	r.HandleFunc("/data/backup", h.HandleBackup).Methods("POST", "OPTIONS").Name("backup")
	r.HandleFunc("/data", h.HandleReset).Methods("DELETE", "OPTIONS").Name("reset")
}

// errorStatus maps service errors onto response codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownExercise), errors.Is(err, ErrLogNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, backup.ErrInvalidExport):
		return http.StatusBadRequest
	case errors.Is(err, progression.ErrBoundaryViolation):
		return http.StatusConflict
	case errors.Is(err, ErrBackupDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, ErrStoreFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
	} else {
		log.Debugf("%s: %s", op, err)
	}
	http.Error(w, fmt.Sprintf("%s failed: %s", op, err), status)
}

func decodeJSON(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		return fmt.Errorf("%w: invalid content type", ErrInvalidInput)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	type exerciseWithLevels struct {
		catalog.ExerciseType
		Levels []catalog.LevelStandard `json:"levels"`
	}

	cat := h.service.Catalog()
	var resp []exerciseWithLevels
	for _, t := range cat.Types() {
		levels, err := cat.Levels(t.Key)
		if err != nil {
			writeError(w, "catalog", err)
			return
		}
		resp = append(resp, exerciseWithLevels{ExerciseType: t, Levels: levels})
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) HandleLogWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.logWorkout")
	defer span.End()

	var in LogWorkoutInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, "log workout", err)
		return
	}

	result, err := h.service.LogWorkout(ctx, in)
	if err != nil {
		writeError(w, "log workout", err)
		return
	}
	pkg.WriteJSON(w, result, http.StatusCreated)
}

func (h *Handler) HandleLogSkip(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.logSkip")
	defer span.End()

	var in LogSkipInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, "log skip", err)
		return
	}

	skipped, err := h.service.LogSkip(ctx, in)
	if err != nil {
		writeError(w, "log skip", err)
		return
	}
	pkg.WriteJSON(w, skipped, http.StatusCreated)
}

// HandleListLogs lists the logs of a single day (?date=) or of an inclusive
// range (?from=&to=). Without parameters it lists today's logs.
func (h *Handler) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.listLogs")
	defer span.End()

	query := r.URL.Query()
	parse := func(name string) (workout.Date, error) {
		d, err := workout.ParseDate(query.Get(name))
		if err != nil {
			return workout.Date{}, fmt.Errorf("%w: %s: %w", ErrInvalidInput, name, err)
		}
		return d, nil
	}

	var (
		logs []workout.WorkoutLog
		err  error
	)
	switch {
	case query.Get("from") != "" || query.Get("to") != "":
		var from, to workout.Date
		if from, err = parse("from"); err != nil {
			writeError(w, "list logs", err)
			return
		}
		if to, err = parse("to"); err != nil {
			writeError(w, "list logs", err)
			return
		}
		logs, err = h.service.LogsByRange(ctx, from, to)
	case query.Get("date") != "":
		var date workout.Date
		if date, err = parse("date"); err != nil {
			writeError(w, "list logs", err)
			return
		}
		logs, err = h.service.LogsByDate(ctx, date)
	default:
		logs, err = h.service.LogsByDate(ctx, h.service.Today())
	}
	if err != nil {
		writeError(w, "list logs", err)
		return
	}

	if logs == nil {
		logs = []workout.WorkoutLog{}
	}
	pkg.WriteJSON(w, logs, http.StatusOK)
}

func (h *Handler) HandleRecentLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.recentLogs")
	defer span.End()

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		if limit, err = strconv.Atoi(limitStr); err != nil || limit <= 0 {
			writeError(w, "recent logs", fmt.Errorf("%w: limit %q", ErrInvalidInput, limitStr))
			return
		}
	}

	logs, err := h.service.RecentLogs(ctx, mux.Vars(r)["exercise"], limit)
	if err != nil {
		writeError(w, "recent logs", err)
		return
	}
	if logs == nil {
		logs = []workout.WorkoutLog{}
	}
	pkg.WriteJSON(w, logs, http.StatusOK)
}

func (h *Handler) HandleDeleteLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.deleteLog")
	defer span.End()

	if err := h.service.DeleteLog(ctx, mux.Vars(r)["id"]); err != nil {
		writeError(w, "delete log", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleAllProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.allProgress")
	defer span.End()

	all, err := h.service.AllProgress(ctx)
	if err != nil {
		writeError(w, "all progress", err)
		return
	}
	pkg.WriteJSON(w, all, http.StatusOK)
}

func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.progress")
	defer span.End()

	p, err := h.service.Progress(ctx, mux.Vars(r)["exercise"])
	if err != nil {
		writeError(w, "progress", err)
		return
	}
	pkg.WriteJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.upgrade")
	defer span.End()

	p, err := h.service.Upgrade(ctx, mux.Vars(r)["exercise"])
	if err != nil {
		writeError(w, "upgrade", err)
		return
	}
	pkg.WriteJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleDowngrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.downgrade")
	defer span.End()

	p, err := h.service.Downgrade(ctx, mux.Vars(r)["exercise"])
	if err != nil {
		writeError(w, "downgrade", err)
		return
	}
	pkg.WriteJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.recommendation")
	defer span.End()

	rec, err := h.service.Recommendation(ctx, mux.Vars(r)["exercise"])
	if err != nil {
		writeError(w, "recommendation", err)
		return
	}
	pkg.WriteJSON(w, rec, http.StatusOK)
}

func (h *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.analysis")
	defer span.End()

	analysis, err := h.service.Analyze(ctx, mux.Vars(r)["exercise"])
	if err != nil {
		writeError(w, "analysis", err)
		return
	}
	pkg.WriteJSON(w, analysis, http.StatusOK)
}

func (h *Handler) HandleBanner(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.banner")
	defer span.End()

	banner, err := h.service.UpgradeBanner(ctx, mux.Vars(r)["exercise"])
	if err != nil {
		writeError(w, "upgrade banner", err)
		return
	}
	pkg.WriteJSON(w, map[string]bool{"upgradeBanner": banner}, http.StatusOK)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.stats")
	defer span.End()

	snapshot, err := h.service.Stats(ctx)
	if err != nil {
		writeError(w, "stats", err)
		return
	}
	pkg.WriteJSON(w, snapshot, http.StatusOK)
}

func (h *Handler) HandleRecovery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.recovery")
	defer span.End()

	suggestion, ok, err := h.service.RecoverySuggestion(ctx)
	if err != nil {
		writeError(w, "recovery suggestion", err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	pkg.WriteJSON(w, suggestion, http.StatusOK)
}

func (h *Handler) HandlePattern(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.pattern")
	defer span.End()

	pattern, err := h.service.TrainingPattern(ctx)
	if err != nil {
		writeError(w, "training pattern", err)
		return
	}
	hour, minute := pattern.ReminderTime()
	pkg.WriteJSON(w, struct {
		Pattern      any    `json:"pattern"`
		ReminderTime string `json:"reminderTime"`
	}{
		Pattern:      pattern,
		ReminderTime: fmt.Sprintf("%02d:%02d", hour, minute),
	}, http.StatusOK)
}

func (h *Handler) HandleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.weeklyReport")
	defer span.End()

	summary, err := h.service.WeeklyReport(ctx)
	if err != nil {
		writeError(w, "weekly report", err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		pkg.WriteTextResponseOK(w, summary.Text(h.service.Catalog()))
		return
	}
	pkg.WriteJSON(w, summary, http.StatusOK)
}

func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.plan")
	defer span.End()

	plan, err := h.service.Plan(ctx)
	if err != nil {
		writeError(w, "plan", err)
		return
	}
	pkg.WriteJSON(w, plan, http.StatusOK)
}

func (h *Handler) HandleSetPlanDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.setPlanDay")
	defer span.End()

	weekdayStr := mux.Vars(r)["weekday"]
	weekday, err := strconv.Atoi(weekdayStr)
	if err != nil {
		writeError(w, "set plan day", fmt.Errorf("%w: weekday %q", ErrInvalidInput, weekdayStr))
		return
	}

	var body struct {
		Exercises []string `json:"exercises"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, "set plan day", err)
		return
	}

	if err := h.service.SetPlanDay(ctx, time.Weekday(weekday), body.Exercises); err != nil {
		writeError(w, "set plan day", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.settings")
	defer span.End()

	settings, err := h.service.Settings(ctx)
	if err != nil {
		writeError(w, "settings", err)
		return
	}
	pkg.WriteJSON(w, settings, http.StatusOK)
}

func (h *Handler) HandlePutSetting(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.putSetting")
	defer span.End()

	var body struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, "put setting", err)
		return
	}

	if err := h.service.PutSetting(ctx, mux.Vars(r)["key"], body.Value); err != nil {
		writeError(w, "put setting", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.export")
	defer span.End()

	export, err := h.service.Export(ctx)
	if err != nil {
		writeError(w, "export", err)
		return
	}

	w.Header().Set("Content-Type", pkg.ContentType.JSON)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename()))
	if err := export.Encode(w); err != nil {
		log.Errorf("write export: %s", err)
	}
}

func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.import")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	export, err := backup.Decode(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, "import", err)
		return
	}
	if err := h.service.Import(ctx, export); err != nil {
		writeError(w, "import", err)
		return
	}

	pkg.WriteJSON(w, map[string]int{
		"logs":     len(export.Logs),
		"progress": len(export.Progress),
	}, http.StatusOK)
}

func (h *Handler) HandleBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.backup")
	defer span.End()

	fileID, err := h.service.Backup(ctx)
	if err != nil {
		writeError(w, "backup", err)
		return
	}
	pkg.WriteJSON(w, map[string]string{"fileId": fileID}, http.StatusCreated)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.reset")
	defer span.End()

	if err := h.service.Reset(ctx); err != nil {
		writeError(w, "reset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
