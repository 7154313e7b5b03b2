package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/calisthenics/internal/catalog"
	"github.com/2beens/calisthenics/internal/progression"
	"github.com/2beens/calisthenics/internal/recommend"
	"github.com/2beens/calisthenics/internal/recovery"
	"github.com/2beens/calisthenics/internal/report"
	"github.com/2beens/calisthenics/internal/stats"
	"github.com/2beens/calisthenics/internal/tracker"
	"github.com/2beens/calisthenics/internal/workout"
)

// trackerService is the part of the tracker the tools use.
type trackerService interface {
	Catalog() *catalog.Catalog
	AllProgress(ctx context.Context) ([]workout.UserProgress, error)
	Stats(ctx context.Context) (stats.Snapshot, error)
	Recommendation(ctx context.Context, exerciseKey string) (*recommend.Recommendation, error)
	Analyze(ctx context.Context, exerciseKey string) (*progression.Analysis, error)
	LogsByRange(ctx context.Context, from, to workout.Date) ([]workout.WorkoutLog, error)
	WeeklyReport(ctx context.Context) (*report.Summary, error)
	RecoverySuggestion(ctx context.Context) (*recovery.Suggestion, bool, error)
	LogWorkout(ctx context.Context, in tracker.LogWorkoutInput) (*tracker.LogResult, error)
}

var _ trackerService = (*tracker.Service)(nil)

// Handler turns tool calls into tracker calls and formats the results.
type Handler struct {
	service trackerService
}

func NewHandler(service trackerService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(prefix string, err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: prefix + ": " + err.Error()}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

type progressView struct {
	ExerciseKey string         `json:"exercise_key"`
	Exercise    string         `json:"exercise"`
	Level       int            `json:"level"`
	LevelName   string         `json:"level_name"`
	Target      catalog.Target `json:"progression_target"`
}

func (h *Handler) GetProgressTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		all, err := h.service.AllProgress(ctx)
		if err != nil {
			return errorResult("Error fetching progress", err), nil, nil
		}

		cat := h.service.Catalog()
		views := make([]progressView, 0, len(all))
		for _, p := range all {
			view := progressView{ExerciseKey: p.ExerciseKey, Level: p.Level}
			if t, err := cat.Type(p.ExerciseKey); err == nil {
				view.Exercise = t.Name
			}
			if standard, err := cat.Level(p.ExerciseKey, p.Level); err == nil {
				view.LevelName = standard.Name
				view.Target = standard.Progression
			}
			views = append(views, view)
		}
		return jsonResult(views), nil, nil
	}
}

func (h *Handler) GetStatsTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		snapshot, err := h.service.Stats(ctx)
		if err != nil {
			return errorResult("Error fetching stats", err), nil, nil
		}
		return jsonResult(snapshot), nil, nil
	}
}

// ExerciseInput is the input of the single exercise tools.
type ExerciseInput struct {
	ExerciseKey string `json:"exercise_key" jsonschema:"Exercise key (pushup, squat, pullup, legRaise, bridge, handstandPushup)"`
}

func (h *Handler) GetRecommendationTool() func(context.Context, *mcp.CallToolRequest, ExerciseInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseInput) (*mcp.CallToolResult, any, error) {
		rec, err := h.service.Recommendation(ctx, in.ExerciseKey)
		if err != nil {
			return errorResult("Error fetching recommendation", err), nil, nil
		}
		return jsonResult(rec), nil, nil
	}
}

func (h *Handler) GetProgressionAnalysisTool() func(context.Context, *mcp.CallToolRequest, ExerciseInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseInput) (*mcp.CallToolResult, any, error) {
		analysis, err := h.service.Analyze(ctx, in.ExerciseKey)
		if err != nil {
			return errorResult("Error analyzing progression", err), nil, nil
		}
		return jsonResult(analysis), nil, nil
	}
}

// LogsTimeRangeInput is the input of get_workout_logs.
type LogsTimeRangeInput struct {
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
}

func (h *Handler) GetWorkoutLogsTool() func(context.Context, *mcp.CallToolRequest, LogsTimeRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogsTimeRangeInput) (*mcp.CallToolResult, any, error) {
		from, err := workout.ParseDate(in.FromDate)
		if err != nil {
			return errorResult("Invalid from_date, use YYYY-MM-DD", err), nil, nil
		}
		to, err := workout.ParseDate(in.ToDate)
		if err != nil {
			return errorResult("Invalid to_date, use YYYY-MM-DD", err), nil, nil
		}

		logs, err := h.service.LogsByRange(ctx, from, to)
		if err != nil {
			return errorResult("Error listing workout logs", err), nil, nil
		}
		if logs == nil {
			logs = []workout.WorkoutLog{}
		}
		return jsonResult(logs), nil, nil
	}
}

func (h *Handler) GetWeeklyReportTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		summary, err := h.service.WeeklyReport(ctx)
		if err != nil {
			return errorResult("Error building weekly report", err), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: summary.Text(h.service.Catalog())}},
		}, nil, nil
	}
}

func (h *Handler) GetRecoverySuggestionTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		suggestion, ok, err := h.service.RecoverySuggestion(ctx)
		if err != nil {
			return errorResult("Error fetching recovery suggestion", err), nil, nil
		}
		if !ok {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "No recovery needed: trained recently or no workouts logged yet."}},
			}, nil, nil
		}
		return jsonResult(suggestion), nil, nil
	}
}

// LogWorkoutInput is the input of log_workout.
type LogWorkoutInput struct {
	ExerciseKey string `json:"exercise_key" jsonschema:"Exercise key (e.g. pushup)"`
	Sets        int    `json:"sets" jsonschema:"Number of sets done"`
	Reps        int    `json:"reps" jsonschema:"Reps per set"`
	Feeling     string `json:"feeling,omitempty" jsonschema:"How it felt: easy, normal, hard or exhausted"`
	Date        string `json:"date,omitempty" jsonschema:"Session date (YYYY-MM-DD), today when empty"`
	Note        string `json:"note,omitempty" jsonschema:"Free text note"`
}

func (h *Handler) LogWorkoutTool() func(context.Context, *mcp.CallToolRequest, LogWorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogWorkoutInput) (*mcp.CallToolResult, any, error) {
		input := tracker.LogWorkoutInput{
			ExerciseKey: in.ExerciseKey,
			Sets:        in.Sets,
			Reps:        in.Reps,
			Feeling:     workout.Feeling(in.Feeling),
			Note:        in.Note,
		}
		if in.Date != "" {
			date, err := workout.ParseDate(in.Date)
			if err != nil {
				return errorResult("Invalid date, use YYYY-MM-DD", err), nil, nil
			}
			input.Date = &date
		}

		result, err := h.service.LogWorkout(ctx, input)
		if err != nil {
			return errorResult("Error logging workout", err), nil, nil
		}

		text := fmt.Sprintf("Logged %s %dx%d at level %d. %s",
			result.Log.ExerciseKey, result.Log.Sets, result.Log.Reps, result.Log.Level, result.Check.Reason)
		if result.Banner {
			text += "\nThree strong sessions in a row: ready to upgrade!"
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}
