package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing the tracker: progress, stats,
// recommendations, progression analysis, logs and the weekly report.
// It is mounted on the main service at /mcp and served over stdio by
// cmd/tracker_mcp.
func NewServer(service trackerService) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "calisthenics-tracker",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progress",
		Description: "Returns the current level of every exercise (pushup, squat, pullup, legRaise, bridge, handstandPushup) with the level name and its progression target.",
	}, h.GetProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_stats",
		Description: "Returns the training stats: total trained days, current and longest streak, recovery count and the last workout date.",
	}, h.GetStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_recommendation",
		Description: "Returns the recommended sets and reps for today's session of an exercise. Arg: exercise_key (e.g. pushup).",
	}, h.GetRecommendationTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progression_analysis",
		Description: "Returns the progression analysis of an exercise at its current level: state (upgrade, almost, consolidate, downgrade, normal), metrics and a suggestion. Arg: exercise_key.",
	}, h.GetProgressionAnalysisTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_logs",
		Description: "Returns the workout logs (completed and skipped) within the given date range. Args: from_date, to_date (YYYY-MM-DD).",
	}, h.GetWorkoutLogsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weekly_report",
		Description: "Returns the report of the last seven days: trained days, workouts per exercise, skip reasons and an encouragement.",
	}, h.GetWeeklyReportTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_recovery_suggestion",
		Description: "Returns how to restart after a break (normal, light, restart or minimal session), or a note that no recovery is needed.",
	}, h.GetRecoverySuggestionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "log_workout",
		Description: "Logs a completed session at the exercise's current level. Args: exercise_key, sets, reps; optional: feeling (easy, normal, hard, exhausted), date (YYYY-MM-DD, default today), note.",
	}, h.LogWorkoutTool())

	return s
}

// NewHTTPHandler serves the MCP server over streamable HTTP.
func NewHTTPHandler(s *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s
	}, nil)
}
