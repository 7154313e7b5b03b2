package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/calisthenics/internal/workout"
)

var ErrNotFound = errors.New("not found")

// LogStore is the append-only history of workout and skip events.
type LogStore interface {
	// Append stores the log and returns its id. A log whose id is already
	// stored is ignored, which makes imports from other devices idempotent.
	Append(ctx context.Context, log workout.WorkoutLog) (string, error)
	ByDate(ctx context.Context, date workout.Date) ([]workout.WorkoutLog, error)
	// ByDateRange includes both ends.
	ByDateRange(ctx context.Context, from, to workout.Date) ([]workout.WorkoutLog, error)
	// Recent returns up to limit logs of one exercise, most recent first.
	// A limit <= 0 returns all of them.
	Recent(ctx context.Context, exerciseKey string, limit int) ([]workout.WorkoutLog, error)
	All(ctx context.Context) ([]workout.WorkoutLog, error)
	Delete(ctx context.Context, id string) error
}

type ProgressStore interface {
	// Get returns ErrNotFound for an exercise never trained.
	Get(ctx context.Context, exerciseKey string) (*workout.UserProgress, error)
	Put(ctx context.Context, progress workout.UserProgress) error
	All(ctx context.Context) ([]workout.UserProgress, error)
}

type PlanStore interface {
	// Get falls back to the default plan for days never stored.
	Get(ctx context.Context) (workout.WeeklyPlan, error)
	Put(ctx context.Context, day time.Weekday, exerciseKeys []string) error
}

type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

// State is everything a store holds, as moved between devices.
type State struct {
	Progress []workout.UserProgress
	Logs     []workout.WorkoutLog
	Plan     workout.WeeklyPlan
	Settings map[string]string
}

type Store interface {
	Logs() LogStore
	Progress() ProgressStore
	Plan() PlanStore
	Settings() SettingsStore

	// Import merges the state in a single transaction: logs are added by
	// union on their id, progress, plan days and settings are overwritten.
	Import(ctx context.Context, state State) error
	// Reset removes all data.
	Reset(ctx context.Context) error
	Close() error
}

// PrepareLog assigns an id to a new log.
func PrepareLog(l workout.WorkoutLog, now time.Time) workout.WorkoutLog {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	return l
}

// SortNewestFirst orders logs by date, then creation time, descending.
func SortNewestFirst(logs []workout.WorkoutLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[j].Before(logs[i])
	})
}

// SortOldestFirst orders logs by date, then creation time, ascending.
func SortOldestFirst(logs []workout.WorkoutLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Before(logs[j])
	})
}

// SortProgress orders progress by exercise key.
func SortProgress(all []workout.UserProgress) {
	sort.Slice(all, func(i, j int) bool {
		return all[i].ExerciseKey < all[j].ExerciseKey
	})
}
