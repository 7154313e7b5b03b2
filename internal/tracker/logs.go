package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/calisthenics/internal/progression"
	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
	"github.com/2beens/calisthenics/internal/workout"
)

type LogWorkoutInput struct {
	ExerciseKey string          `json:"exerciseKey"`
	Date        *workout.Date   `json:"date,omitempty"`
	Sets        int             `json:"sets"`
	Reps        int             `json:"reps"`
	Feeling     workout.Feeling `json:"feeling"`
	Note        string          `json:"note,omitempty"`
}

type LogSkipInput struct {
	ExerciseKey string             `json:"exerciseKey"`
	Date        *workout.Date      `json:"date,omitempty"`
	Reason      workout.SkipReason `json:"reason"`
	Note        string             `json:"note,omitempty"`
}

// LogResult is a stored log with immediate feedback. Banner is set when the
// log completes a run of strong sessions at the current level.
type LogResult struct {
	Log    workout.WorkoutLog   `json:"log"`
	Check  progression.LogCheck `json:"check"`
	Banner bool                 `json:"upgradeBanner"`
}

// LogWorkout stores a completed session at the exercise's current level and
// checks it against the level's progression target.
func (s *Service) LogWorkout(ctx context.Context, in LogWorkoutInput) (_ *LogResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.logWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", in.ExerciseKey))

	if in.Sets <= 0 || in.Reps <= 0 {
		return nil, fmt.Errorf("%w: sets and reps must be positive", ErrInvalidInput)
	}
	if in.Feeling == "" {
		in.Feeling = workout.FeelingNormal
	}
	feeling, err := workout.ParseFeeling(string(in.Feeling))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	in.Feeling = feeling

	progress, err := s.Progress(ctx, in.ExerciseKey)
	if err != nil {
		return nil, err
	}
	standard, err := s.catalog.Level(in.ExerciseKey, progress.Level)
	if err != nil {
		return nil, err
	}

	l := workout.WorkoutLog{
		Date:        s.dateOrToday(in.Date),
		ExerciseKey: in.ExerciseKey,
		Level:       progress.Level,
		Completed:   true,
		Sets:        in.Sets,
		Reps:        in.Reps,
		Feeling:     in.Feeling,
		Note:        strings.TrimSpace(in.Note),
	}
	stored, err := s.appendLog(ctx, l)
	if err != nil {
		return nil, err
	}

	result := &LogResult{
		Log:   stored,
		Check: progression.CheckLog(standard, in.Sets, in.Reps, in.Feeling),
	}
	// the log is stored already, a failing banner check must not fail the call
	banner, err := s.UpgradeBanner(ctx, in.ExerciseKey)
	if err != nil {
		log.Errorf("upgrade banner for %s: %s", in.ExerciseKey, err)
		return result, nil
	}
	result.Banner = banner
	return result, nil
}

// LogSkip records a planned session that did not happen.
func (s *Service) LogSkip(ctx context.Context, in LogSkipInput) (_ *workout.WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.logSkip")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", in.ExerciseKey))

	if in.Reason == "" {
		in.Reason = workout.SkipOther
	}
	reason, err := workout.ParseSkipReason(string(in.Reason))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	in.Reason = reason

	progress, err := s.Progress(ctx, in.ExerciseKey)
	if err != nil {
		return nil, err
	}

	stored, err := s.appendLog(ctx, workout.WorkoutLog{
		Date:        s.dateOrToday(in.Date),
		ExerciseKey: in.ExerciseKey,
		Level:       progress.Level,
		SkipReason:  in.Reason,
		Note:        strings.TrimSpace(in.Note),
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Service) appendLog(ctx context.Context, l workout.WorkoutLog) (workout.WorkoutLog, error) {
	l = store.PrepareLog(l, s.now())
	if err := l.Validate(); err != nil {
		return l, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	if _, err := s.store.Logs().Append(storeCtx, l); err != nil {
		return l, storeErr("append log", err)
	}

	result := "completed"
	if !l.Completed {
		result = "skipped"
	}
	s.metrics.CounterWorkoutLogs.WithLabelValues(l.ExerciseKey, result).Inc()
	s.invalidateStats(ctx)
	return l, nil
}

func (s *Service) DeleteLog(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.deleteLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("log.id", id))

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.store.Logs().Delete(storeCtx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrLogNotFound, id)
		}
		return storeErr("delete log", err)
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *Service) LogsByDate(ctx context.Context, date workout.Date) ([]workout.WorkoutLog, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	logs, err := s.store.Logs().ByDate(storeCtx, date)
	if err != nil {
		return nil, storeErr("logs by date", err)
	}
	return logs, nil
}

func (s *Service) LogsByRange(ctx context.Context, from, to workout.Date) ([]workout.WorkoutLog, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s before start %s", ErrInvalidInput, to, from)
	}
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	logs, err := s.store.Logs().ByDateRange(storeCtx, from, to)
	if err != nil {
		return nil, storeErr("logs by range", err)
	}
	return logs, nil
}

// RecentLogs returns up to limit logs of one exercise, most recent first.
func (s *Service) RecentLogs(ctx context.Context, exerciseKey string, limit int) ([]workout.WorkoutLog, error) {
	if err := s.checkExercise(exerciseKey); err != nil {
		return nil, err
	}
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	logs, err := s.store.Logs().Recent(storeCtx, exerciseKey, limit)
	if err != nil {
		return nil, storeErr("recent logs", err)
	}
	return logs, nil
}

// recentAtLevel returns the most recent logs of the exercise logged at level.
func (s *Service) recentAtLevel(ctx context.Context, exerciseKey string, level, limit int) ([]workout.WorkoutLog, error) {
	all, err := s.RecentLogs(ctx, exerciseKey, 0)
	if err != nil {
		return nil, err
	}
	var atLevel []workout.WorkoutLog
	for _, l := range all {
		if l.Level != level {
			continue
		}
		atLevel = append(atLevel, l)
		if len(atLevel) == limit {
			break
		}
	}
	return atLevel, nil
}

func (s *Service) dateOrToday(d *workout.Date) workout.Date {
	if d == nil || d.IsZero() {
		return s.Today()
	}
	return *d
}
