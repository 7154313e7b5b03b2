package tracker

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/calisthenics/internal/progression"
	"github.com/2beens/calisthenics/internal/recommend"
	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
	"github.com/2beens/calisthenics/internal/workout"
)

// Progress returns the current level of an exercise, creating it at level 1
// on first use.
func (s *Service) Progress(ctx context.Context, exerciseKey string) (_ workout.UserProgress, err error) {
	if err := s.checkExercise(exerciseKey); err != nil {
		return workout.UserProgress{}, err
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	p, err := s.store.Progress().Get(storeCtx, exerciseKey)
	if err == nil {
		return *p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return workout.UserProgress{}, storeErr("get progress", err)
	}

	created := workout.NewProgress(exerciseKey, s.now())
	if err := s.store.Progress().Put(storeCtx, created); err != nil {
		return workout.UserProgress{}, storeErr("create progress", err)
	}
	return created, nil
}

// AllProgress returns the progress of every catalog exercise in catalog order.
func (s *Service) AllProgress(ctx context.Context) ([]workout.UserProgress, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	stored, err := s.store.Progress().All(storeCtx)
	if err != nil {
		return nil, storeErr("all progress", err)
	}
	byKey := make(map[string]workout.UserProgress, len(stored))
	for _, p := range stored {
		byKey[p.ExerciseKey] = p
	}

	types := s.catalog.Types()
	all := make([]workout.UserProgress, 0, len(types))
	for _, t := range types {
		if p, ok := byKey[t.Key]; ok {
			all = append(all, p)
			continue
		}
		p, err := s.Progress(ctx, t.Key)
		if err != nil {
			return nil, err
		}
		all = append(all, p)
	}
	return all, nil
}

// progressOrDefault lists the progress of every catalog exercise without
// storing anything: exercises never trained are reported at level 1.
func (s *Service) progressOrDefault(ctx context.Context) ([]workout.UserProgress, error) {
	stored, err := s.store.Progress().All(ctx)
	if err != nil {
		return nil, storeErr("all progress", err)
	}
	byKey := make(map[string]workout.UserProgress, len(stored))
	for _, p := range stored {
		byKey[p.ExerciseKey] = p
	}

	types := s.catalog.Types()
	all := make([]workout.UserProgress, 0, len(types))
	for _, t := range types {
		p, ok := byKey[t.Key]
		if !ok {
			p = workout.NewProgress(t.Key, s.now())
		}
		all = append(all, p)
	}
	return all, nil
}

// Upgrade moves the exercise one level up. It is the only way, together with
// Downgrade, a level ever changes.
func (s *Service) Upgrade(ctx context.Context, exerciseKey string) (_ workout.UserProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.upgrade")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exerciseKey))

	return s.changeLevel(ctx, exerciseKey, "up", progression.Upgrade)
}

func (s *Service) Downgrade(ctx context.Context, exerciseKey string) (_ workout.UserProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.downgrade")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exerciseKey))

	return s.changeLevel(ctx, exerciseKey, "down", progression.Downgrade)
}

func (s *Service) changeLevel(
	ctx context.Context,
	exerciseKey, direction string,
	change func(workout.UserProgress, time.Time) (workout.UserProgress, error),
) (workout.UserProgress, error) {
	current, err := s.Progress(ctx, exerciseKey)
	if err != nil {
		return workout.UserProgress{}, err
	}

	changed, err := change(current, s.now())
	if err != nil {
		return current, err
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.store.Progress().Put(storeCtx, changed); err != nil {
		return current, storeErr("put progress", err)
	}

	s.metrics.CounterLevelChanges.WithLabelValues(exerciseKey, direction).Inc()
	return changed, nil
}

// Recommendation suggests today's volume from the latest sessions at the
// current level.
func (s *Service) Recommendation(ctx context.Context, exerciseKey string) (_ *recommend.Recommendation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.recommendation")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exerciseKey))

	progress, err := s.Progress(ctx, exerciseKey)
	if err != nil {
		return nil, err
	}
	standard, err := s.catalog.Level(exerciseKey, progress.Level)
	if err != nil {
		return nil, err
	}
	recent, err := s.recentAtLevel(ctx, exerciseKey, progress.Level, recommendWindow)
	if err != nil {
		return nil, err
	}

	rec := recommend.Recommend(standard, recent)
	return &rec, nil
}

// Analyze runs the full progression analysis over the recent logs at the
// current level.
func (s *Service) Analyze(ctx context.Context, exerciseKey string) (_ *progression.Analysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.analyze")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exerciseKey))

	progress, err := s.Progress(ctx, exerciseKey)
	if err != nil {
		return nil, err
	}
	standard, err := s.catalog.Level(exerciseKey, progress.Level)
	if err != nil {
		return nil, err
	}
	recent, err := s.recentAtLevel(ctx, exerciseKey, progress.Level, analysisWindow)
	if err != nil {
		return nil, err
	}

	analysis := progression.Analyze(standard, recent)
	span.SetAttributes(attribute.String("state", string(analysis.State)))
	return &analysis, nil
}

// UpgradeBanner reports whether the strict three-in-a-row gate is open for
// the current level.
func (s *Service) UpgradeBanner(ctx context.Context, exerciseKey string) (bool, error) {
	progress, err := s.Progress(ctx, exerciseKey)
	if err != nil {
		return false, err
	}
	standard, err := s.catalog.Level(exerciseKey, progress.Level)
	if err != nil {
		return false, err
	}
	recent, err := s.recentAtLevel(ctx, exerciseKey, progress.Level, analysisWindow)
	if err != nil {
		return false, err
	}
	return progression.EligibleForUpgradeBanner(standard, recent), nil
}
