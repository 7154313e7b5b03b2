package tracker

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/calisthenics/internal/recovery"
	"github.com/2beens/calisthenics/internal/reminder"
	"github.com/2beens/calisthenics/internal/report"
	"github.com/2beens/calisthenics/internal/stats"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
)

// Stats returns the snapshot for today, from the cache when it was already
// computed today and recomputed from the full history otherwise.
func (s *Service) Stats(ctx context.Context) (_ stats.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	today := s.Today()
	if s.statsCache != nil {
		cached, err := s.statsCache.Get(ctx, today)
		switch {
		case err != nil:
			log.Errorf("stats cache get: %s", err)
		case cached != nil:
			s.metrics.CounterStatsCache.WithLabelValues("hit").Inc()
			return *cached, nil
		default:
			s.metrics.CounterStatsCache.WithLabelValues("miss").Inc()
		}
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	logs, err := s.store.Logs().All(storeCtx)
	if err != nil {
		return stats.Snapshot{}, storeErr("all logs", err)
	}

	snapshot := stats.Recompute(logs, today)
	s.metrics.CounterStatsRecomputed.Inc()

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, today, snapshot); err != nil {
			log.Errorf("stats cache set: %s", err)
		}
	}
	return snapshot, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.statsCache == nil {
		return
	}
	if err := s.statsCache.Invalidate(ctx); err != nil {
		log.Errorf("stats cache invalidate: %s", err)
	}
}

// RecoverySuggestion advises on how to restart after a training gap. The
// second result is false when there is nothing to suggest.
func (s *Service) RecoverySuggestion(ctx context.Context) (*recovery.Suggestion, bool, error) {
	snapshot, err := s.Stats(ctx)
	if err != nil {
		return nil, false, err
	}
	days, ok := snapshot.DaysSinceLastWorkout(s.Today())
	if !ok {
		return nil, false, nil
	}
	suggestion, ok := recovery.Advise(days)
	if !ok {
		return nil, false, nil
	}
	return &suggestion, true, nil
}

func (s *Service) WeeklyReport(ctx context.Context) (_ *report.Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.weeklyReport")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	today := s.Today()
	logs, err := s.LogsByRange(ctx, today.AddDays(-report.PeriodDays), today)
	if err != nil {
		return nil, err
	}
	progress, err := s.AllProgress(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	summary := report.Weekly(logs, progress, snapshot, today)
	return &summary, nil
}

// TrainingPattern analyzes when the user usually trains.
func (s *Service) TrainingPattern(ctx context.Context) (reminder.Pattern, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	logs, err := s.store.Logs().All(storeCtx)
	if err != nil {
		return reminder.Pattern{}, storeErr("all logs", err)
	}
	return reminder.AnalyzePattern(logs, s.loc), nil
}
