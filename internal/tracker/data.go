package tracker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/calisthenics/internal/backup"
	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
)

var ErrBackupDisabled = errors.New("drive backup not configured")

// Export collects the full state together with freshly computed stats.
func (s *Service) Export(ctx context.Context) (_ *backup.Export, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.export")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var state store.State
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	if state.Progress, err = s.progressOrDefault(storeCtx); err != nil {
		return nil, err
	}
	if state.Logs, err = s.store.Logs().All(storeCtx); err != nil {
		return nil, storeErr("all logs", err)
	}
	if state.Plan, err = s.store.Plan().Get(storeCtx); err != nil {
		return nil, storeErr("get plan", err)
	}
	if state.Settings, err = s.store.Settings().All(storeCtx); err != nil {
		return nil, storeErr("all settings", err)
	}

	// stats are derived from exactly the exported logs
	s.invalidateStats(ctx)
	snapshot, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	export := backup.New(state, snapshot, s.now())
	span.SetAttributes(attribute.Int("logs", len(export.Logs)))
	return &export, nil
}

// Import merges an export into the store in one transaction. The stats are
// recomputed from the merged history, the exported ones are not trusted.
func (s *Service) Import(ctx context.Context, e *backup.Export) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("logs", len(e.Logs)))

	for _, p := range e.Progress {
		if err := s.checkExercise(p.ExerciseKey); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.store.Import(storeCtx, e.State()); err != nil {
		return storeErr("import", err)
	}
	s.invalidateStats(ctx)
	return nil
}

// Reset removes all tracked data.
func (s *Service) Reset(ctx context.Context) error {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.store.Reset(storeCtx); err != nil {
		return storeErr("reset", err)
	}
	s.invalidateStats(ctx)
	return nil
}

// Backup uploads a full export to google drive and returns the file id.
func (s *Service) Backup(ctx context.Context) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.backup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.uploader == nil {
		return "", ErrBackupDisabled
	}

	start := time.Now()
	export, err := s.Export(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf); err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}

	fileID, err := s.uploader.Upload(ctx, export.Filename(), buf.Bytes())
	if err != nil {
		return "", err
	}
	s.metrics.HistBackupDuration.Observe(time.Since(start).Seconds())
	log.Infof("backup %s uploaded: %s", export.Filename(), fileID)
	return fileID, nil
}
