package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
	"github.com/2beens/calisthenics/internal/workout"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

func New(db *pgxpool.Pool) *Store {
	return &Store{
		db: db,
	}
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.postgres.migrate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("run schema: %w", err)
	}
	return nil
}

func (s *Store) Logs() store.LogStore          { return &LogRepo{db: s.db} }
func (s *Store) Progress() store.ProgressStore { return &ProgressRepo{db: s.db} }
func (s *Store) Plan() store.PlanStore         { return &PlanRepo{db: s.db} }
func (s *Store) Settings() store.SettingsStore { return &SettingsRepo{db: s.db} }

// Close is a no-op, the pool is owned by the caller.
func (s *Store) Close() error {
	return nil
}

func (s *Store) Import(ctx context.Context, state store.State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.postgres.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	for _, l := range state.Logs {
		if l.ID == "" {
			return fmt.Errorf("import log without id: %w", workout.ErrInvalidLog)
		}
	}

	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		logs := &LogRepo{db: tx}
		for _, l := range state.Logs {
			if _, err := logs.Append(ctx, l); err != nil {
				return fmt.Errorf("import log %s: %w", l.ID, err)
			}
		}
		progress := &ProgressRepo{db: tx}
		for _, p := range state.Progress {
			if err := progress.Put(ctx, p); err != nil {
				return fmt.Errorf("import progress %s: %w", p.ExerciseKey, err)
			}
		}
		plan := &PlanRepo{db: tx}
		for day, keys := range state.Plan {
			if err := plan.Put(ctx, day, keys); err != nil {
				return fmt.Errorf("import plan %s: %w", day, err)
			}
		}
		settings := &SettingsRepo{db: tx}
		for k, v := range state.Settings {
			if err := settings.Put(ctx, k, v); err != nil {
				return fmt.Errorf("import setting %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *Store) Reset(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.postgres.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, table := range []string{"workout_log", "user_progress", "weekly_plan", "setting"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

type ProgressRepo struct {
	db querier
}

func (r *ProgressRepo) Get(ctx context.Context, exerciseKey string) (_ *workout.UserProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p := workout.UserProgress{ExerciseKey: exerciseKey}
	err = r.db.QueryRow(
		ctx,
		`SELECT level, upgraded_at, downgraded_at, updated_at FROM user_progress WHERE exercise_key = $1`,
		exerciseKey,
	).Scan(&p.Level, &p.UpgradedAt, &p.DowngradedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan progress: %w", err)
	}
	return &p, nil
}

func (r *ProgressRepo) Put(ctx context.Context, p workout.UserProgress) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO user_progress (exercise_key, level, upgraded_at, downgraded_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (exercise_key) DO UPDATE SET
				level = EXCLUDED.level,
				upgraded_at = EXCLUDED.upgraded_at,
				downgraded_at = EXCLUDED.downgraded_at,
				updated_at = EXCLUDED.updated_at`,
		p.ExerciseKey, p.Level, p.UpgradedAt, p.DowngradedAt, p.UpdatedAt,
	)
	return err
}

func (r *ProgressRepo) All(ctx context.Context) (_ []workout.UserProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.all")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT exercise_key, level, upgraded_at, downgraded_at, updated_at
			FROM user_progress ORDER BY exercise_key`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []workout.UserProgress
	for rows.Next() {
		var p workout.UserProgress
		if err := rows.Scan(&p.ExerciseKey, &p.Level, &p.UpgradedAt, &p.DowngradedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		all = append(all, p)
	}
	return all, rows.Err()
}

type PlanRepo struct {
	db querier
}

func (r *PlanRepo) Get(ctx context.Context) (_ workout.WeeklyPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT weekday, exercises FROM weekly_plan`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plan := workout.DefaultWeeklyPlan()
	for rows.Next() {
		var (
			day  int
			keys []string
		)
		if err := rows.Scan(&day, &keys); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		plan[time.Weekday(day)] = keys
	}
	return plan, rows.Err()
}

func (r *PlanRepo) Put(ctx context.Context, day time.Weekday, exerciseKeys []string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if exerciseKeys == nil {
		exerciseKeys = []string{}
	}
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO weekly_plan (weekday, exercises) VALUES ($1, $2)
			ON CONFLICT (weekday) DO UPDATE SET exercises = EXCLUDED.exercises`,
		int(day), exerciseKeys,
	)
	return err
}

type SettingsRepo struct {
	db querier
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.settings.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var value string
	err = r.db.QueryRow(ctx, `SELECT value FROM setting WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *SettingsRepo) Put(ctx context.Context, key, value string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.settings.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO setting (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	return err
}

func (r *SettingsRepo) All(ctx context.Context) (_ map[string]string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.settings.all")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT key, value FROM setting`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		all[k] = v
	}
	return all, rows.Err()
}
