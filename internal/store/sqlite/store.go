// Package sqlite is the embedded store used when no postgres is configured.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
	"github.com/2beens/calisthenics/internal/workout"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS workout_log (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		exercise_key TEXT NOT NULL,
		level INTEGER NOT NULL CHECK(level >= 1 AND level <= 10),
		completed BOOLEAN NOT NULL,
		sets INTEGER NOT NULL DEFAULT 0,
		reps INTEGER NOT NULL DEFAULT 0,
		feeling TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		skip_reason TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_progress (
		exercise_key TEXT PRIMARY KEY,
		level INTEGER NOT NULL CHECK(level >= 1 AND level <= 10),
		upgraded_at INTEGER,
		downgraded_at INTEGER,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_plan (
		weekday INTEGER PRIMARY KEY CHECK(weekday >= 0 AND weekday <= 6),
		exercises TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS setting (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_log_date ON workout_log(date)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_log_exercise ON workout_log(exercise_key, date, created_at)`,
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens or creates the database file at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, query := range schema {
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	log.Debugf("sqlite store ready: %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Logs() store.LogStore          { return &logRepo{db: s.db} }
func (s *Store) Progress() store.ProgressStore { return &progressRepo{db: s.db} }
func (s *Store) Plan() store.PlanStore         { return &planRepo{db: s.db} }
func (s *Store) Settings() store.SettingsStore { return &settingsRepo{db: s.db} }

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Import(ctx context.Context, state store.State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	for _, l := range state.Logs {
		if l.ID == "" {
			return fmt.Errorf("import log without id: %w", workout.ErrInvalidLog)
		}
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		logs := &logRepo{db: tx}
		for _, l := range state.Logs {
			if _, err := logs.Append(ctx, l); err != nil {
				return fmt.Errorf("import log %s: %w", l.ID, err)
			}
		}
		progress := &progressRepo{db: tx}
		for _, p := range state.Progress {
			if err := progress.Put(ctx, p); err != nil {
				return fmt.Errorf("import progress %s: %w", p.ExerciseKey, err)
			}
		}
		plan := &planRepo{db: tx}
		for day, keys := range state.Plan {
			if err := plan.Put(ctx, day, keys); err != nil {
				return fmt.Errorf("import plan %s: %w", day, err)
			}
		}
		settings := &settingsRepo{db: tx}
		for k, v := range state.Settings {
			if err := settings.Put(ctx, k, v); err != nil {
				return fmt.Errorf("import setting %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *Store) Reset(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"workout_log", "user_progress", "weekly_plan", "setting"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Errorf("sqlite rollback: %s", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func unixNano(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func fromUnixNano(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.Unix(0, n.Int64).UTC()
	return &t
}

type progressRepo struct {
	db querier
}

func (r *progressRepo) Get(ctx context.Context, exerciseKey string) (*workout.UserProgress, error) {
	var (
		p                    = workout.UserProgress{ExerciseKey: exerciseKey}
		upgraded, downgraded sql.NullInt64
		updated              int64
	)
	err := r.db.QueryRowContext(
		ctx,
		`SELECT level, upgraded_at, downgraded_at, updated_at FROM user_progress WHERE exercise_key = ?`,
		exerciseKey,
	).Scan(&p.Level, &upgraded, &downgraded, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan progress: %w", err)
	}
	p.UpgradedAt = fromUnixNano(upgraded)
	p.DowngradedAt = fromUnixNano(downgraded)
	p.UpdatedAt = time.Unix(0, updated).UTC()
	return &p, nil
}

func (r *progressRepo) Put(ctx context.Context, p workout.UserProgress) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO user_progress (exercise_key, level, upgraded_at, downgraded_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(exercise_key) DO UPDATE SET
				level = excluded.level,
				upgraded_at = excluded.upgraded_at,
				downgraded_at = excluded.downgraded_at,
				updated_at = excluded.updated_at`,
		p.ExerciseKey, p.Level, unixNano(p.UpgradedAt), unixNano(p.DowngradedAt), p.UpdatedAt.UnixNano(),
	)
	return err
}

func (r *progressRepo) All(ctx context.Context) ([]workout.UserProgress, error) {
	rows, err := r.db.QueryContext(
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
		var (
			p                    workout.UserProgress
			upgraded, downgraded sql.NullInt64
			updated              int64
		)
		if err := rows.Scan(&p.ExerciseKey, &p.Level, &upgraded, &downgraded, &updated); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		p.UpgradedAt = fromUnixNano(upgraded)
		p.DowngradedAt = fromUnixNano(downgraded)
		p.UpdatedAt = time.Unix(0, updated).UTC()
		all = append(all, p)
	}
	return all, rows.Err()
}

type planRepo struct {
	db querier
}

func (r *planRepo) Get(ctx context.Context) (workout.WeeklyPlan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT weekday, exercises FROM weekly_plan`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plan := workout.DefaultWeeklyPlan()
	for rows.Next() {
		var (
			day     int
			encoded string
			keys    []string
		)
		if err := rows.Scan(&day, &encoded); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &keys); err != nil {
			return nil, fmt.Errorf("decode plan day %d: %w", day, err)
		}
		plan[time.Weekday(day)] = keys
	}
	return plan, rows.Err()
}

func (r *planRepo) Put(ctx context.Context, day time.Weekday, exerciseKeys []string) error {
	if exerciseKeys == nil {
		exerciseKeys = []string{}
	}
	encoded, err := json.Marshal(exerciseKeys)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO weekly_plan (weekday, exercises) VALUES (?, ?)
			ON CONFLICT(weekday) DO UPDATE SET exercises = excluded.exercises`,
		int(day), string(encoded),
	)
	return err
}

type settingsRepo struct {
	db querier
}

func (r *settingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM setting WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *settingsRepo) Put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO setting (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (r *settingsRepo) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM setting`)
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
