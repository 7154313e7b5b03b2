package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/workout"
)

const logColumns = `id, date, exercise_key, level, completed, sets, reps, feeling, note, skip_reason, created_at`

type logRepo struct {
	db querier
}

func (r *logRepo) Append(ctx context.Context, l workout.WorkoutLog) (string, error) {
	l = store.PrepareLog(l, time.Now())
	_, err := r.db.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO workout_log (`+logColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Date.String(), l.ExerciseKey, l.Level, l.Completed, l.Sets, l.Reps,
		string(l.Feeling), l.Note, string(l.SkipReason), l.CreatedAt.UnixNano(),
	)
	if err != nil {
		return "", err
	}
	return l.ID, nil
}

func (r *logRepo) ByDate(ctx context.Context, date workout.Date) ([]workout.WorkoutLog, error) {
	return r.query(
		ctx,
		`SELECT `+logColumns+` FROM workout_log WHERE date = ? ORDER BY created_at`,
		date.String(),
	)
}

func (r *logRepo) ByDateRange(ctx context.Context, from, to workout.Date) ([]workout.WorkoutLog, error) {
	return r.query(
		ctx,
		`SELECT `+logColumns+` FROM workout_log
			WHERE date >= ? AND date <= ?
			ORDER BY date, created_at`,
		from.String(), to.String(),
	)
}

func (r *logRepo) Recent(ctx context.Context, exerciseKey string, limit int) ([]workout.WorkoutLog, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.query(
		ctx,
		`SELECT `+logColumns+` FROM workout_log
			WHERE exercise_key = ?
			ORDER BY date DESC, created_at DESC
			LIMIT ?`,
		exerciseKey, limit,
	)
}

func (r *logRepo) All(ctx context.Context) ([]workout.WorkoutLog, error) {
	return r.query(ctx, `SELECT `+logColumns+` FROM workout_log ORDER BY date, created_at`)
}

func (r *logRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workout_log WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *logRepo) query(ctx context.Context, query string, args ...any) ([]workout.WorkoutLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []workout.WorkoutLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func scanLog(rows *sql.Rows) (workout.WorkoutLog, error) {
	var (
		l         workout.WorkoutLog
		date      string
		feeling   string
		reason    string
		createdAt int64
	)
	if err := rows.Scan(
		&l.ID, &date, &l.ExerciseKey, &l.Level, &l.Completed, &l.Sets, &l.Reps,
		&feeling, &l.Note, &reason, &createdAt,
	); err != nil {
		return l, fmt.Errorf("rows scan: %w", err)
	}
	d, err := workout.ParseDate(date)
	if err != nil {
		return l, fmt.Errorf("log %s: %w", l.ID, err)
	}
	l.Date = d
	l.Feeling = workout.Feeling(feeling)
	l.SkipReason = workout.SkipReason(reason)
	l.CreatedAt = time.Unix(0, createdAt).UTC()
	return l, nil
}
