package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
	"github.com/2beens/calisthenics/internal/workout"
)

const logColumns = `id, date, exercise_key, level, completed, sets, reps, feeling, note, skip_reason, created_at`

type LogRepo struct {
	db querier
}

func (r *LogRepo) Append(ctx context.Context, l workout.WorkoutLog) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	l = store.PrepareLog(l, time.Now())
	span.SetAttributes(attribute.String("log.id", l.ID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout_log (`+logColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING`,
		l.ID, l.Date.Time(), l.ExerciseKey, l.Level, l.Completed, l.Sets, l.Reps,
		string(l.Feeling), l.Note, string(l.SkipReason), l.CreatedAt,
	)
	if err != nil {
		return "", err
	}
	return l.ID, nil
}

func (r *LogRepo) ByDate(ctx context.Context, date workout.Date) ([]workout.WorkoutLog, error) {
	return r.ByDateRange(ctx, date, date)
}

func (r *LogRepo) ByDateRange(ctx context.Context, from, to workout.Date) (_ []workout.WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.byDateRange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	)

	return r.query(
		ctx,
		`SELECT `+logColumns+` FROM workout_log
			WHERE date >= $1 AND date <= $2
			ORDER BY date, created_at`,
		from.Time(), to.Time(),
	)
}

func (r *LogRepo) Recent(ctx context.Context, exerciseKey string, limit int) (_ []workout.WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.recent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("exercise", exerciseKey),
		attribute.Int("limit", limit),
	)

	query := `SELECT ` + logColumns + ` FROM workout_log
			WHERE exercise_key = $1
			ORDER BY date DESC, created_at DESC`
	if limit <= 0 {
		return r.query(ctx, query, exerciseKey)
	}
	return r.query(ctx, query+` LIMIT $2`, exerciseKey, limit)
}

func (r *LogRepo) All(ctx context.Context) (_ []workout.WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.all")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.query(ctx, `SELECT `+logColumns+` FROM workout_log ORDER BY date, created_at`)
}

func (r *LogRepo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("log.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_log WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *LogRepo) query(ctx context.Context, sql string, args ...any) ([]workout.WorkoutLog, error) {
	rows, err := r.db.Query(ctx, sql, args...)
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

func scanLog(row pgx.Row) (workout.WorkoutLog, error) {
	var (
		l       workout.WorkoutLog
		date    time.Time
		feeling string
		reason  string
	)
	if err := row.Scan(
		&l.ID, &date, &l.ExerciseKey, &l.Level, &l.Completed, &l.Sets, &l.Reps,
		&feeling, &l.Note, &reason, &l.CreatedAt,
	); err != nil {
		return l, fmt.Errorf("rows scan: %w", err)
	}
	l.Date = workout.DateOf(date)
	l.Feeling = workout.Feeling(feeling)
	l.SkipReason = workout.SkipReason(reason)
	return l, nil
}
