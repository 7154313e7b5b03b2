package tracker

import (
	"context"
	"strconv"
	"time"

	"github.com/2beens/calisthenics/internal/reminder"
	"github.com/2beens/calisthenics/internal/telemetry/tracing"
	"github.com/2beens/calisthenics/internal/workout"
)

const (
	weeklyReportDay  = time.Sunday
	weeklyReportHour = 20
)

// DueNotifications decides which notifications are due in the hour of now.
// Nothing is due unless notifications are enabled in the settings.
//
// At the reminder hour a missed workout reminder is sent after two or more
// days without training; otherwise, on a planned day not yet trained, the
// training reminder. The weekly report goes out on Sunday evening.
func (s *Service) DueNotifications(ctx context.Context, now time.Time) (_ []reminder.Notification, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.dueNotifications")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	enabled, _, err := s.setting(ctx, SettingEnableNotification)
	if err != nil {
		return nil, err
	}
	if enabled != "true" {
		return nil, nil
	}

	local := now.In(s.loc)
	today := workout.DateOf(local)

	snapshot, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	reminderHour, err := s.reminderHour(ctx)
	if err != nil {
		return nil, err
	}

	var due []reminder.Notification
	if local.Hour() == reminderHour {
		days, trainedBefore := snapshot.DaysSinceLastWorkout(today)
		if missed, ok := reminder.MissedWorkoutReminder(days); trainedBefore && ok {
			due = append(due, missed)
		} else if !trainedBefore || days > 0 {
			training, ok, err := s.trainingReminder(ctx, local.Weekday(), snapshot.CurrentStreak)
			if err != nil {
				return nil, err
			}
			if ok {
				due = append(due, training)
			}
		}
	}

	if local.Weekday() == weeklyReportDay && local.Hour() == weeklyReportHour {
		summary, err := s.WeeklyReport(ctx)
		if err != nil {
			return nil, err
		}
		due = append(due, reminder.WeeklyReportNotice(summary.Overview.TotalWorkouts, summary.Encouragement))
	}

	for _, n := range due {
		s.metrics.CounterNotifications.WithLabelValues(string(n.Kind)).Inc()
	}
	return due, nil
}

func (s *Service) trainingReminder(ctx context.Context, day time.Weekday, streak int) (reminder.Notification, bool, error) {
	plan, err := s.Plan(ctx)
	if err != nil {
		return reminder.Notification{}, false, err
	}
	if plan.IsRestDay(day) {
		return reminder.Notification{}, false, nil
	}

	var names []string
	for _, key := range plan.For(day) {
		t, err := s.catalog.Type(key)
		if err != nil {
			continue
		}
		names = append(names, t.Name)
	}
	return reminder.TrainingReminder(streak, names), true, nil
}

// reminderHour is the hour set by the user, or the hour before the usual
// training time.
func (s *Service) reminderHour(ctx context.Context) (int, error) {
	v, ok, err := s.setting(ctx, SettingReminderHour)
	if err != nil {
		return 0, err
	}
	if ok {
		if hour, err := strconv.Atoi(v); err == nil && hour >= 0 && hour < 24 {
			return hour, nil
		}
	}

	pattern, err := s.TrainingPattern(ctx)
	if err != nil {
		return 0, err
	}
	hour, _ := pattern.ReminderTime()
	return hour, nil
}
