package reminder

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindTraining    Kind = "training"
	KindMissed      Kind = "missed"
	KindProgression Kind = "progression"
	KindWeekly      Kind = "weekly"
)

// Notification is a rendered message, ready for any delivery channel.
type Notification struct {
	Kind               Kind   `json:"kind"`
	Title              string `json:"title"`
	Body               string `json:"body"`
	RequireInteraction bool   `json:"requireInteraction,omitempty"`
}

func (n Notification) String() string {
	return n.Title + "\n" + n.Body
}

// TrainingReminder nudges towards today's planned exercises. Longer streaks
// get a louder title.
func TrainingReminder(currentStreak int, exerciseNames []string) Notification {
	names := strings.Join(exerciseNames, ", ")
	n := Notification{
		Kind:  KindTraining,
		Title: "💪 Time to move!",
		Body:  "Today's plan: " + names,
	}
	switch {
	case currentStreak >= 7:
		n.Title = fmt.Sprintf("🔥 %d days in a row!", currentStreak)
		n.Body = "Keep it going! Today: " + names
	case currentStreak >= 3:
		n.Title = fmt.Sprintf("💪 %d days streak!", currentStreak)
	}
	return n
}

// MissedWorkoutReminder is sent after two or more days without training.
func MissedWorkoutReminder(daysSince int) (Notification, bool) {
	if daysSince < 2 {
		return Notification{}, false
	}

	var body string
	switch {
	case daysSince == 2:
		body = "You rested yesterday, let's move today! Just 10 minutes."
	case daysSince <= 5:
		body = fmt.Sprintf("%d days without training, even a 5 minute warm-up is progress!", daysSince)
	default:
		body = fmt.Sprintf("%d days! Do a single exercise and get the rhythm back.", daysSince)
	}

	return Notification{
		Kind:  KindMissed,
		Title: "📢 Don't forget to train!",
		Body:  body,
	}, true
}

func ProgressionNotice(exerciseName string, level int, levelName string) Notification {
	return Notification{
		Kind:               KindProgression,
		Title:              "🎉 Level up!",
		Body:               fmt.Sprintf("%s moved up to level %d: %s", exerciseName, level, levelName),
		RequireInteraction: true,
	}
}

func WeeklyReportNotice(workouts int, encouragement string) Notification {
	body := fmt.Sprintf("%d workouts completed this week.", workouts)
	if encouragement != "" {
		body += " " + encouragement
	}
	return Notification{
		Kind:               KindWeekly,
		Title:              "📊 Weekly training report",
		Body:               body,
		RequireInteraction: true,
	}
}
