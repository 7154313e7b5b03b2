package stats

import (
	"sort"

	"github.com/2beens/calisthenics/internal/workout"
)

// RecoveryWindowDays is the longest gap, in days, after which returning
// to training still counts as a recovery. Longer absences reset the
// streak without credit.
const RecoveryWindowDays = 7

// Snapshot is derived from the full log history. It is never edited directly.
type Snapshot struct {
	TotalDays       int           `json:"totalDays"`
	CurrentStreak   int           `json:"currentStreak"`
	LongestStreak   int           `json:"longestStreak"`
	RecoveryCount   int           `json:"recoveryCount"`
	LastWorkoutDate *workout.Date `json:"lastWorkoutDate"`
}

// TrainedDates returns the distinct dates with at least one completed log,
// oldest first.
func TrainedDates(logs []workout.WorkoutLog) []workout.Date {
	seen := make(map[workout.Date]struct{}, len(logs))
	var dates []workout.Date
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		if _, ok := seen[l.Date]; ok {
			continue
		}
		seen[l.Date] = struct{}{}
		dates = append(dates, l.Date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

// Recompute derives the snapshot from scratch. Skipped logs are ignored and
// several logs on the same date count as one training day.
func Recompute(logs []workout.WorkoutLog, today workout.Date) Snapshot {
	dates := TrainedDates(logs)
	if len(dates) == 0 {
		return Snapshot{}
	}

	var (
		streak    = 1
		longest   = 1
		recovered = 0
	)
	for i := 1; i < len(dates); i++ {
		gap := dates[i-1].DaysUntil(dates[i])
		switch {
		case gap == 1:
			streak++
		case gap <= RecoveryWindowDays:
			recovered++
			streak = 1
		default:
			streak = 1
		}
		if streak > longest {
			longest = streak
		}
	}

	last := dates[len(dates)-1]
	current := 0
	// a trailing run still counts when the last workout was today or
	// yesterday; dates after today are treated as today
	if last.DaysUntil(today) <= 1 {
		current = streak
	}

	return Snapshot{
		TotalDays:       len(dates),
		CurrentStreak:   current,
		LongestStreak:   longest,
		RecoveryCount:   recovered,
		LastWorkoutDate: &last,
	}
}

// DaysSinceLastWorkout returns the gap between the last trained date and
// today, and false when there is no history.
func (s Snapshot) DaysSinceLastWorkout(today workout.Date) (int, bool) {
	if s.LastWorkoutDate == nil {
		return 0, false
	}
	return s.LastWorkoutDate.DaysUntil(today), true
}
