package reminder

import (
	"time"

	"github.com/2beens/calisthenics/internal/workout"
)

const (
	DefaultPreferredHour = 19
	minPatternLogs       = 5
	highConfidenceLogs   = 20
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type TimeOfDay string

const (
	TimeOfDayUnknown   TimeOfDay = "unknown"
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
	TimeOfDayMixed     TimeOfDay = "mixed"
)

// Pattern describes when the user usually trains.
type Pattern struct {
	PreferredHour    int        `json:"preferredHour"`
	Confidence       Confidence `json:"confidence"`
	TimeOfDay        TimeOfDay  `json:"timeOfDay"`
	HourDistribution [24]int    `json:"hourDistribution"`
}

// AnalyzePattern buckets the creation hour of completed logs in loc. With
// fewer than five such logs the evening default is returned.
func AnalyzePattern(logs []workout.WorkoutLog, loc *time.Location) Pattern {
	if loc == nil {
		loc = time.UTC
	}

	var (
		hours [24]int
		count int
	)
	for _, l := range logs {
		if !l.Completed || l.CreatedAt.IsZero() {
			continue
		}
		hours[l.CreatedAt.In(loc).Hour()]++
		count++
	}

	if count < minPatternLogs {
		return Pattern{
			PreferredHour: DefaultPreferredHour,
			Confidence:    ConfidenceLow,
			TimeOfDay:     TimeOfDayUnknown,
		}
	}

	p := Pattern{
		PreferredHour:    DefaultPreferredHour,
		Confidence:       ConfidenceMedium,
		TimeOfDay:        TimeOfDayMixed,
		HourDistribution: hours,
	}
	if count >= highConfidenceLogs {
		p.Confidence = ConfidenceHigh
	}

	maxCount := 0
	for hour, c := range hours {
		if c > maxCount {
			maxCount = c
			p.PreferredHour = hour
		}
	}

	morning := sum(hours[5:12])
	afternoon := sum(hours[12:18])
	evening := sum(hours[18:23])
	total := float64(morning + afternoon + evening)
	if total == 0 {
		return p
	}

	switch {
	case float64(morning)/total > 0.6:
		p.TimeOfDay = TimeOfDayMorning
	case float64(afternoon)/total > 0.6:
		p.TimeOfDay = TimeOfDayAfternoon
	case float64(evening)/total > 0.6:
		p.TimeOfDay = TimeOfDayEvening
	}
	return p
}

// ReminderTime is half an hour before the preferred training hour.
func (p Pattern) ReminderTime() (hour, minute int) {
	if p.PreferredHour > 0 {
		return p.PreferredHour - 1, 30
	}
	return 0, 0
}

func sum(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
