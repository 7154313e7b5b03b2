package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/calisthenics/internal/catalog"
	"github.com/2beens/calisthenics/internal/stats"
	"github.com/2beens/calisthenics/internal/workout"
)

// PeriodDays is how far back the weekly report looks, today included.
const PeriodDays = 7

type Period struct {
	Start workout.Date `json:"start"`
	End   workout.Date `json:"end"`
}

type Overview struct {
	TrainedDays     int `json:"trainedDays"`
	TotalWorkouts   int `json:"totalWorkouts"`
	SkippedWorkouts int `json:"skippedWorkouts"`
	CurrentStreak   int `json:"currentStreak"`
	LongestStreak   int `json:"longestStreak"`
}

type ExerciseSummary struct {
	Count       int     `json:"count"`
	TotalSets   int     `json:"totalSets"`
	TotalReps   int     `json:"totalReps"`
	AvgFeeling  float64 `json:"avgFeeling"`
	FeelingText string  `json:"feelingText"`
}

type Summary struct {
	Period        Period                     `json:"period"`
	Overview      Overview                   `json:"overview"`
	Exercises     map[string]ExerciseSummary `json:"exerciseStats"`
	SkipReasons   map[workout.SkipReason]int `json:"skipReasons"`
	Levels        map[string]int             `json:"progress"`
	Encouragement string                     `json:"encouragement"`
}

var feelingScores = map[workout.Feeling]float64{
	workout.FeelingEasy:      1,
	workout.FeelingNormal:    2,
	workout.FeelingHard:      3,
	workout.FeelingExhausted: 4,
}

// Weekly summarizes the logs dated within the last PeriodDays up to today.
// Logs outside the period are ignored, so the full history can be passed in.
func Weekly(
	logs []workout.WorkoutLog,
	progress []workout.UserProgress,
	snapshot stats.Snapshot,
	today workout.Date,
) Summary {
	s := Summary{
		Period: Period{
			Start: today.AddDays(-PeriodDays),
			End:   today,
		},
		Exercises:   make(map[string]ExerciseSummary),
		SkipReasons: make(map[workout.SkipReason]int),
		Levels:      make(map[string]int, len(progress)),
	}

	feelings := make(map[string][]float64)
	days := make(map[workout.Date]struct{})
	for _, l := range logs {
		if l.Date.Before(s.Period.Start) || l.Date.After(s.Period.End) {
			continue
		}

		if !l.Completed {
			s.Overview.SkippedWorkouts++
			reason := l.SkipReason
			if reason == "" {
				reason = workout.SkipOther
			}
			s.SkipReasons[reason]++
			continue
		}

		s.Overview.TotalWorkouts++
		days[l.Date] = struct{}{}

		ex := s.Exercises[l.ExerciseKey]
		ex.Count++
		ex.TotalSets += l.Sets
		sets := l.Sets
		if sets == 0 {
			sets = 1
		}
		ex.TotalReps += sets * l.Reps
		s.Exercises[l.ExerciseKey] = ex

		if l.Feeling != "" {
			score, ok := feelingScores[l.Feeling]
			if !ok {
				score = 2
			}
			feelings[l.ExerciseKey] = append(feelings[l.ExerciseKey], score)
		}
	}

	for key, ex := range s.Exercises {
		ex.AvgFeeling, ex.FeelingText = averageFeeling(feelings[key])
		s.Exercises[key] = ex
	}

	for _, p := range progress {
		s.Levels[p.ExerciseKey] = p.Level
	}

	s.Overview.TrainedDays = len(days)
	s.Overview.CurrentStreak = snapshot.CurrentStreak
	s.Overview.LongestStreak = snapshot.LongestStreak
	s.Encouragement = Encouragement(s.Overview.TrainedDays)
	return s
}

func averageFeeling(scores []float64) (float64, string) {
	if len(scores) == 0 {
		return 0, "😐"
	}
	var total float64
	for _, s := range scores {
		total += s
	}
	avg := total / float64(len(scores))
	switch {
	case avg <= 1.5:
		return avg, "😊 easy"
	case avg <= 2.5:
		return avg, "😐 normal"
	case avg <= 3.5:
		return avg, "😓 hard"
	default:
		return avg, "😵 exhausted"
	}
}

func Encouragement(trainedDays int) string {
	switch {
	case trainedDays >= 6:
		return "🏆 Trained almost every day this week. True warrior!"
	case trainedDays >= 4:
		return "💪 Great training frequency this week, keep it up!"
	case trainedDays >= 2:
		return "👍 Good start! Try to add one more day next week."
	case trainedDays >= 1:
		return "🌱 Every step counts! Let's do better next week."
	default:
		return "💫 A new week, a new start! Looking forward to your first session."
	}
}

// Text renders the summary as a plain text message.
func (s Summary) Text(cat *catalog.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Calisthenics weekly report\n%s - %s\n\n", s.Period.Start, s.Period.End)
	fmt.Fprintf(&b, "Trained days: %d\n", s.Overview.TrainedDays)
	fmt.Fprintf(&b, "Workouts: %d (skipped %d)\n", s.Overview.TotalWorkouts, s.Overview.SkippedWorkouts)
	fmt.Fprintf(&b, "Current streak: %d, longest: %d\n", s.Overview.CurrentStreak, s.Overview.LongestStreak)

	if len(s.Levels) > 0 {
		b.WriteString("\nLevels\n")
		for _, key := range sortedKeys(s.Levels) {
			name := key
			if t, err := cat.Type(key); err == nil {
				name = t.Name
			}
			fmt.Fprintf(&b, "- %s: level %d\n", name, s.Levels[key])
		}
	}

	b.WriteString("\n" + s.Encouragement)
	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
