package progression

import (
	"fmt"
	"math"
	"sort"

	"github.com/2beens/calisthenics/internal/catalog"
	"github.com/2beens/calisthenics/internal/workout"
)

const (
	// MinWindow is the fewest logs an analysis will judge.
	MinWindow = 3
	// DefaultWindow is how many recent logs callers usually pass in.
	DefaultWindow = 10
)

type State string

const (
	StateUpgrade          State = "upgrade"
	StateAlmost           State = "almost"
	StateConsolidate      State = "consolidate"
	StateDowngrade        State = "downgrade"
	StateNormal           State = "normal"
	StateInsufficientData State = "insufficient_data"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

type Metrics struct {
	AvgEffort       float64 `json:"avgEffort"`
	CompletionRate  float64 `json:"completionRate"`
	Trend           Trend   `json:"trend"`
	ProgressPercent int     `json:"progressPercent"`
	AvgSets         float64 `json:"avgSets"`
	AvgReps         float64 `json:"avgReps"`
	Consistency     float64 `json:"consistency"`
	Completed       int     `json:"completed"`
	Window          int     `json:"window"`
}

type Analysis struct {
	ExerciseKey string         `json:"exerciseKey"`
	Level       int            `json:"level"`
	State       State          `json:"state"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Target      catalog.Target `json:"target"`
	Qualitative bool           `json:"qualitative"`
	Metrics     *Metrics       `json:"metrics,omitempty"`
	Tips        []string       `json:"tips,omitempty"`
	FromLevel   int            `json:"fromLevel,omitempty"`
	ToLevel     int            `json:"toLevel,omitempty"`
	Required    int            `json:"required,omitempty"`
}

var consolidateTips = []string{
	"Increase the rest time between sets",
	"Make sure you get enough sleep and nutrition",
	"Try fewer reps per set with more sets",
}

// AdjustedEffort refines the feeling based effort by how close the log got
// to the target volume: more completed volume lowers the score. The result
// is clamped to [1, 10].
func AdjustedEffort(l workout.WorkoutLog, target catalog.Target) float64 {
	effort := l.Feeling.Effort()
	if tv := target.Volume(); tv > 0 && l.Completed {
		ratio := float64(l.Volume()) / float64(tv)
		effort -= (ratio - 0.8) * 2
	}
	return math.Max(1, math.Min(10, effort))
}

// Analyze is the full multi-factor progression check over a window of recent
// logs for the level described by standard. Fewer than MinWindow logs yield
// StateInsufficientData and never an upgrade or downgrade.
func Analyze(standard catalog.LevelStandard, recent []workout.WorkoutLog) Analysis {
	a := Analysis{
		ExerciseKey: standard.ExerciseKey,
		Level:       standard.Level,
		Target:      standard.Progression,
		Qualitative: standard.Qualitative(),
	}

	if len(recent) < MinWindow {
		a.State = StateInsufficientData
		a.Title = "Need more data"
		a.Message = fmt.Sprintf("Log at least %d sessions to get a progression analysis", MinWindow)
		a.Required = MinWindow
		return a
	}

	m := computeMetrics(standard.Progression, recent)
	a.Metrics = &m

	switch {
	case standard.Level < catalog.MaxLevel && !a.Qualitative &&
		m.AvgEffort <= 5 && m.CompletionRate >= 0.9 && m.Trend != TrendDeclining && m.ProgressPercent >= 100:
		a.State = StateUpgrade
		a.FromLevel = standard.Level
		a.ToLevel = standard.Level + 1
		a.Title = "Ready to level up"
		a.Message = fmt.Sprintf(
			"Completion %.0f%%, average effort %.1f. You can move on to level %d.",
			m.CompletionRate*100, m.AvgEffort, a.ToLevel,
		)
	case m.AvgEffort <= 6 && m.CompletionRate >= 0.8 && m.ProgressPercent >= 80:
		a.State = StateAlmost
		a.Title = "Almost there"
		a.Message = fmt.Sprintf("You are at %d%% of the %s target. Keep going.", m.ProgressPercent, standard.Progression)
	case m.AvgEffort >= 7 || m.Trend == TrendDeclining:
		a.State = StateConsolidate
		a.Title = "Consolidate"
		a.Message = "Training feels hard lately. Stay on this level and recover well."
		a.Tips = append([]string(nil), consolidateTips...)
	case m.CompletionRate < 0.5 && standard.Level > catalog.MinLevel:
		a.State = StateDowngrade
		a.FromLevel = standard.Level
		a.ToLevel = standard.Level - 1
		a.Title = "Consider stepping back"
		a.Message = fmt.Sprintf(
			"Completion is only %.0f%%. Going back to level %d to rebuild the base is fine.",
			m.CompletionRate*100, a.ToLevel,
		)
	default:
		a.State = StateNormal
		a.Title = "On track"
		a.Message = fmt.Sprintf("Progress %d%%, trend %s. Keep training at this level.", m.ProgressPercent, m.Trend)
	}

	return a
}

func computeMetrics(target catalog.Target, recent []workout.WorkoutLog) Metrics {
	logs := append([]workout.WorkoutLog(nil), recent...)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Before(logs[j])
	})

	var done []workout.WorkoutLog
	for _, l := range logs {
		if l.Completed {
			done = append(done, l)
		}
	}

	m := Metrics{
		Window:         len(logs),
		Completed:      len(done),
		CompletionRate: float64(len(done)) / float64(len(logs)),
		Consistency:    float64(trailingCompleted(logs)) / float64(len(logs)),
	}

	if len(done) == 0 {
		m.AvgEffort = 10
		m.Trend = TrendDeclining
		return m
	}

	var effort, sets, reps, volume float64
	for _, l := range done {
		effort += AdjustedEffort(l, target)
		sets += float64(l.Sets)
		reps += float64(l.Reps)
		volume += float64(l.Volume())
	}
	n := float64(len(done))
	m.AvgEffort = effort / n
	m.AvgSets = round1(sets / n)
	m.AvgReps = round1(reps / n)
	m.Trend = trend(done)

	if tv := target.Volume(); tv > 0 {
		pct := int(math.Round(volume / n / float64(tv) * 100))
		m.ProgressPercent = min(pct, 100)
	}

	return m
}

// trend compares the mean volume of the older half of the logs against the
// newer half. logs must be sorted oldest first.
func trend(logs []workout.WorkoutLog) Trend {
	half := len(logs) / 2
	if half == 0 {
		return TrendStable
	}
	older := meanVolume(logs[:half])
	newer := meanVolume(logs[half:])
	if older == 0 {
		if newer > 0 {
			return TrendImproving
		}
		return TrendStable
	}
	switch {
	case newer >= older*1.1:
		return TrendImproving
	case newer <= older*0.9:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanVolume(logs []workout.WorkoutLog) float64 {
	var total float64
	for _, l := range logs {
		total += float64(l.Volume())
	}
	return total / float64(len(logs))
}

// trailingCompleted counts completed logs from the newest backwards until the
// first skip. logs must be sorted oldest first.
func trailingCompleted(logs []workout.WorkoutLog) int {
	count := 0
	for i := len(logs) - 1; i >= 0; i-- {
		if !logs[i].Completed {
			break
		}
		count++
	}
	return count
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
