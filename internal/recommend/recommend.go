package recommend

import (
	"github.com/2beens/calisthenics/internal/catalog"
	"github.com/2beens/calisthenics/internal/workout"
)

// RepStep is how many reps a feeling moves the next session by.
const RepStep = 2

type Recommendation struct {
	ExerciseKey string `json:"exerciseKey"`
	Level       int    `json:"level"`
	LevelName   string `json:"levelName"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps,omitempty"`
	Hold        string `json:"hold,omitempty"`
	BasedOnLast bool   `json:"basedOnLast"`
	Tip         string `json:"tip,omitempty"`
}

// Recommend suggests today's sets and reps for the level in standard.
// Without a completed log at hand the beginner target is used. Otherwise the
// most recent completed log is the base: easy adds RepStep reps, hard or
// exhausted removes them, normal keeps them. The result is always clamped to
// [beginner, progression] of the level.
func Recommend(standard catalog.LevelStandard, recent []workout.WorkoutLog) Recommendation {
	rec := Recommendation{
		ExerciseKey: standard.ExerciseKey,
		Level:       standard.Level,
		LevelName:   standard.Name,
		Sets:        standard.Beginner.Sets,
		Reps:        standard.Beginner.Reps,
		Hold:        standard.Beginner.Hold,
		Tip:         standard.Tip,
	}

	// timed holds have no rep arithmetic
	if standard.Qualitative() {
		return rec
	}

	last, ok := latestCompleted(recent)
	if !ok || last.Sets <= 0 || last.Reps <= 0 {
		return rec
	}

	reps := last.Reps
	switch last.Feeling {
	case workout.FeelingEasy:
		reps += RepStep
	case workout.FeelingHard, workout.FeelingExhausted:
		reps -= RepStep
	}

	rec.Sets = clamp(last.Sets, standard.Beginner.Sets, standard.Progression.Sets)
	rec.Reps = clamp(reps, standard.Beginner.Reps, standard.Progression.Reps)
	rec.BasedOnLast = true
	return rec
}

func latestCompleted(logs []workout.WorkoutLog) (workout.WorkoutLog, bool) {
	var (
		latest workout.WorkoutLog
		found  bool
	)
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		if !found || latest.Before(l) {
			latest = l
			found = true
		}
	}
	return latest, found
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
