package progression

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/calisthenics/internal/catalog"
	"github.com/2beens/calisthenics/internal/workout"
)

// BannerStreak is how many of the latest completed logs at a level must all
// hit the progression target before the upgrade banner shows.
const BannerStreak = 3

var (
	ErrBoundaryViolation = errors.New("level boundary")
	ErrMaxLevel          = fmt.Errorf("%w: already at max level", ErrBoundaryViolation)
	ErrMinLevel          = fmt.Errorf("%w: already at min level", ErrBoundaryViolation)
)

// EligibleForUpgradeBanner is the strict three-in-a-row gate. Only completed
// logs at the standard's exercise and level are considered; the latest
// BannerStreak of them must meet the progression sets and reps and none may
// be hard or exhausted. Timed levels and the top level never show it.
func EligibleForUpgradeBanner(standard catalog.LevelStandard, logs []workout.WorkoutLog) bool {
	if standard.Qualitative() || standard.Level >= catalog.MaxLevel {
		return false
	}

	var atLevel []workout.WorkoutLog
	for _, l := range logs {
		if !l.Completed || l.Level != standard.Level {
			continue
		}
		if standard.ExerciseKey != "" && l.ExerciseKey != standard.ExerciseKey {
			continue
		}
		atLevel = append(atLevel, l)
	}
	if len(atLevel) < BannerStreak {
		return false
	}

	sort.SliceStable(atLevel, func(i, j int) bool {
		return atLevel[j].Before(atLevel[i])
	})

	target := standard.Progression
	for _, l := range atLevel[:BannerStreak] {
		if l.Sets < target.Sets || l.Reps < target.Reps {
			return false
		}
		if l.Feeling.Strained() {
			return false
		}
	}
	return true
}

type LogCheck struct {
	CanProgress bool           `json:"canProgress"`
	Reason      string         `json:"reason"`
	Completion  int            `json:"completion,omitempty"`
	Target      catalog.Target `json:"target"`
	Qualitative bool           `json:"qualitative,omitempty"`
}

// CheckLog judges a single session against the progression target, for
// immediate feedback right after logging.
func CheckLog(standard catalog.LevelStandard, sets, reps int, feeling workout.Feeling) LogCheck {
	target := standard.Progression
	check := LogCheck{Target: target}

	if target.Qualitative() {
		check.Qualitative = true
		check.Reason = fmt.Sprintf("Judge the %s hold target yourself", target.Hold)
		return check
	}

	if sets >= target.Sets && reps >= target.Reps {
		if feeling.Strained() {
			check.Completion = 100
			check.Reason = fmt.Sprintf("Target reached but it felt %s, consolidate before moving on", feeling)
			return check
		}
		check.CanProgress = true
		check.Completion = 100
		check.Reason = fmt.Sprintf("Done %dx%d, progression target %s reached. Try the next level!", sets, reps, target)
		return check
	}

	check.Completion = int(math.Round(float64(sets*reps) / float64(target.Volume()) * 100))
	check.Reason = fmt.Sprintf("Now %dx%d, target %s, %d%% there", sets, reps, target, check.Completion)
	return check
}

// Upgrade moves progress one level up and stamps the change time. At the top
// level the progress is returned unchanged together with ErrMaxLevel.
func Upgrade(p workout.UserProgress, now time.Time) (workout.UserProgress, error) {
	if p.Level >= catalog.MaxLevel {
		return p, ErrMaxLevel
	}
	p.Level++
	p.UpgradedAt = &now
	p.UpdatedAt = now
	return p, nil
}

// Downgrade moves progress one level down. At level 1 it is a no-op
// reporting ErrMinLevel.
func Downgrade(p workout.UserProgress, now time.Time) (workout.UserProgress, error) {
	if p.Level <= catalog.MinLevel {
		return p, ErrMinLevel
	}
	p.Level--
	p.DowngradedAt = &now
	p.UpdatedAt = now
	return p, nil
}
