package workout

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidLog = errors.New("invalid workout log")

type Feeling string

const (
	FeelingEasy      Feeling = "easy"
	FeelingNormal    Feeling = "normal"
	FeelingHard      Feeling = "hard"
	FeelingExhausted Feeling = "exhausted"
)

var feelingAliases = map[string]Feeling{
	"easy":      FeelingEasy,
	"normal":    FeelingNormal,
	"moderate":  FeelingNormal,
	"hard":      FeelingHard,
	"exhausted": FeelingExhausted,
}

func ParseFeeling(s string) (Feeling, error) {
	f, ok := feelingAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown feeling [%s]", ErrInvalidLog, s)
	}
	return f, nil
}

func (f *Feeling) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*f = ""
		return nil
	}
	parsed, err := ParseFeeling(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Strained reports a hard or exhausted session.
func (f Feeling) Strained() bool {
	return f == FeelingHard || f == FeelingExhausted
}

// Effort maps a feeling onto the 1-10 perceived exertion scale.
func (f Feeling) Effort() float64 {
	switch f {
	case FeelingEasy:
		return 3
	case FeelingHard:
		return 7
	case FeelingExhausted:
		return 9
	default:
		return 5
	}
}

type SkipReason string

const (
	SkipBusy   SkipReason = "busy"
	SkipTired  SkipReason = "tired"
	SkipSick   SkipReason = "sick"
	SkipInjury SkipReason = "injury"
	SkipLazy   SkipReason = "lazy"
	SkipForgot SkipReason = "forgot"
	SkipOther  SkipReason = "other"
)

var skipAliases = map[string]SkipReason{
	"busy":     SkipBusy,
	"overtime": SkipBusy,
	"tired":    SkipTired,
	"sick":     SkipSick,
	"injury":   SkipInjury,
	"injured":  SkipInjury,
	"lazy":     SkipLazy,
	"nomood":   SkipOther,
	"forgot":   SkipForgot,
	"other":    SkipOther,
}

func ParseSkipReason(s string) (SkipReason, error) {
	r, ok := skipAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown skip reason [%s]", ErrInvalidLog, s)
	}
	return r, nil
}

func (r *SkipReason) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = ""
		return nil
	}
	parsed, err := ParseSkipReason(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// WorkoutLog is a single attempted or skipped session for one exercise.
// Sets, Reps and Feeling are meaningful only when Completed is set.
type WorkoutLog struct {
	ID          string     `json:"id"`
	Date        Date       `json:"date"`
	ExerciseKey string     `json:"exerciseKey"`
	Level       int        `json:"level"`
	Completed   bool       `json:"completed"`
	Sets        int        `json:"sets"`
	Reps        int        `json:"reps"`
	Feeling     Feeling    `json:"feeling,omitempty"`
	Note        string     `json:"note,omitempty"`
	SkipReason  SkipReason `json:"skipReason,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Volume is sets x reps of a completed log.
func (l WorkoutLog) Volume() int {
	if !l.Completed {
		return 0
	}
	return l.Sets * l.Reps
}

func (l WorkoutLog) Validate() error {
	if l.ExerciseKey == "" {
		return fmt.Errorf("%w: exercise key empty", ErrInvalidLog)
	}
	if l.Date.IsZero() {
		return fmt.Errorf("%w: date empty", ErrInvalidLog)
	}
	if l.Level < 1 || l.Level > 10 {
		return fmt.Errorf("%w: level %d out of range", ErrInvalidLog, l.Level)
	}
	if !l.Completed {
		return nil
	}
	if l.Sets < 0 || l.Reps < 0 {
		return fmt.Errorf("%w: negative sets or reps", ErrInvalidLog)
	}
	if l.Feeling == "" {
		return fmt.Errorf("%w: feeling required for completed log", ErrInvalidLog)
	}
	return nil
}

// Before orders logs by date, then by creation time.
func (l WorkoutLog) Before(other WorkoutLog) bool {
	if c := l.Date.Compare(other.Date); c != 0 {
		return c < 0
	}
	return l.CreatedAt.Before(other.CreatedAt)
}

// UserProgress is the current level of one exercise.
type UserProgress struct {
	ExerciseKey  string     `json:"exerciseKey"`
	Level        int        `json:"level"`
	UpgradedAt   *time.Time `json:"upgradedAt,omitempty"`
	DowngradedAt *time.Time `json:"downgradedAt,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func NewProgress(exerciseKey string, now time.Time) UserProgress {
	return UserProgress{
		ExerciseKey: exerciseKey,
		Level:       1,
		UpdatedAt:   now,
	}
}

// WeeklyPlan maps a weekday to the exercise keys planned for it.
// An empty day is a rest day.
type WeeklyPlan map[time.Weekday][]string

func DefaultWeeklyPlan() WeeklyPlan {
	upper := []string{"pushup", "pullup", "handstandPushup"}
	lower := []string{"squat", "legRaise", "bridge"}
	return WeeklyPlan{
		time.Monday:    upper,
		time.Tuesday:   lower,
		time.Wednesday: upper,
		time.Thursday:  lower,
		time.Friday:    upper,
		time.Saturday:  lower,
		time.Sunday:    nil,
	}
}

func (p WeeklyPlan) For(day time.Weekday) []string {
	return append([]string(nil), p[day]...)
}

func (p WeeklyPlan) IsRestDay(day time.Weekday) bool {
	return len(p[day]) == 0
}
