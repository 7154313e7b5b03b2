package catalog

import (
	"errors"
	"fmt"
	"sort"
)

const (
	MinLevel = 1
	MaxLevel = 10
)

var ErrUnknownExercise = errors.New("unknown exercise")

type ExerciseType struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Target is a sets x reps goal. Hold is set instead of Reps for the
// timed tiers (e.g. early handstand levels), which can only be judged
// qualitatively.
type Target struct {
	Sets int    `json:"sets"`
	Reps int    `json:"reps,omitempty"`
	Hold string `json:"hold,omitempty"`
}

func (t Target) Qualitative() bool {
	return t.Hold != ""
}

// Volume is sets x reps, zero for qualitative targets.
func (t Target) Volume() int {
	if t.Qualitative() {
		return 0
	}
	return t.Sets * t.Reps
}

func (t Target) String() string {
	if t.Qualitative() {
		return fmt.Sprintf("%dx%s", t.Sets, t.Hold)
	}
	return fmt.Sprintf("%dx%d", t.Sets, t.Reps)
}

type LevelStandard struct {
	ExerciseKey  string `json:"exerciseKey"`
	Level        int    `json:"level"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Tip          string `json:"tip"`
	Beginner     Target `json:"beginner"`
	Intermediate Target `json:"intermediate"`
	Progression  Target `json:"progression"`
}

// Qualitative reports whether any tier of this level is a timed hold.
func (s LevelStandard) Qualitative() bool {
	return s.Beginner.Qualitative() || s.Progression.Qualitative()
}

// Catalog is the read-only table of exercise types and their ten level
// standards. It is safe for concurrent use.
type Catalog struct {
	types  []ExerciseType
	byKey  map[string]ExerciseType
	levels map[string][]LevelStandard
}

func New(types []ExerciseType, levels map[string][]LevelStandard) (*Catalog, error) {
	c := &Catalog{
		types:  make([]ExerciseType, 0, len(types)),
		byKey:  make(map[string]ExerciseType, len(types)),
		levels: make(map[string][]LevelStandard, len(levels)),
	}

	for _, t := range types {
		if t.Key == "" {
			return nil, errors.New("exercise type with empty key")
		}
		if _, ok := c.byKey[t.Key]; ok {
			return nil, fmt.Errorf("duplicate exercise type: %s", t.Key)
		}

		standards := append([]LevelStandard(nil), levels[t.Key]...)
		sort.Slice(standards, func(i, j int) bool {
			return standards[i].Level < standards[j].Level
		})
		if err := validateLevels(t.Key, standards); err != nil {
			return nil, err
		}
		for i := range standards {
			standards[i].ExerciseKey = t.Key
		}

		c.types = append(c.types, t)
		c.byKey[t.Key] = t
		c.levels[t.Key] = standards
	}

	for key := range levels {
		if _, ok := c.byKey[key]; !ok {
			return nil, fmt.Errorf("levels defined for unknown exercise type: %s", key)
		}
	}

	return c, nil
}

func MustNew(types []ExerciseType, levels map[string][]LevelStandard) *Catalog {
	c, err := New(types, levels)
	if err != nil {
		panic(fmt.Sprintf("catalog: %s", err))
	}
	return c
}

var defaultCatalog = MustNew(defaultTypes, defaultLevels)

// Default returns the built-in six-exercise catalog.
func Default() *Catalog {
	return defaultCatalog
}

func validateLevels(key string, standards []LevelStandard) error {
	if len(standards) != MaxLevel-MinLevel+1 {
		return fmt.Errorf("%s: expected %d levels, got %d", key, MaxLevel-MinLevel+1, len(standards))
	}
	for i, s := range standards {
		if s.Level != MinLevel+i {
			return fmt.Errorf("%s: level %d out of order", key, s.Level)
		}
		if err := validateTiers(s); err != nil {
			return fmt.Errorf("%s level %d: %w", key, s.Level, err)
		}
	}
	return nil
}

func validateTiers(s LevelStandard) error {
	for _, t := range []Target{s.Beginner, s.Intermediate, s.Progression} {
		if t.Sets <= 0 {
			return errors.New("tier with no sets")
		}
		if !t.Qualitative() && t.Reps <= 0 {
			return errors.New("tier with neither reps nor hold")
		}
	}
	if s.Beginner.Qualitative() != s.Progression.Qualitative() {
		return errors.New("mixed timed and counted tiers")
	}
	if !s.Qualitative() {
		if s.Beginner.Sets > s.Progression.Sets || s.Beginner.Reps > s.Progression.Reps {
			return fmt.Errorf("beginner %s exceeds progression %s", s.Beginner, s.Progression)
		}
	}
	return nil
}

// Types returns the exercise types in display order.
func (c *Catalog) Types() []ExerciseType {
	return append([]ExerciseType(nil), c.types...)
}

func (c *Catalog) Type(key string) (ExerciseType, error) {
	t, ok := c.byKey[key]
	if !ok {
		return ExerciseType{}, fmt.Errorf("%w: %s", ErrUnknownExercise, key)
	}
	return t, nil
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

func (c *Catalog) Levels(key string) ([]LevelStandard, error) {
	standards, ok := c.levels[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExercise, key)
	}
	return append([]LevelStandard(nil), standards...), nil
}

// Level returns the standard for (key, level). Levels outside 1..10 are
// reported as errors, never clamped.
func (c *Catalog) Level(key string, level int) (LevelStandard, error) {
	standards, ok := c.levels[key]
	if !ok {
		return LevelStandard{}, fmt.Errorf("%w: %s", ErrUnknownExercise, key)
	}
	if level < MinLevel || level > MaxLevel {
		return LevelStandard{}, fmt.Errorf("%s: level %d outside [%d, %d]", key, level, MinLevel, MaxLevel)
	}
	return standards[level-MinLevel], nil
}

// DisplayName renders e.g. "Pushup · Level 5 · Full Pushup".
func (c *Catalog) DisplayName(key string, level int) string {
	t, err := c.Type(key)
	if err != nil {
		return ""
	}
	s, err := c.Level(key, level)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s · Level %d · %s", t.Name, level, s.Name)
}
