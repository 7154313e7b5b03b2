package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	types := c.Types()
	require.Len(t, types, 6)
	assert.Equal(t, "pushup", types[0].Key)
	assert.Equal(t, "handstandPushup", types[5].Key)

	for _, et := range types {
		levels, err := c.Levels(et.Key)
		require.NoError(t, err)
		require.Len(t, levels, MaxLevel)
		for i, l := range levels {
			assert.Equal(t, i+1, l.Level)
			assert.Equal(t, et.Key, l.ExerciseKey)
			assert.NotEmpty(t, l.Name)
		}
	}
}

func TestCatalog_Level(t *testing.T) {
	c := Default()

	l, err := c.Level("pushup", 5)
	require.NoError(t, err)
	assert.Equal(t, Target{Sets: 2, Reps: 20}, l.Progression)
	assert.Equal(t, Target{Sets: 1, Reps: 5}, l.Beginner)
	assert.False(t, l.Qualitative())

	l, err = c.Level("handstandPushup", 1)
	require.NoError(t, err)
	assert.True(t, l.Qualitative())
	assert.Equal(t, "2min", l.Progression.Hold)
	assert.Zero(t, l.Progression.Volume())

	_, err = c.Level("pushup", 0)
	assert.Error(t, err)
	_, err = c.Level("pushup", 11)
	assert.Error(t, err)

	_, err = c.Level("burpee", 1)
	assert.ErrorIs(t, err, ErrUnknownExercise)
	_, err = c.Type("burpee")
	assert.ErrorIs(t, err, ErrUnknownExercise)
	assert.False(t, c.Has("burpee"))
}

func TestCatalog_DisplayName(t *testing.T) {
	c := Default()
	assert.Equal(t, "Pushup · Level 5 · Full Pushup", c.DisplayName("pushup", 5))
	assert.Empty(t, c.DisplayName("pushup", 42))
}

func TestNew_Validation(t *testing.T) {
	types := []ExerciseType{{Key: "x", Name: "X"}}

	_, err := New(types, map[string][]LevelStandard{"x": defaultLevels["pushup"][:9]})
	assert.ErrorContains(t, err, "expected 10 levels")

	broken := append([]LevelStandard(nil), defaultLevels["pushup"]...)
	broken[4].Beginner = sr(3, 30)
	_, err = New(types, map[string][]LevelStandard{"x": broken})
	assert.ErrorContains(t, err, "exceeds progression")

	_, err = New(types, map[string][]LevelStandard{
		"x": defaultLevels["pushup"],
		"y": defaultLevels["squat"],
	})
	assert.ErrorContains(t, err, "unknown exercise type")

	c, err := New(types, map[string][]LevelStandard{"x": defaultLevels["pushup"]})
	require.NoError(t, err)
	l, err := c.Level("x", 1)
	require.NoError(t, err)
	assert.Equal(t, "x", l.ExerciseKey)
	// source table is not mutated
	assert.Empty(t, defaultLevels["pushup"][0].ExerciseKey)
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "2x20", sr(2, 20).String())
	assert.Equal(t, "1x30s", hold(1, "30s").String())
}
