package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/calisthenics/internal/workout"
)

// Memory keeps everything in process memory. Used in tests and as the
// development default.
type Memory struct {
	mutex    sync.RWMutex
	logs     []workout.WorkoutLog
	logIDs   map[string]struct{}
	progress map[string]workout.UserProgress
	plan     workout.WeeklyPlan
	settings map[string]string
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{}
	m.reset()
	return m
}

func (m *Memory) reset() {
	m.logs = nil
	m.logIDs = make(map[string]struct{})
	m.progress = make(map[string]workout.UserProgress)
	m.plan = workout.DefaultWeeklyPlan()
	m.settings = make(map[string]string)
}

func (m *Memory) Logs() LogStore          { return memoryLogs{m} }
func (m *Memory) Progress() ProgressStore { return memoryProgress{m} }
func (m *Memory) Plan() PlanStore         { return memoryPlan{m} }
func (m *Memory) Settings() SettingsStore { return memorySettings{m} }
func (m *Memory) Close() error            { return nil }

func (m *Memory) Import(ctx context.Context, state State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, l := range state.Logs {
		if l.ID == "" {
			return fmt.Errorf("import log without id: %w", workout.ErrInvalidLog)
		}
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, l := range state.Logs {
		m.appendLocked(l)
	}
	for _, p := range state.Progress {
		m.progress[p.ExerciseKey] = p
	}
	for day, keys := range state.Plan {
		m.plan[day] = append([]string(nil), keys...)
	}
	for k, v := range state.Settings {
		m.settings[k] = v
	}
	return nil
}

func (m *Memory) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.reset()
	return nil
}

func (m *Memory) appendLocked(l workout.WorkoutLog) {
	if _, ok := m.logIDs[l.ID]; ok {
		return
	}
	m.logIDs[l.ID] = struct{}{}
	m.logs = append(m.logs, l)
}

func (m *Memory) filterLogs(keep func(workout.WorkoutLog) bool) []workout.WorkoutLog {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var out []workout.WorkoutLog
	for _, l := range m.logs {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

type memoryLogs struct{ m *Memory }

func (s memoryLogs) Append(ctx context.Context, l workout.WorkoutLog) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l = PrepareLog(l, time.Now())
	s.m.mutex.Lock()
	defer s.m.mutex.Unlock()
	s.m.appendLocked(l)
	return l.ID, nil
}

func (s memoryLogs) ByDate(ctx context.Context, date workout.Date) ([]workout.WorkoutLog, error) {
	return s.ByDateRange(ctx, date, date)
}

func (s memoryLogs) ByDateRange(ctx context.Context, from, to workout.Date) ([]workout.WorkoutLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logs := s.m.filterLogs(func(l workout.WorkoutLog) bool {
		return !l.Date.Before(from) && !l.Date.After(to)
	})
	SortOldestFirst(logs)
	return logs, nil
}

func (s memoryLogs) Recent(ctx context.Context, exerciseKey string, limit int) ([]workout.WorkoutLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logs := s.m.filterLogs(func(l workout.WorkoutLog) bool {
		return l.ExerciseKey == exerciseKey
	})
	SortNewestFirst(logs)
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (s memoryLogs) All(ctx context.Context) ([]workout.WorkoutLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logs := s.m.filterLogs(func(workout.WorkoutLog) bool { return true })
	SortOldestFirst(logs)
	return logs, nil
}

func (s memoryLogs) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.m.mutex.Lock()
	defer s.m.mutex.Unlock()
	if _, ok := s.m.logIDs[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.logIDs, id)
	for i, l := range s.m.logs {
		if l.ID == id {
			s.m.logs = append(s.m.logs[:i], s.m.logs[i+1:]...)
			break
		}
	}
	return nil
}

type memoryProgress struct{ m *Memory }

func (s memoryProgress) Get(ctx context.Context, exerciseKey string) (*workout.UserProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.m.mutex.RLock()
	defer s.m.mutex.RUnlock()
	p, ok := s.m.progress[exerciseKey]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s memoryProgress) Put(ctx context.Context, p workout.UserProgress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.m.mutex.Lock()
	defer s.m.mutex.Unlock()
	s.m.progress[p.ExerciseKey] = p
	return nil
}

func (s memoryProgress) All(ctx context.Context) ([]workout.UserProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.m.mutex.RLock()
	defer s.m.mutex.RUnlock()
	all := make([]workout.UserProgress, 0, len(s.m.progress))
	for _, p := range s.m.progress {
		all = append(all, p)
	}
	SortProgress(all)
	return all, nil
}

type memoryPlan struct{ m *Memory }

func (s memoryPlan) Get(ctx context.Context) (workout.WeeklyPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.m.mutex.RLock()
	defer s.m.mutex.RUnlock()
	plan := make(workout.WeeklyPlan, len(s.m.plan))
	for day, keys := range s.m.plan {
		plan[day] = append([]string(nil), keys...)
	}
	return plan, nil
}

func (s memoryPlan) Put(ctx context.Context, day time.Weekday, exerciseKeys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.m.mutex.Lock()
	defer s.m.mutex.Unlock()
	s.m.plan[day] = append([]string(nil), exerciseKeys...)
	return nil
}

type memorySettings struct{ m *Memory }

func (s memorySettings) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.m.mutex.RLock()
	defer s.m.mutex.RUnlock()
	v, ok := s.m.settings[key]
	return v, ok, nil
}

func (s memorySettings) Put(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.m.mutex.Lock()
	defer s.m.mutex.Unlock()
	s.m.settings[key] = value
	return nil
}

func (s memorySettings) All(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.m.mutex.RLock()
	defer s.m.mutex.RUnlock()
	all := make(map[string]string, len(s.m.settings))
	for k, v := range s.m.settings {
		all[k] = v
	}
	return all, nil
}
