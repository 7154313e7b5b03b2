package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/calisthenics/internal/workout"
)

func (s *Service) Plan(ctx context.Context) (workout.WeeklyPlan, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	plan, err := s.store.Plan().Get(storeCtx)
	if err != nil {
		return nil, storeErr("get plan", err)
	}
	return plan, nil
}

// SetPlanDay replaces the exercises planned for a weekday. An empty list
// makes it a rest day.
func (s *Service) SetPlanDay(ctx context.Context, day time.Weekday, exerciseKeys []string) error {
	if day < time.Sunday || day > time.Saturday {
		return fmt.Errorf("%w: weekday %d", ErrInvalidInput, day)
	}
	seen := make(map[string]bool, len(exerciseKeys))
	keys := make([]string, 0, len(exerciseKeys))
	for _, key := range exerciseKeys {
		if err := s.checkExercise(key); err != nil {
			return err
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.store.Plan().Put(storeCtx, day, keys); err != nil {
		return storeErr("put plan", err)
	}
	return nil
}

func (s *Service) Settings(ctx context.Context) (map[string]string, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	settings, err := s.store.Settings().All(storeCtx)
	if err != nil {
		return nil, storeErr("all settings", err)
	}
	return settings, nil
}

func (s *Service) PutSetting(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: empty setting key", ErrInvalidInput)
	}
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.store.Settings().Put(storeCtx, key, value); err != nil {
		return storeErr("put setting", err)
	}
	return nil
}

func (s *Service) setting(ctx context.Context, key string) (string, bool, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	v, ok, err := s.store.Settings().Get(storeCtx, key)
	if err != nil {
		return "", false, storeErr("get setting", err)
	}
	return v, ok, nil
}
