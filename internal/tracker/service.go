package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/calisthenics/internal/catalog"
	"github.com/2beens/calisthenics/internal/stats"
	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/telemetry/metrics"
	"github.com/2beens/calisthenics/internal/workout"
)

const (
	SettingEnableNotification = "enableNotification"
	SettingReminderHour       = "reminderHour"

	// analysisWindow is how many recent logs feed the progression analysis.
	analysisWindow = 10
	// recommendWindow is how many recent logs the recommendation looks at.
	recommendWindow = 5
)

var (
	ErrUnknownExercise = catalog.ErrUnknownExercise
	ErrStoreFailure    = errors.New("store failure")
	ErrInvalidInput    = errors.New("invalid input")
	ErrLogNotFound     = errors.New("workout log not found")
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=tracker

type statsCache interface {
	Get(ctx context.Context, today workout.Date) (*stats.Snapshot, error)
	Set(ctx context.Context, today workout.Date, s stats.Snapshot) error
	Invalidate(ctx context.Context) error
}

type backupUploader interface {
	Upload(ctx context.Context, name string, content []byte) (string, error)
}

type ServiceParams struct {
	Catalog      *catalog.Catalog
	Store        store.Store
	StatsCache   statsCache
	Uploader     backupUploader
	Metrics      *metrics.Manager
	StoreTimeout time.Duration
	Location     *time.Location
	Now          func() time.Time
}

// Service is the single entry point for every tracker operation. It reads
// from the store, runs the pure engines and writes results back.
type Service struct {
	catalog      *catalog.Catalog
	store        store.Store
	statsCache   statsCache
	uploader     backupUploader
	metrics      *metrics.Manager
	storeTimeout time.Duration
	loc          *time.Location
	now          func() time.Time
}

func NewService(params ServiceParams) *Service {
	s := &Service{
		catalog:      params.Catalog,
		store:        params.Store,
		statsCache:   params.StatsCache,
		uploader:     params.Uploader,
		metrics:      params.Metrics,
		storeTimeout: params.StoreTimeout,
		loc:          params.Location,
		now:          params.Now,
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewTestManager()
	}
	if s.storeTimeout <= 0 {
		s.storeTimeout = 5 * time.Second
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Today is the current calendar day in the configured location.
func (s *Service) Today() workout.Date {
	return workout.DateOf(s.now().In(s.loc))
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// storeErr marks err as a store failure, leaving not found untouched.
func storeErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
}

func (s *Service) checkExercise(exerciseKey string) error {
	if !s.catalog.Has(exerciseKey) {
		return fmt.Errorf("%w: %s", ErrUnknownExercise, exerciseKey)
	}
	return nil
}
