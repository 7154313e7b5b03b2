package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/calisthenics/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=scheduler_mocks_test.go -package=reminder

// CheckSpec runs the due check every hour at half past.
const CheckSpec = "30 * * * *"

type notificationSource interface {
	DueNotifications(ctx context.Context, now time.Time) ([]Notification, error)
}

// Scheduler periodically asks the source what is due and delivers it.
type Scheduler struct {
	cron     *cron.Cron
	source   notificationSource
	notifier Notifier
	timeout  time.Duration
	now      func() time.Time
}

func NewScheduler(source notificationSource, notifier Notifier, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		source:   source,
		notifier: notifier,
		timeout:  30 * time.Second,
		now: func() time.Time {
			return time.Now().In(loc)
		},
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(CheckSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.RunOnce(ctx, s.now()); err != nil {
			log.Errorf("reminder scheduler: %s", err)
		}
	}); err != nil {
		return fmt.Errorf("add reminder job: %w", err)
	}
	s.cron.Start()
	log.Debugf("reminder scheduler started [%s]", CheckSpec)
	return nil
}

// Stop waits for a running check to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Debugln("reminder scheduler stopped")
}

// RunOnce delivers everything due at now. Delivery continues past a failed
// notification; the last error is returned.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "reminder.scheduler.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	due, err := s.source.DueNotifications(ctx, now)
	if err != nil {
		return fmt.Errorf("due notifications: %w", err)
	}

	for _, n := range due {
		if notifyErr := s.notifier.Notify(ctx, n); notifyErr != nil {
			log.Errorf("deliver notification [%s]: %s", n.Kind, notifyErr)
			err = notifyErr
		}
	}
	return err
}
