package reminder

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier only writes notifications to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) error {
	log.Infof("notification [%s]: %s | %s", n.Kind, n.Title, n.Body)
	return nil
}

// MultiNotifier delivers to every notifier and combines their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, n Notification) error {
	var err error
	for _, notifier := range m {
		err = multierr.Append(err, notifier.Notify(ctx, n))
	}
	return err
}
