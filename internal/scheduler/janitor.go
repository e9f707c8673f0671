package scheduler

import (
	"context"
	"time"

	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/media"
	"github.com/quillcms/console/internal/notify"
)

// DefaultJanitorMaxAge is how long undelivered notifications and terminal
// upload progress entries are kept before the janitor drops them.
const DefaultJanitorMaxAge = 24 * time.Hour

// Janitor periodically prunes state that only matters while an operator is
// looking at it: stale notifications and finished upload progress.
type Janitor struct {
	center   *notify.Center
	tracker  *media.Tracker
	logger   logger.Logger
	interval time.Duration
	maxAge   time.Duration
	stopCh   chan struct{}
}

// NewJanitor creates a new janitor
func NewJanitor(
	center *notify.Center,
	tracker *media.Tracker,
	log logger.Logger,
	interval time.Duration,
	maxAge time.Duration,
) *Janitor {
	if maxAge == 0 {
		maxAge = DefaultJanitorMaxAge
	}
	return &Janitor{
		center:   center,
		tracker:  tracker,
		logger:   log,
		interval: interval,
		maxAge:   maxAge,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (j *Janitor) Start(ctx context.Context) error {
	j.Sweep()

	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.Sweep()
			case <-j.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the janitor
func (j *Janitor) Stop() {
	close(j.stopCh)
}

// Sweep runs one pruning pass.
func (j *Janitor) Sweep() {
	notifications := j.center.PruneOlderThan(j.maxAge)
	uploads := j.tracker.PruneOlderThan(j.maxAge)
	if notifications > 0 || uploads > 0 {
		j.logger.Info("janitor sweep",
			logger.Int("notifications_pruned", notifications),
			logger.Int("uploads_pruned", uploads))
	}
}
