package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RefreshFunc recomputes the aggregation views from the signal collection
type RefreshFunc func(ctx context.Context) error

// Poller re-runs the stats aggregation on a fixed interval. The dashboard
// clients poll their own caches; this keeps the server-side gauges and any
// cached snapshot aligned with the database between push notifications.
type Poller struct {
	cron      *cron.Cron
	refresh   RefreshFunc
	interval  time.Duration
	logger    *logrus.Entry
	mu        sync.RWMutex
	isRunning bool
	jobID     cron.EntryID
}

// NewPoller creates a stats refresh poller
func NewPoller(intervalSeconds int, refresh RefreshFunc, logger *logrus.Entry) *Poller {
	if intervalSeconds < 5 {
		intervalSeconds = 5
	}

	return &Poller{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		refresh:  refresh,
		interval: time.Duration(intervalSeconds) * time.Second,
		logger:   logger,
	}
}

// Start schedules the refresh job and starts the poller
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("poller is already running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.interval)
		defer cancel()

		if err := p.refresh(ctx); err != nil {
			p.logger.WithError(err).Error("Stats refresh failed")
		}
	}

	jobID, err := p.cron.AddFunc(fmt.Sprintf("@every %ds", int(p.interval.Seconds())), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	p.jobID = jobID
	p.cron.Start()
	p.isRunning = true
	p.logger.WithField("interval", p.interval).Info("Stats poller started")

	return nil
}

// Stop gracefully stops the poller, waiting for a running refresh to finish
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}

	<-p.cron.Stop().Done()
	p.isRunning = false
	p.logger.Info("Stats poller stopped")
}

// IsRunning returns whether the poller is currently running
func (p *Poller) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}

// NextRun returns the time of the next scheduled refresh
func (p *Poller) NextRun() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.isRunning {
		return time.Time{}
	}

	entry := p.cron.Entry(p.jobID)
	if !entry.Valid() {
		return time.Time{}
	}
	return entry.Next
}
