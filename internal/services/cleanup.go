package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultCleanupInterval is how often the scheduler sweeps expired sessions.
const DefaultCleanupInterval = 10 * time.Minute

// CleanupScheduler periodically sweeps a SessionStore. It only runs between
// Start and Stop; Sweep can always be called directly as well.
type CleanupScheduler struct {
	store    *SessionStore
	interval time.Duration
	logger   *logrus.Logger
	now      func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewCleanupScheduler creates a scheduler. A non-positive interval means DefaultCleanupInterval.
func NewCleanupScheduler(store *SessionStore, interval time.Duration, logger *logrus.Logger) *CleanupScheduler {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CleanupScheduler{
		store:    store,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins the periodic sweep.
func (c *CleanupScheduler) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.run(runCtx, c.done)
}

// Stop halts the sweep and waits for the goroutine to exit.
func (c *CleanupScheduler) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	<-done
}

// IsRunning returns whether the scheduler is currently running.
func (c *CleanupScheduler) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// RunOnce sweeps immediately and returns the number of sessions removed.
func (c *CleanupScheduler) RunOnce() int {
	start := c.now()
	removed := c.store.Sweep(start)

	entry := c.logger.WithFields(logrus.Fields{
		"component": "session.cleanup",
		"removed":   removed,
		"remaining": c.store.Count(),
		"duration":  time.Since(start),
	})
	if removed > 0 {
		entry.Info("Cleaned up expired sessions")
	} else {
		entry.Debug("No expired sessions")
	}
	return removed
}

func (c *CleanupScheduler) run(ctx context.Context, done chan struct{}) {
	defer func() {
		c.mu.Lock()
		c.running = false
		close(done)
		c.mu.Unlock()
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.WithField("component", "session.cleanup").Info("Cleanup scheduler stopping")
			return
		case <-ticker.C:
			c.RunOnce()
		}
	}
}
