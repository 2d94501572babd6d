package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingService periodically sweeps the sessions table: sessions
// past their deadline are marked expired (so housekeeping and the lazy
// expiry in validation agree), and terminal sessions past the retention
// window are deleted to bound table growth.
type HousekeepingService struct {
	Store     sessionSweeper
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

type sessionSweeper interface {
	ExpireSessionsBefore(ctx context.Context, now time.Time) error
	DeleteTerminalSessionsBefore(ctx context.Context, cutoff time.Time) error
}

// NewHousekeepingService creates a housekeeping service. Interval
// defaults to 1 hour and retention to 7 days when unset.
func NewHousekeepingService(store sessionSweeper, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut
// it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop gracefully shuts down the background worker. Blocks until any
// in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a sweep immediately on startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep performs one pass. The two steps are independent; a failure in
// one does not stop the other.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.Store.ExpireSessionsBefore(ctx, now); err != nil {
		s.Logger.Error("failed to expire overdue sessions", "error", err)
	}

	cutoff := now.Add(-s.Retention)
	if err := s.Store.DeleteTerminalSessionsBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete retired sessions", "error", err)
	}

	s.Logger.Debug("housekeeping sweep completed")
}
