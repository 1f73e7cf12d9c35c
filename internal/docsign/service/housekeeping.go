package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexvault/docsign/internal/docsign/store"
)

// HousekeepingService periodically deletes expired registration codes and
// login sessions. Read paths already filter by expiry, so this is hygiene
// against unbounded table growth, not a correctness mechanism.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background sweep loop. Non-blocking; call Stop to shut
// it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts down the worker and blocks until any in-progress sweep
// finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// First sweep right away so restarts do not postpone cleanup.
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

// sweep deletes expired records. Each deletion is independent; a failure in
// one does not stop the others.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.Store.RegistrationCodes().DeleteExpiredCodes(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired registration codes", "error", err)
	}

	if err := s.Store.LoginSessions().DeleteExpiredSessions(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired login sessions", "error", err)
	}

	s.Logger.Debug("housekeeping sweep completed")
}
