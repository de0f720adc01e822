package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/techacademialendaria/lendarios-access/internal/access/store"
)

// HousekeepingService periodically deletes stale database records. Expired
// invites are kept for a retention window so the Ops screens can still show
// "expired" rows before they disappear.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// InviteRetention is how long an expired invite stays visible before
	// deletion.
	InviteRetention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A zero or negative
// interval defaults to 1 hour; a zero or negative retention defaults to 30
// days.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	return &HousekeepingService{
		Store:           st,
		Logger:          logger,
		Interval:        interval,
		InviteRetention: retention,
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut the
// worker down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker. Blocks until any in-progress
// cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes stale records. Each deletion is independent; a failure in
// one does not stop the others.
func (s *HousekeepingService) Cleanup() {
	ctx := context.Background()
	s.Logger.Info("starting housekeeping cleanup")

	cutoff := time.Now().UTC().Add(-s.InviteRetention)
	if err := s.Store.Invites().DeleteInvitesExpiredBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete expired invites", "error", err)
	} else {
		s.Logger.Debug("deleted expired invites", "cutoff", cutoff)
	}

	if err := s.Store.Grants().DeleteExpiredGrants(ctx); err != nil {
		s.Logger.Error("failed to delete expired grants", "error", err)
	} else {
		s.Logger.Debug("deleted expired grants")
	}

	s.Logger.Info("housekeeping cleanup completed")
}
