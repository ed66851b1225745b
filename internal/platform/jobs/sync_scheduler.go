package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/middleware"
)

// SyncScheduler periodically re-syncs every synced account in the background.
type SyncScheduler struct {
	syncService portssvc.SyncSvcFacade
	interval    time.Duration
	logger      *slog.Logger
	stop        chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
}

// NewSyncScheduler creates a scheduler. A non-positive interval disables it.
func NewSyncScheduler(syncService portssvc.SyncSvcFacade, interval time.Duration, logger *slog.Logger) *SyncScheduler {
	return &SyncScheduler{
		syncService: syncService,
		interval:    interval,
		logger:      logger,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the background loop. The first pass runs one interval after
// startup, not immediately, so a crash-looping process doesn't hammer the
// aggregator.
func (s *SyncScheduler) Start() {
	if s.interval <= 0 {
		s.logger.Info("Background sync disabled")
		close(s.done)
		return
	}

	go s.run()
	s.logger.Info("Background sync scheduler started", slog.Duration("interval", s.interval))
}

func (s *SyncScheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncOnce()
		case <-s.stop:
			return
		}
	}
}

func (s *SyncScheduler) syncOnce() {
	jobLogger := s.logger.With(slog.String("job", "account_sync"))
	ctx := middleware.ContextWithLogger(context.Background(), jobLogger)

	reports, err := s.syncService.SyncAllAccounts(ctx)
	if err != nil {
		jobLogger.Error("Background sync pass failed", slog.String("error", err.Error()))
		return
	}

	total := 0
	for _, report := range reports {
		total += report.Added + report.Updated
	}
	jobLogger.Info("Background sync pass finished",
		slog.Int("accounts", len(reports)),
		slog.Int("rowsChanged", total),
	)
}

// Stop signals the loop to exit and waits for the in-flight pass to finish.
// Safe to call more than once.
func (s *SyncScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}
