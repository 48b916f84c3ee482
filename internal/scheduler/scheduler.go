package scheduler

import (
	"context"
	"time"

	"finman/internal/service"

	"go.uber.org/zap"
)

// Scheduler drives the daily maintenance jobs: materializing due recurring
// transactions, resetting the currency-change quotas and refreshing the
// exchange-rate tables. It wakes on a short interval and fires once per
// calendar day.
type Scheduler struct {
	recurrence    *service.RecurrenceService
	currency      *service.CurrencyService
	limiter       *service.RateLimiter
	baseCurrency  string
	checkInterval time.Duration
	logger        *zap.Logger

	lastRun time.Time
}

func New(
	recurrence *service.RecurrenceService,
	currency *service.CurrencyService,
	limiter *service.RateLimiter,
	baseCurrency string,
	checkInterval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		recurrence:    recurrence,
		currency:      currency,
		limiter:       limiter,
		baseCurrency:  baseCurrency,
		checkInterval: checkInterval,
		logger:        logger,
	}
}

// Start blocks until ctx is cancelled. The daily jobs run on the first tick
// of each new calendar day, so a process started mid-day still runs them
// the following midnight.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started",
		zap.Duration("check_interval", s.checkInterval),
	)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Anchor to the current day so startup does not rerun today's jobs.
	s.lastRun = time.Now()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case now := <-ticker.C:
			if sameDay(s.lastRun, now) {
				continue
			}
			s.runDailyJobs(ctx, now)
			s.lastRun = now
		}
	}
}

func (s *Scheduler) runDailyJobs(ctx context.Context, now time.Time) {
	s.logger.Info("Running daily jobs", zap.Time("now", now))

	advanced := s.recurrence.AdvanceDue(ctx, now)
	s.logger.Info("Recurring transactions advanced", zap.Int("count", advanced))

	s.limiter.Reset()
	s.currency.InvalidateRateCache()

	if err := s.currency.FetchAndSaveCurrencies(ctx, s.baseCurrency); err != nil {
		s.logger.Error("Currency refresh failed, retrying next run", zap.Error(err))
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
