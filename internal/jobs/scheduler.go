// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"

	"ticwallet/internal/logger"
	"ticwallet/internal/metrics"

	"github.com/robfig/cron/v3"
)

const (
	expirySpec     = "@every 15m"
	queueGaugeSpec = "@every 30s"
)

type DepositExpirer interface {
	ExpireStaleDeposits(ctx context.Context) (int64, error)
}

type QueueMeter interface {
	QueueLength(ctx context.Context) int64
}

type Scheduler struct {
	cron     *cron.Cron
	deposits DepositExpirer
	queue    QueueMeter
}

func NewScheduler(deposits DepositExpirer, queue QueueMeter) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		deposits: deposits,
		queue:    queue,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(expirySpec, func() { s.expireDeposits(ctx) }); err != nil {
		return err
	}
	if s.queue != nil {
		if _, err := s.cron.AddFunc(queueGaugeSpec, func() { s.reportQueue(ctx) }); err != nil {
			return err
		}
	}

	s.cron.Start()
	logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

func (s *Scheduler) expireDeposits(ctx context.Context) {
	if _, err := s.deposits.ExpireStaleDeposits(ctx); err != nil {
		logger.Error("deposit expiry failed", "error", err)
	}
}

func (s *Scheduler) reportQueue(ctx context.Context) {
	metrics.SetNotificationQueueLength(s.queue.QueueLength(ctx))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("scheduler stopped")
}
