package main

import (
	"context"
	"time"

	"DonorLane/internal/biz"
	"DonorLane/internal/conf"
	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/robfig/cron/v3"
)

const defaultBaselineTimeout = 2 * time.Minute

var _ transport.Server = (*scheduler)(nil)

// scheduler 运行审计基线任务，作为 kratos 的一个 Server 随应用启停
type scheduler struct {
	cron    *cron.Cron
	task    *biz.BaselineTask
	jobs    *conf.Jobs
	timeout time.Duration
	logger  *pkglog.LogHelper
}

func newScheduler(jobs *conf.Jobs, task *biz.BaselineTask, logger log.Logger) *scheduler {
	if jobs == nil {
		jobs = &conf.Jobs{}
	}
	timeout := defaultBaselineTimeout
	if jobs.BaselineTimeout != nil && jobs.BaselineTimeout.AsDuration() > 0 {
		timeout = jobs.BaselineTimeout.AsDuration()
	}
	return &scheduler{
		cron:    cron.New(cron.WithSeconds()),
		task:    task,
		jobs:    jobs,
		timeout: timeout,
		logger:  pkglog.NewLogHelper(logger),
	}
}

// Start seeds the audit trail when enabled and starts the baseline job.
// A failed seed is logged and does not stop the service.
func (s *scheduler) Start(ctx context.Context) error {
	if s.jobs.SeedOnStartup {
		seedCtx, cancel := context.WithTimeout(ctx, s.timeout)
		seeded, err := s.task.SeedIfEmpty(seedCtx)
		cancel()
		if err != nil {
			s.logger.Errorw("msg", "audit baseline seeding failed", "error", err)
		} else if seeded {
			s.logger.Scheduler("audit baseline seeded")
		}
	}

	if s.jobs.BaselineSpec == "" {
		s.logger.Scheduler("donor baseline job disabled")
		return nil
	}

	// Cron 表达式带秒位（秒 分 时 日 月 周）
	if _, err := s.cron.AddFunc(s.jobs.BaselineSpec, s.runBaseline); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Scheduler("donor baseline job started", "spec", s.jobs.BaselineSpec)
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	s.logger.Scheduler("scheduler stopped")
	return nil
}

func (s *scheduler) runBaseline() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.task.RecordDonorBaseline(ctx); err != nil {
		s.logger.Errorw("msg", "donor baseline job failed", "error", err)
		return
	}
	s.logger.Scheduler("donor baseline job completed", "duration_ms", time.Since(start).Milliseconds())
}
