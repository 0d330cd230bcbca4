package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cocinamqb/stockdiario/internal/clock"
	countdomain "github.com/cocinamqb/stockdiario/internal/count/domain"
	obsmetrics "github.com/cocinamqb/stockdiario/internal/observability/metrics"
	shortagedomain "github.com/cocinamqb/stockdiario/internal/shortage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler requires db, logger, clock and services")

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	CountSvc    countdomain.Service
	ShortageSvc shortagedomain.Service
	Config      Config `optional:"true"`
}

type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	countSvc    countdomain.Service
	shortageSvc shortagedomain.Service
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.CountSvc == nil || p.ShortageSvc == nil {
		return nil, ErrInvalidConfig
	}
	cfg := p.Config.withDefaults()
	return &Scheduler{
		log:         p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:         cfg,
		clock:       p.Clock,
		countSvc:    p.CountSvc,
		shortageSvc: p.ShortageSvc,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	jobMetrics := obsmetrics.Jobs()
	jobMetrics.IncJobRun(name)

	err := fn(ctx)
	jobMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		jobMetrics.IncJobTimeout(name)
	}
	jobMetrics.IncJobError(name, err)
	if isTimeout {
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name    string
		Enabled bool
		Run     func(context.Context) error
	}{
		{"shortage_reconcile", s.isJobEnabled("shortage_reconcile"), func(ctx context.Context) error {
			return s.runJob(ctx, "shortage_reconcile", s.cfg.JobTimeout, s.ShortageReconcileJob)
		}},
	}

	for _, job := range jobs {
		if job.Enabled {
			err = errors.Join(err, job.Run(parent))
		}
	}

	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// An empty EnabledJobs list enables every job.
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// ShortageReconcileJob re-derives automatic shortage records from the live
// final count. Reconcile is idempotent, so a run that repeats work another
// writer already did converges on the same rows. This is the self-heal path
// after a finalize run that failed between writing shortages and clearing
// the day.
func (s *Scheduler) ShortageReconcileJob(ctx context.Context) error {
	today := clock.DateKey(s.clock.Now())

	entries, err := s.countSvc.List(ctx, countdomain.ListRequest{
		Phase: countdomain.PhaseFinal,
		Date:  today,
	})
	if err != nil {
		return fmt.Errorf("list final count: %w", err)
	}

	reconcile := make([]shortagedomain.ReconcileEntry, 0, len(entries))
	for _, entry := range entries {
		reconcile = append(reconcile, shortagedomain.ReconcileEntry{
			Name:     entry.Name,
			Code:     entry.Code,
			Category: entry.Category,
			Quantity: entry.Quantity,
			Unit:     entry.Unit,
		})
	}

	result, err := s.shortageSvc.Reconcile(ctx, today, reconcile)
	if err != nil {
		return fmt.Errorf("reconcile shortages: %w", err)
	}
	if !result.Empty() {
		s.log.Info("shortage reconcile applied changes",
			zap.String("date", today),
			zap.Int("created", len(result.Created)),
			zap.Int("updated", len(result.Updated)),
			zap.Int("deleted", len(result.Deleted)),
		)
	}
	return nil
}
