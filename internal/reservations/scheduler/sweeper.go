// Package scheduler runs the periodic completion sweep that moves confirmed
// reservations past their end time to completed.
package scheduler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"courtbook/pkg/logger"
	"courtbook/pkg/metrics"
)

const jobName = "reservation_completion_sweep"

var ErrEmptyCronExpr = errors.New("cron expression is required")

// Completer is the part of the reservation service the sweep needs.
type Completer interface {
	CompleteElapsed(ctx context.Context) (int, error)
}

type Sweeper struct {
	scheduler gocron.Scheduler
	completer Completer
	timeout   time.Duration
	log       *logger.Logger
}

// NewSweeper registers the sweep under cronExpr. A run still in progress when
// the next tick fires makes that tick skip.
func NewSweeper(completer Completer, cronExpr string, timeout time.Duration, log *logger.Logger) (*Sweeper, error) {
	if strings.TrimSpace(cronExpr) == "" {
		return nil, ErrEmptyCronExpr
	}
	log = log.With("job_name", jobName, "cron", cronExpr)

	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error("Scheduler job panicked", "job_id", jobID.String(), "panic", recoverData)
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	s := &Sweeper{
		scheduler: sched,
		completer: completer,
		timeout:   timeout,
		log:       log,
	}

	_, err = sched.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(s.tick),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		log.Error("Failed to register scheduler job", "error", err)
		return nil, err
	}
	log.Info("Scheduler job registered")
	return s, nil
}

func (s *Sweeper) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error("Completion sweep failed", "error", err)
	}
}

// RunOnce performs a single sweep and reports how many reservations moved.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	n, err := s.completer.CompleteElapsed(ctx)
	metrics.RecordSweep(n)
	if n > 0 {
		s.log.Info("Completion sweep finished", "completed", n)
	}
	return n, err
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	s.log.Info("Scheduler starting")
	s.scheduler.Start()

	<-ctx.Done()

	s.log.Info("Scheduler stopping")
	return s.scheduler.Shutdown()
}
