package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ErlanBelekov/voltforge-storefront/internal/metrics"
)

type namespacePurger interface {
	PurgeIdle(ctx context.Context, before time.Time) (int, error)
}

type layoutForgetter interface {
	Forget(before time.Time) int
}

// Janitor removes client state that has gone idle: stored namespaces after
// namespaceTTL and cached UI layouts after layoutTTL. It runs on a cron
// schedule.
type Janitor struct {
	store        namespacePurger
	layouts      layoutForgetter
	schedule     cron.Schedule
	namespaceTTL time.Duration
	layoutTTL    time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

func NewJanitor(store namespacePurger, layouts layoutForgetter, expr string, namespaceTTL, layoutTTL time.Duration, logger *slog.Logger) (*Janitor, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse janitor schedule %q: %w", expr, err)
	}
	return &Janitor{
		store:        store,
		layouts:      layouts,
		schedule:     sched,
		namespaceTTL: namespaceTTL,
		layoutTTL:    layoutTTL,
		logger:       logger.With("component", "janitor"),
		now:          time.Now,
	}, nil
}

// Start blocks until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	next := j.next(j.now())
	j.logger.Info("janitor started", "next_run", next)

	for {
		timer := time.NewTimer(next.Sub(j.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			j.logger.Info("janitor shut down")
			return
		case <-timer.C:
			j.RunOnce(ctx)
			next = j.next(next)
		}
	}
}

// next returns the first run after prev that is still in the future,
// skipping runs missed while a previous run was slow.
func (j *Janitor) next(prev time.Time) time.Time {
	next := j.schedule.Next(prev)
	now := j.now()
	for next.Before(now) {
		next = j.schedule.Next(next)
	}
	return next
}

func (j *Janitor) RunOnce(ctx context.Context) {
	start := j.now()
	defer func() {
		metrics.JanitorRunDuration.Observe(time.Since(start).Seconds())
	}()

	purged, err := j.store.PurgeIdle(ctx, start.Add(-j.namespaceTTL))
	if err != nil {
		j.logger.ErrorContext(ctx, "purge idle namespaces", "error", err)
	} else if purged > 0 {
		metrics.JanitorPurgedTotal.WithLabelValues("namespace").Add(float64(purged))
		j.logger.InfoContext(ctx, "purged idle namespaces", "count", purged)
	}

	if forgotten := j.layouts.Forget(start.Add(-j.layoutTTL)); forgotten > 0 {
		metrics.JanitorPurgedTotal.WithLabelValues("layout").Add(float64(forgotten))
		j.logger.InfoContext(ctx, "dropped idle layouts", "count", forgotten)
	}
}
