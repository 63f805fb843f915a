package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"savings/internal/amqp"
	"savings/internal/core"
	"savings/internal/log"
)

type (
	// ReportSource builds the financial report for one owner, or for
	// everyone when userID is nil.
	ReportSource interface {
		GetFinancialDataForAI(ctx context.Context, userID *int64, months int) (core.FinancialReport, error)
	}

	UserLister interface {
		FindAll(ctx context.Context) ([]core.User, error)
	}

	ReportPublisher interface {
		PublishFinancialReport(ctx context.Context, msg *amqp.AdvisoryReportMessage) error
	}
)

// AdvisoryWorker periodically ships every owner's financial report to the
// advisory consumer.
type AdvisoryWorker struct {
	reports     ReportSource
	users       UserLister
	publisher   ReportPublisher
	months      int
	concurrency int
}

func NewAdvisoryWorker(reports ReportSource, users UserLister, publisher ReportPublisher, months, concurrency int) *AdvisoryWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AdvisoryWorker{
		reports:     reports,
		users:       users,
		publisher:   publisher,
		months:      months,
		concurrency: concurrency,
	}
}

// PublishAll builds and publishes one report per registered user, or a single
// report over all goals when no users exist. At most concurrency reports are
// in flight; the first failure cancels the rest and is returned.
func (w *AdvisoryWorker) PublishAll(ctx context.Context) (int, error) {
	users, err := w.users.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	owners := make([]*int64, 0, len(users))
	for _, u := range users {
		id := u.ID
		owners = append(owners, &id)
	}
	if len(owners) == 0 {
		owners = append(owners, nil)
	}

	var published atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for _, owner := range owners {
		owner := owner
		g.Go(func() error {
			if err := w.publishOne(gctx, owner); err != nil {
				return err
			}
			published.Add(1)
			return nil
		})
	}

	err = g.Wait()
	return int(published.Load()), err
}

func (w *AdvisoryWorker) publishOne(ctx context.Context, owner *int64) error {
	report, err := w.reports.GetFinancialDataForAI(ctx, owner, w.months)
	if err != nil {
		return fmt.Errorf("build report for %s: %w", ownerLabel(owner), err)
	}

	if err := w.publisher.PublishFinancialReport(ctx, amqp.NewAdvisoryReportMessage(owner, report)); err != nil {
		return fmt.Errorf("publish report for %s: %w", ownerLabel(owner), err)
	}
	return nil
}

// Run publishes immediately and then on every tick until ctx is done.
// Failed rounds are logged and retried on the next tick.
func (w *AdvisoryWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		w.round(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *AdvisoryWorker) round(ctx context.Context) {
	start := time.Now()
	n, err := w.PublishAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.ErrorContext(ctx, "Advisory publish round failed",
			log.NewFields().WithOperation(log.OpPublish).WithError(err).ToSlice()...)
		return
	}
	slog.InfoContext(ctx, "Advisory publish round completed",
		log.FieldPublished, n,
		log.FieldMonths, w.months,
		log.FieldDuration, time.Since(start).Milliseconds())
}

func ownerLabel(owner *int64) string {
	if owner == nil {
		return "all owners"
	}
	return fmt.Sprintf("user %d", *owner)
}
