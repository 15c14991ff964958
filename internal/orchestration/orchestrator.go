package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/logging"
	"github.com/agbru/rangesum/internal/partition"
	"github.com/agbru/rangesum/internal/progress"
	"github.com/agbru/rangesum/internal/worker"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the number of updates dropped when the UI
// is slow to consume them.
const ProgressBufferMultiplier = 5

const tracerName = "github.com/agbru/rangesum/internal/orchestration"

// Report is the aggregate outcome of a run.
type Report struct {
	TotalSum    uint64
	Mean        float64
	Elapsed     time.Duration
	WorkerCount int
	DataSize    uint64
	Policy      partition.Policy
	Covered     uint64
	Dropped     uint64
	// Partials is ordered by worker index.
	Partials []worker.PartialResult
}

// Coordinator runs a Plan: it owns the fan-out, the join and the aggregation.
type Coordinator struct {
	logger   logging.Logger
	observer WorkerObserver
	tracer   trace.Tracer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for run and worker lifecycle events.
func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithObserver registers an observer notified of worker and run completion.
func WithObserver(o WorkerObserver) Option {
	return func(c *Coordinator) { c.observer = o }
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) { c.tracer = t }
}

// NewCoordinator creates a Coordinator. Without options it logs nothing and
// uses the global otel tracer provider, which is a no-op unless the host
// program installs one.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		logger: logging.NewZerologAdapter(zerolog.Nop()),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run partitions the plan's data range, executes one worker per range and
// aggregates the partial sums. Elapsed time is measured from just before the
// workers are spawned until aggregation completes.
//
// If any worker fails the remaining workers are canceled and Run returns the
// first error, with no partial aggregate.
func (c *Coordinator) Run(ctx context.Context, plan Plan, reporter ProgressReporter, out io.Writer) (Report, error) {
	if plan.Workers <= 0 {
		return Report{}, apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("must be positive, got %d", plan.Workers)}
	}
	if plan.DataSize > worker.MaxDataSize {
		return Report{}, apperrors.ValidationError{Field: "size", Message: fmt.Sprintf("must not exceed %d", worker.MaxDataSize)}
	}
	if reporter == nil {
		reporter = NullProgressReporter{}
	}

	ranges := plan.Ranges()
	if dropped := partition.Dropped(plan.DataSize, ranges); dropped > 0 {
		c.logger.Warn("remainder not summed",
			logging.Uint64("dropped", dropped),
			logging.Uint64("data_size", plan.DataSize),
			logging.Int("workers", plan.Workers))
	}

	ctx, span := c.tracer.Start(ctx, "rangesum.run", trace.WithAttributes(
		attribute.Int64("rangesum.data_size", int64(plan.DataSize)),
		attribute.Int("rangesum.workers", plan.Workers),
		attribute.String("rangesum.remainder", plan.Policy.String()),
	))
	defer span.End()

	c.logger.Debug("spawning workers",
		logging.Int("workers", plan.Workers),
		logging.Uint64("chunk_size", partition.ChunkSize(plan.DataSize, plan.Workers)))

	start := time.Now()
	partials, err := c.ExecuteWorkers(ctx, ranges, reporter, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !apperrors.IsContextError(err) {
			c.logger.Error("run failed", err)
		}
		return Report{}, err
	}
	report := Aggregate(plan, partials)
	report.Elapsed = time.Since(start)

	span.SetAttributes(attribute.Float64("rangesum.mean", report.Mean))
	c.logger.Info("run complete",
		logging.Uint64("total_sum", report.TotalSum),
		logging.Float64("mean", report.Mean),
		logging.Duration("elapsed", report.Elapsed))
	if c.observer != nil {
		c.observer.RunDone(report)
	}
	return report, nil
}

// ExecuteWorkers runs one worker per range concurrently and joins them all.
// Each worker writes only its own slot of the result slice, so no locking is
// needed and results come back in index order regardless of completion order.
//
// The progress channel is closed once every worker has returned, and
// ExecuteWorkers waits for the reporter to finish before returning.
func (c *Coordinator) ExecuteWorkers(ctx context.Context, ranges []partition.WorkRange, reporter ProgressReporter, out io.Writer) ([]worker.PartialResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]worker.PartialResult, len(ranges))
	progressChan := make(chan progress.ProgressUpdate, len(ranges)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(ranges), out)

	for i, r := range ranges {
		g.Go(func() error {
			wctx, span := c.tracer.Start(ctx, "rangesum.worker", trace.WithAttributes(
				attribute.Int("rangesum.worker.index", i),
				attribute.Int64("rangesum.worker.start", int64(r.Start)),
				attribute.Int64("rangesum.worker.end", int64(r.End)),
			))
			defer span.End()

			c.logger.Debug("worker started", logging.Int("worker", i), logging.String("range", r.String()))
			res, err := worker.Run(wctx, i, r, progress.ChannelCallback(progressChan, i))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			results[i] = res
			c.logger.Debug("worker finished",
				logging.Int("worker", i),
				logging.Uint64("partial_sum", res.Sum),
				logging.Duration("duration", res.Duration))
			if c.observer != nil {
				c.observer.WorkerDone(res)
			}
			return nil
		})
	}

	err := g.Wait()
	close(progressChan)
	displayWg.Wait()

	if err != nil {
		return nil, err
	}
	return results, nil
}

// Aggregate folds the partial results into a Report. The mean divides by the
// plan's data size even when the remainder policy left elements unsummed.
// Elapsed is left for the caller to fill in.
func Aggregate(plan Plan, partials []worker.PartialResult) Report {
	report := Report{
		WorkerCount: plan.Workers,
		DataSize:    plan.DataSize,
		Policy:      plan.Policy,
		Partials:    partials,
	}
	for _, p := range partials {
		report.TotalSum += p.Sum
		report.Covered += p.Range.Len()
	}
	report.Dropped = plan.DataSize - report.Covered
	if plan.DataSize > 0 {
		report.Mean = float64(report.TotalSum) / float64(plan.DataSize)
	}
	return report
}

// VerifyReport checks every partial sum, and the total, against the closed
// form for the ranges they cover. All mismatches are returned joined.
func VerifyReport(report Report) error {
	var errs []error
	for _, p := range report.Partials {
		if err := worker.Verify(p); err != nil {
			errs = append(errs, err)
		}
	}
	want, ok := worker.ClosedFormSum(partition.WorkRange{Start: 0, End: report.Covered})
	if !ok || want != report.TotalSum {
		errs = append(errs, apperrors.MismatchError{Index: -1, Got: report.TotalSum, Expected: want})
	}
	return errors.Join(errs...)
}
