// Package stats reduces completed tasks into per-priority completion-time
// statistics.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dmehra2102/todotracker/internal/domain"
)

const DefaultBatchSize = 100

var (
	aggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "task_statistics_duration_seconds",
			Help:    "Histogram of statistics aggregation durations",
			Buckets: prometheus.DefBuckets,
		},
	)

	tasksScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_statistics_scanned_total",
			Help: "Total number of done tasks read by statistics aggregation",
		},
		[]string{"outcome"},
	)
)

type Aggregator struct {
	finder    domain.TaskFinder
	batchSize int
	logger    *zap.Logger
	tracer    trace.Tracer
}

func NewAggregator(finder domain.TaskFinder, batchSize int, logger *zap.Logger) *Aggregator {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Aggregator{
		finder:    finder,
		batchSize: batchSize,
		logger:    logger,
		tracer:    otel.Tracer("statistics-aggregator"),
	}
}

// bucket accumulates one priority class (or the overall total).
type bucket struct {
	count   int64
	seconds int64
}

func (b *bucket) add(elapsed int64) {
	b.count++
	b.seconds += elapsed
}

// average formats the mean duration as MM:SS, or "" for an empty bucket.
func (b bucket) average() string {
	if b.count == 0 {
		return ""
	}
	return formatAverage(b.seconds / b.count)
}

type accumulator struct {
	total  bucket
	low    bucket
	medium bucket
	high   bucket
}

// Aggregate pages through every done task and reduces it. The accumulator
// lives for this call only; store errors abort the run.
func (a *Aggregator) Aggregate(ctx context.Context) (*domain.Statistics, error) {
	ctx, span := a.tracer.Start(ctx, "stats.Aggregate")
	defer span.End()

	start := time.Now()
	done := true
	req := &domain.FilterRequest{
		Filter:   domain.TaskFilter{Done: &done},
		PageSize: a.batchSize,
	}

	var acc accumulator
	pages := 0

	for {
		page, err := a.finder.FindByFilter(ctx, req)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to fetch done tasks page %d: %w", req.PageIndex, err)
		}
		pages++

		for _, task := range page.Items {
			a.accumulate(&acc, task)
		}

		if !page.HasNext || len(page.Items) == 0 {
			break
		}
		req.PageIndex++
	}

	elapsed := time.Since(start)
	aggregationDuration.Observe(elapsed.Seconds())

	span.SetAttributes(
		attribute.Int64("total_done", acc.total.count),
		attribute.Int("pages", pages),
	)
	a.logger.Debug("statistics aggregated",
		zap.Int64("total_done", acc.total.count),
		zap.Int("pages", pages),
		zap.Duration("duration", elapsed),
	)

	return &domain.Statistics{
		TotalDone:             acc.total.count,
		TotalLowDone:          acc.low.count,
		TotalMediumDone:       acc.medium.count,
		TotalHighDone:         acc.high.count,
		AverageDoneTime:       acc.total.average(),
		AverageLowDoneTime:    acc.low.average(),
		AverageMediumDoneTime: acc.medium.average(),
		AverageHighDoneTime:   acc.high.average(),
	}, nil
}

func (a *Aggregator) accumulate(acc *accumulator, task *domain.Task) {
	if task.DoneAt == nil || task.CreatedAt.IsZero() {
		tasksScanned.WithLabelValues("skipped").Inc()
		a.logger.Warn("skipping done task with missing timestamps", zap.String("task_id", task.ID))
		return
	}

	var b *bucket
	switch task.Priority {
	case domain.PriorityLow:
		b = &acc.low
	case domain.PriorityMedium:
		b = &acc.medium
	case domain.PriorityHigh:
		b = &acc.high
	default:
		tasksScanned.WithLabelValues("skipped").Inc()
		a.logger.Warn("skipping done task with unknown priority",
			zap.String("task_id", task.ID),
			zap.Int("priority", int(task.Priority)),
		)
		return
	}

	// epoch-second subtraction keeps results independent of zone offsets
	elapsed := task.DoneAt.Unix() - task.CreatedAt.Unix()

	acc.total.add(elapsed)
	b.add(elapsed)
	tasksScanned.WithLabelValues("counted").Inc()
}

func formatAverage(seconds int64) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
