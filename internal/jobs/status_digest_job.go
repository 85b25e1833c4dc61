package jobs

import (
	"context"
	"time"

	"github.com/fourloop/sourceflow/internal/domain"
	"github.com/fourloop/sourceflow/internal/metrics"
	"go.uber.org/zap"
)

// StatusDigestJobName is the scheduler name of the status digest job
const StatusDigestJobName = "status_digest"

// StatusSummarizer counts requests per status
type StatusSummarizer interface {
	StatusSummary(ctx context.Context) ([]domain.StatusCount, error)
}

// StatusDigestJob logs how many requests sit in each status and publishes the counts as a gauge
type StatusDigestJob struct {
	summarizer StatusSummarizer
	logger     *zap.Logger
	timeout    time.Duration
}

func NewStatusDigestJob(summarizer StatusSummarizer, logger *zap.Logger, timeout time.Duration) *StatusDigestJob {
	return &StatusDigestJob{
		summarizer: summarizer,
		logger:     logger,
		timeout:    timeout,
	}
}

// Run executes one digest
func (j *StatusDigestJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	counts, err := j.summarizer.StatusSummary(ctx)
	if err != nil {
		j.logger.Error("status digest failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	metrics.SetRequestsByStatus(counts)

	var total int64
	fields := make([]zap.Field, 0, len(counts)+2)
	for _, c := range counts {
		total += c.Count
		fields = append(fields, zap.Int64(c.StatusName, c.Count))
	}
	fields = append(fields,
		zap.Int64("total", total),
		zap.Duration("duration", time.Since(start)))

	j.logger.Info("status digest completed", fields...)
}

// RegisterStatusDigestJob schedules the digest. When runNow is set one digest runs before returning.
func RegisterStatusDigestJob(scheduler *Scheduler, summarizer StatusSummarizer, logger *zap.Logger, cronExpr string, timeout time.Duration, runNow bool) error {
	job := NewStatusDigestJob(summarizer, logger, timeout)

	if runNow {
		job.Run()
	}

	return scheduler.AddJob(StatusDigestJobName, cronExpr, job.Run)
}
