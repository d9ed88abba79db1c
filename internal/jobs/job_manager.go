package jobs

import (
	"fmt"
	"log/slog"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	refundSettlementJob *RefundSettlementJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	readers queries.ReaderFactory,
	processRefundHandler RefundProcessor,
	refundRetrySchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		refundSettlementJob: NewRefundSettlementJob(readers, processRefundHandler, refundRetrySchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.refundSettlementJob.Start(); err != nil {
		return fmt.Errorf("failed to start refund settlement job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.refundSettlementJob.Stop()
}
