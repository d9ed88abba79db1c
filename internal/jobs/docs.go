// Package jobs provides scheduled background tasks for the commerce service.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field in the schedule.
//
// # Available Jobs
//
// 1. RefundSettlementJob - pays out refund cases left Approved after a
// payment gateway failure. It runs ProcessRefund on behalf of the system,
// at most SettlementBatchSize cases per run, oldest first.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(readers, processRefundHandler, "0 * * * * *", logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A case that fails to settle is logged and picked up again by the next run.
// Retryable failures (gateway down, concurrent update) are logged as
// warnings, everything else as errors.
package jobs
