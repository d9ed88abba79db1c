package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/commands"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/queries"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

const (
	// DefaultRefundSettlementSchedule runs the job at the top of every minute.
	DefaultRefundSettlementSchedule = "0 * * * * *"
	// SettlementBatchSize caps how many cases one run pays out.
	SettlementBatchSize = 50
)

// RefundProcessor pays out an approved case. Implemented by
// *commands.ProcessRefundCommandHandler.
type RefundProcessor interface {
	Handle(ctx context.Context, cmd commands.ProcessRefundCommand) (commands.RefundResult, error)
}

// RefundSettlementJob retries the payout of cases that stayed Approved
// because the payment gateway failed when they were approved.
type RefundSettlementJob struct {
	readers   queries.ReaderFactory
	processor RefundProcessor
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewRefundSettlementJob(
	readers queries.ReaderFactory,
	processor RefundProcessor,
	schedule string,
	logger *slog.Logger,
) *RefundSettlementJob {
	if schedule == "" {
		schedule = DefaultRefundSettlementSchedule
	}
	return &RefundSettlementJob{
		readers:   readers,
		processor: processor,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "refund_settlement_job"),
	}
}

// Start registers the job on its schedule and starts the scheduler.
func (j *RefundSettlementJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Refund settlement job started", "schedule", j.schedule)
	return nil
}

// Run settles one batch of approved cases and returns how many completed.
// A failing case is logged and left for the next run.
func (j *RefundSettlementJob) Run(ctx context.Context) int {
	approved, err := j.readers.Create().RefundRepository().ListApproved(ctx, SettlementBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Listing approved refunds failed", "error", err)
		return 0
	}

	settled := 0
	for _, c := range approved {
		cmd, err := commands.NewProcessRefundCommand(c.OrderID(), order.RoleSystem)
		if err != nil {
			j.logger.ErrorContext(ctx, "Building refund command failed", "orderId", c.OrderID().String(), "error", err)
			continue
		}

		if _, err = j.processor.Handle(ctx, cmd); err != nil {
			level := slog.LevelError
			if errs.IsRetryable(err) {
				level = slog.LevelWarn
			}
			j.logger.Log(ctx, level, "Refund settlement failed",
				"orderId", c.OrderID().String(), "refundId", c.ID().String(), "error", err)
			continue
		}
		settled++
	}

	if settled > 0 {
		j.logger.InfoContext(ctx, "Refunds settled", "count", settled, "pending", len(approved)-settled)
	}
	return settled
}

// Stop stops the scheduler and waits for a running batch to finish.
func (j *RefundSettlementJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Refund settlement job stopped")
}
