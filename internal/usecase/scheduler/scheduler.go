package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/velmart/settlement-service/internal/domain"
	"github.com/velmart/settlement-service/internal/infrastructure/metrics"
	settlementuc "github.com/velmart/settlement-service/internal/usecase/settlement"
)

// Releaser is the slice of the coordinator the scheduler needs.
type Releaser interface {
	AttemptRelease(ctx context.Context, orderID string, trigger domain.ReleaseTrigger, recipient domain.Recipient) (*settlementuc.Result, error)
}

// ReleaseScheduler polls the persisted auto-release deadlines. The
// deadline lives on the escrow row, so a restart loses nothing: due
// rows are claimed and fired on the next tick. Each claim fires exactly
// once; a rejected attempt (dispute open) is not retried, the dispute
// path re-triggers release on resolution.
type ReleaseScheduler struct {
	escrowRepo domain.EscrowRepository
	releaser   Releaser
	metrics    *metrics.SettlementMetrics
	interval   time.Duration
	batchSize  int
}

func NewReleaseScheduler(
	escrowRepo domain.EscrowRepository,
	releaser Releaser,
	settlementMetrics *metrics.SettlementMetrics,
	interval time.Duration,
	batchSize int,
) *ReleaseScheduler {
	return &ReleaseScheduler{
		escrowRepo: escrowRepo,
		releaser:   releaser,
		metrics:    settlementMetrics,
		interval:   interval,
		batchSize:  batchSize,
	}
}

func (s *ReleaseScheduler) Run(ctx context.Context) error {
	if err := s.Recover(ctx); err != nil {
		slog.Error("scheduler recovery failed", "error", err.Error())
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.PollOnce(ctx); err != nil {
				slog.Error("auto-release poll failed", "error", err.Error())
			}
		}
	}
}

// PollOnce claims every due escrow and fires one release attempt each.
func (s *ReleaseScheduler) PollOnce(ctx context.Context) error {
	claimed, err := s.escrowRepo.ClaimDue(time.Now(), s.batchSize)
	if err != nil {
		return err
	}

	for _, escrow := range claimed {
		s.fire(ctx, escrow)
	}
	return nil
}

// Recover re-fires escrows a previous process claimed but never
// settled, so a crash between claim and commit cannot strand funds.
func (s *ReleaseScheduler) Recover(ctx context.Context) error {
	stale, err := s.escrowRepo.FindStalePending(time.Now())
	if err != nil {
		return err
	}

	for _, escrow := range stale {
		slog.Info("re-firing stale auto-release claim", "order_id", escrow.OrderID)
		s.fire(ctx, escrow)
	}
	return nil
}

func (s *ReleaseScheduler) fire(ctx context.Context, escrow *domain.EscrowRecord) {
	result, err := s.releaser.AttemptRelease(ctx, escrow.OrderID, domain.TriggerAutoRelease, domain.RecipientSeller)
	if err != nil {
		s.metrics.RecordSchedulerFired("error")
		slog.Error("auto-release attempt failed", "order_id", escrow.OrderID, "error", err.Error())
		return
	}

	s.metrics.RecordSchedulerFired(string(result.Outcome))
	if result.Outcome == settlementuc.OutcomeRejected {
		slog.Info("auto-release rejected", "order_id", escrow.OrderID, "reason", result.Reason)
	}
}
