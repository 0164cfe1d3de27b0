package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/velmart/settlement-service/internal/domain"
	"github.com/velmart/settlement-service/internal/infrastructure/logger"
)

// AttemptRelease is the critical section. All three triggers funnel
// through here; the per-order lock serializes them in-process and the
// release_status compare-and-swap decides the winner across processes.
// Losers get OutcomeAlreadyReleased, never an error.
func (c *DefaultSettlementCoordinator) AttemptRelease(ctx context.Context, orderID string, trigger domain.ReleaseTrigger, recipient domain.Recipient) (*Result, error) {
	started := time.Now()
	defer func() {
		c.metrics.RecordReleaseLatency(string(trigger), time.Since(started).Seconds())
	}()

	unlock := c.locks.Lock(orderID)
	defer unlock()

	escrow, err := c.escrowRepo.GetEscrowByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	switch escrow.ReleaseStatus {
	case domain.ReleaseReleased:
		c.metrics.RecordRaceLost(string(trigger))
		return c.finish(escrow, trigger, recipient, &Result{
			Outcome:   OutcomeAlreadyReleased,
			Trigger:   trigger,
			Recipient: recipient,
			Escrow:    escrow,
		}), nil
	case domain.ReleaseFailed:
		// terminal for automation; admins resolve manually
		return c.finish(escrow, trigger, recipient, &Result{
			Outcome:   OutcomeRejected,
			Trigger:   trigger,
			Recipient: recipient,
			Reason:    ReasonEscrowFailed,
			Escrow:    escrow,
		}), nil
	}

	order, err := c.orderUsecase.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	// dispute resolution is the one trigger allowed through a closed gate
	if trigger != domain.TriggerDisputeResolution {
		open, err := c.disputeOpen(orderID)
		if err != nil {
			return nil, err
		}
		if open {
			c.metrics.RecordRejected(string(trigger), ReasonDisputeOpen)
			return c.finish(escrow, trigger, recipient, &Result{
				Outcome:   OutcomeRejected,
				Trigger:   trigger,
				Recipient: recipient,
				Reason:    ReasonDisputeOpen,
				Escrow:    escrow,
			}), nil
		}

		if order.Status != domain.StatusShipped && order.Status != domain.StatusDelivered {
			c.metrics.RecordRejected(string(trigger), ReasonNotShipped)
			return c.finish(escrow, trigger, recipient, &Result{
				Outcome:   OutcomeRejected,
				Trigger:   trigger,
				Recipient: recipient,
				Reason:    ReasonNotShipped,
				Escrow:    escrow,
			}), nil
		}
	}

	reason := ""
	if recipient != domain.RecipientSeller {
		reason = fmt.Sprintf("funds directed to %s by dispute verdict", recipient)
	}

	if err := c.payout.InitiatePayout(order.ID, escrow.ID, escrow.AmountHeld, escrow.Currency, string(recipient)); err != nil {
		slog.Error("payout initiation failed, freezing escrow",
			"order_id", order.ID, "escrow_id", escrow.ID, "error", err.Error())

		failReason := fmt.Sprintf("payout initiation failed: %v", err)
		if markErr := c.escrowLedger.MarkFailed(escrow, failReason); markErr != nil {
			// a concurrent writer settled the escrow between our check
			// and the CAS; the cheap payout request was wasted, nothing
			// was double-paid
			if errors.Is(markErr, domain.ErrInvalidTransition) {
				c.metrics.RecordRaceLost(string(trigger))
				return &Result{Outcome: OutcomeAlreadyReleased, Trigger: trigger, Recipient: recipient, Escrow: escrow}, nil
			}
			return nil, markErr
		}

		result := &Result{
			Outcome:   OutcomeRejected,
			Trigger:   trigger,
			Recipient: recipient,
			Reason:    ReasonPayoutFailed,
			Escrow:    escrow,
		}
		c.finish(escrow, trigger, recipient, result)
		return result, domain.ErrPayoutFailed
	}

	if err := c.escrowLedger.MarkReleased(escrow, trigger, recipient, reason); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			// should be unreachable while we hold the order lock;
			// indicates a writer bypassing the coordinator
			slog.Error("escrow CAS lost inside the critical section",
				"order_id", order.ID, "escrow_id", escrow.ID)
			c.metrics.RecordLedgerViolation("mark_released")
			return &Result{Outcome: OutcomeAlreadyReleased, Trigger: trigger, Recipient: recipient, Escrow: escrow}, nil
		}
		return nil, err
	}

	c.completeOrder(order)

	if err := c.escrowRepo.SuspendSchedule(order.ID); err != nil {
		slog.Error("failed to suspend auto-release schedule", "order_id", order.ID, "error", err.Error())
	}

	result := &Result{
		Outcome:   OutcomeReleased,
		Trigger:   trigger,
		Recipient: recipient,
		Escrow:    escrow,
	}
	return c.finish(escrow, trigger, recipient, result), nil
}

// completeOrder walks the order to COMPLETED after a committed release.
// A buyer can confirm receipt while the order is still SHIPPED, which
// implies delivery happened.
func (c *DefaultSettlementCoordinator) completeOrder(order *domain.Order) {
	status := order.Status
	if status == domain.StatusShipped {
		if err := c.orderUsecase.Transition(order.ID, domain.StatusShipped, domain.StatusDelivered); err != nil {
			slog.Error("failed to mark order delivered after release", "order_id", order.ID, "error", err.Error())
			return
		}
		status = domain.StatusDelivered
	}
	if status == domain.StatusDelivered {
		if err := c.orderUsecase.Transition(order.ID, domain.StatusDelivered, domain.StatusCompleted); err != nil {
			slog.Error("failed to complete order after release", "order_id", order.ID, "error", err.Error())
		}
	}
}

func (c *DefaultSettlementCoordinator) finish(escrow *domain.EscrowRecord, trigger domain.ReleaseTrigger, recipient domain.Recipient, result *Result) *Result {
	go func(event logger.ReleaseAuditEvent) {
		if err := c.auditLogger.LogReleaseAttempt(context.Background(), event); err != nil {
			slog.Error("failed to write release audit row", "order_id", event.OrderID, "error", err.Error())
		}
	}(logger.ReleaseAuditEvent{
		OrderID:   escrow.OrderID,
		EscrowID:  escrow.ID,
		Trigger:   string(trigger),
		Recipient: string(recipient),
		Outcome:   string(result.Outcome),
		Reason:    result.Reason,
		Amount:    escrow.AmountHeld,
		Currency:  escrow.Currency,
		Timestamp: time.Now(),
	})
	return result
}
