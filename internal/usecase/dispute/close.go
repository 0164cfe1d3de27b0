package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/velmart/settlement-service/internal/domain"
	publisher "github.com/velmart/settlement-service/internal/infrastructure/kafka"
	settlementuc "github.com/velmart/settlement-service/internal/usecase/settlement"
)

// ResolveDispute records the admin verdict and hands the frozen escrow
// to the coordinator. This is the only path that releases funds while
// the gate was closed.
func (disputeUc *DefaultDisputeUsecase) ResolveDispute(ctx context.Context, disputeID string, verdict domain.Verdict, resolution string) (*settlementuc.Result, error) {
	if !verdict.Valid() {
		return nil, domain.ErrInvalidVerdict
	}

	dispute, err := disputeUc.disputeRepo.GetDisputeByID(disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status != domain.DisputePending {
		return nil, domain.ErrDisputeClosed
	}

	if err := disputeUc.disputeRepo.Resolve(disputeID, verdict, resolution, time.Now()); err != nil {
		return nil, err
	}

	disputeUc.metrics.RecordDisputeClosed(string(verdict))
	disputeUc.logAction(dispute, "resolved", string(verdict))

	go func(event publisher.DisputeEvent) {
		if err := disputeUc.kafkaPublisher.PublishDispute(disputeUc.disputeTopic, event); err != nil {
			slog.Error("failed to publish kafka dispute event", "stage", "resolving", "error", err.Error())
		}
	}(publisher.DisputeEvent{
		DisputeID: dispute.ID,
		OrderID:   dispute.OrderID,
		BuyerID:   dispute.BuyerID,
		Type:      string(dispute.Type),
		Status:    string(domain.DisputeResolved),
		Verdict:   string(verdict),
	})

	return disputeUc.coordinator.AttemptRelease(ctx, dispute.OrderID, domain.TriggerDisputeResolution, verdict.Recipient())
}

// CancelDispute lets the buyer withdraw an open dispute. The original
// auto-release deadline is re-armed; if it already passed, the poller
// fires on its next tick.
func (disputeUc *DefaultDisputeUsecase) CancelDispute(ctx context.Context, disputeID, buyerID string) error {
	dispute, err := disputeUc.disputeRepo.GetDisputeByID(disputeID)
	if err != nil {
		return err
	}
	if dispute.BuyerID != buyerID {
		return domain.ErrNotDisputeOwner
	}
	if dispute.Status != domain.DisputePending {
		return domain.ErrDisputeClosed
	}

	if err := disputeUc.disputeRepo.Cancel(disputeID, time.Now()); err != nil {
		return err
	}

	if err := disputeUc.escrowRepo.ResumeSchedule(dispute.OrderID); err != nil {
		slog.Error("failed to resume auto-release schedule", "order_id", dispute.OrderID, "error", err.Error())
	}

	disputeUc.metrics.RecordDisputeClosed("cancelled")
	disputeUc.logAction(dispute, "cancelled", "")

	go func(event publisher.DisputeEvent) {
		if err := disputeUc.kafkaPublisher.PublishDispute(disputeUc.disputeTopic, event); err != nil {
			slog.Error("failed to publish kafka dispute event", "stage", "cancelling", "error", err.Error())
		}
	}(publisher.DisputeEvent{
		DisputeID: dispute.ID,
		OrderID:   dispute.OrderID,
		BuyerID:   dispute.BuyerID,
		Type:      string(dispute.Type),
		Status:    string(domain.DisputeCancelled),
	})

	return nil
}
