package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/velmart/settlement-service/internal/domain"
	publisher "github.com/velmart/settlement-service/internal/infrastructure/kafka"
	"github.com/velmart/settlement-service/internal/infrastructure/logger"
)

// OpenDispute freezes the release paths for an order. The escrow state
// is re-checked under the order lock: a dispute racing a release that
// already committed loses with ErrAlreadyReleased instead of silently
// disputing funds that were paid out.
func (disputeUc *DefaultDisputeUsecase) OpenDispute(ctx context.Context, input *OpenDisputeInput) (*domain.Dispute, error) {
	order, err := disputeUc.orderRepo.GetOrderByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != input.BuyerID {
		return nil, domain.ErrNotOrderBuyer
	}
	if order.Status != domain.StatusShipped && order.Status != domain.StatusDelivered {
		return nil, domain.ErrNotShippedOrDelivered
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}

	unlock := disputeUc.locks.Lock(order.ID)
	defer unlock()

	escrow, err := disputeUc.escrowRepo.GetEscrowByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if escrow.ReleaseStatus != domain.ReleasePending {
		return nil, domain.ErrAlreadyReleased
	}
	if escrow.ReleaseDate != nil && time.Now().After(*escrow.ReleaseDate) {
		return nil, domain.ErrConfirmationClosed
	}

	dispute := &domain.Dispute{
		ID:        idGenerator(),
		OrderID:   order.ID,
		BuyerID:   input.BuyerID,
		Type:      input.Type,
		Status:    domain.DisputePending,
		Reason:    input.Reason,
		CreatedAt: time.Now(),
	}

	if err := disputeUc.disputeRepo.CreateDispute(dispute); err != nil {
		return nil, err
	}

	if err := disputeUc.escrowRepo.SuspendSchedule(order.ID); err != nil {
		slog.Error("failed to suspend auto-release for disputed order", "order_id", order.ID, "error", err.Error())
	}

	disputeUc.metrics.RecordDisputeOpened(string(dispute.Type))
	disputeUc.logAction(dispute, "opened", "")

	go func(event publisher.DisputeEvent) {
		if err := disputeUc.kafkaPublisher.PublishDispute(disputeUc.disputeTopic, event); err != nil {
			slog.Error("failed to publish kafka dispute event", "stage", "opening", "error", err.Error())
		}
	}(publisher.DisputeEvent{
		DisputeID: dispute.ID,
		OrderID:   dispute.OrderID,
		BuyerID:   dispute.BuyerID,
		Type:      string(dispute.Type),
		Status:    string(dispute.Status),
		Reason:    dispute.Reason,
	})

	return dispute, nil
}

func (disputeUc *DefaultDisputeUsecase) logAction(dispute *domain.Dispute, action, verdict string) {
	go func(event logger.DisputeAuditEvent) {
		if err := disputeUc.auditLogger.LogDisputeAction(context.Background(), event); err != nil {
			slog.Error("failed to write dispute audit row", "dispute_id", event.DisputeID, "error", err.Error())
		}
	}(logger.DisputeAuditEvent{
		DisputeID: dispute.ID,
		OrderID:   dispute.OrderID,
		Action:    action,
		Verdict:   verdict,
		Timestamp: time.Now(),
	})
}
