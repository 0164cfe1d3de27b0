package usecase

import (
	"context"

	"github.com/velmart/settlement-service/internal/domain"
)

// ConfirmReceipt is the buyer-driven release path. Confirming an
// already-released order is an idempotent no-op, not an error.
func (c *DefaultSettlementCoordinator) ConfirmReceipt(ctx context.Context, orderID, buyerID string) (*Result, error) {
	order, err := c.orderUsecase.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, domain.ErrNotOrderBuyer
	}

	escrow, err := c.escrowRepo.GetEscrowByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if escrow.ReleaseStatus == domain.ReleaseReleased {
		return &Result{
			Outcome:   OutcomeAlreadyReleased,
			Trigger:   domain.TriggerBuyerConfirmation,
			Recipient: domain.RecipientSeller,
			Escrow:    escrow,
		}, nil
	}

	if order.Status != domain.StatusShipped && order.Status != domain.StatusDelivered {
		return nil, domain.ErrNotShippedOrDelivered
	}

	open, err := c.disputeOpen(orderID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, domain.ErrDisputeOpen
	}

	return c.AttemptRelease(ctx, orderID, domain.TriggerBuyerConfirmation, domain.RecipientSeller)
}

// GetEscrowStatus backs GET /orders/{id}/escrow for the buyer client.
func (c *DefaultSettlementCoordinator) GetEscrowStatus(orderID, buyerID string) (*EscrowStatus, error) {
	order, err := c.orderUsecase.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	escrow, err := c.escrowRepo.GetEscrowByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	canConfirm := order.BuyerID == buyerID &&
		escrow.ReleaseStatus == domain.ReleasePending &&
		(order.Status == domain.StatusShipped || order.Status == domain.StatusDelivered)

	if canConfirm {
		open, err := c.disputeOpen(orderID)
		if err != nil {
			return nil, err
		}
		canConfirm = !open
	}

	return &EscrowStatus{Escrow: escrow, CanConfirmReceipt: canConfirm}, nil
}
