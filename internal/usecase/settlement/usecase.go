package usecase

import (
	"context"
	"errors"

	"github.com/velmart/settlement-service/internal/domain"
	"github.com/velmart/settlement-service/internal/infrastructure/logger"
	"github.com/velmart/settlement-service/internal/infrastructure/metrics"
	escrowuc "github.com/velmart/settlement-service/internal/usecase/escrow"
	orderuc "github.com/velmart/settlement-service/internal/usecase/order"
)

// PayoutInitiator starts the transfer of held funds. The payout service
// owns retries and idempotency; a returned error freezes the escrow in
// FAILED for manual resolution.
type PayoutInitiator interface {
	InitiatePayout(orderID, escrowID string, amount float64, currency, recipient string) error
}

// SettlementCoordinator serializes the three release triggers into a
// single-winner race per order. It is the only component allowed to
// call the ledger's MarkReleased/MarkFailed.
type SettlementCoordinator interface {
	ConfirmReceipt(ctx context.Context, orderID, buyerID string) (*Result, error)
	AttemptRelease(ctx context.Context, orderID string, trigger domain.ReleaseTrigger, recipient domain.Recipient) (*Result, error)
	GetEscrowStatus(orderID, buyerID string) (*EscrowStatus, error)
}

type EscrowStatus struct {
	Escrow            *domain.EscrowRecord
	CanConfirmReceipt bool
}

type DefaultSettlementCoordinator struct {
	orderUsecase orderuc.OrderUsecase
	escrowLedger escrowuc.EscrowLedger
	escrowRepo   domain.EscrowRepository
	disputeRepo  domain.DisputeRepository
	payout       PayoutInitiator
	locks        *OrderLocks
	auditLogger  logger.SettlementEventLogger
	metrics      *metrics.SettlementMetrics
}

func NewDefaultSettlementCoordinator(
	orderUsecase orderuc.OrderUsecase,
	escrowLedger escrowuc.EscrowLedger,
	escrowRepo domain.EscrowRepository,
	disputeRepo domain.DisputeRepository,
	payout PayoutInitiator,
	locks *OrderLocks,
	auditLogger logger.SettlementEventLogger,
	settlementMetrics *metrics.SettlementMetrics,
) *DefaultSettlementCoordinator {
	return &DefaultSettlementCoordinator{
		orderUsecase: orderUsecase,
		escrowLedger: escrowLedger,
		escrowRepo:   escrowRepo,
		disputeRepo:  disputeRepo,
		payout:       payout,
		locks:        locks,
		auditLogger:  auditLogger,
		metrics:      settlementMetrics,
	}
}

// Locks exposes the per-order lock table so the dispute gate can hold
// the same lock while it re-checks release state.
func (c *DefaultSettlementCoordinator) Locks() *OrderLocks {
	return c.locks
}

func (c *DefaultSettlementCoordinator) disputeOpen(orderID string) (bool, error) {
	_, err := c.disputeRepo.GetOpenDisputeByOrderID(orderID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrDisputeNotFound) {
		return false, nil
	}
	return false, err
}
