package usecase

import (
	"context"
	"errors"

	"github.com/velmart/settlement-service/internal/domain"
	publisher "github.com/velmart/settlement-service/internal/infrastructure/kafka"
	"github.com/velmart/settlement-service/internal/infrastructure/logger"
	"github.com/velmart/settlement-service/internal/infrastructure/metrics"
	settlementuc "github.com/velmart/settlement-service/internal/usecase/settlement"
)

// DisputeUsecase is the dispute gate: while a PENDING dispute exists on
// an order, buyer confirmation and the auto-release scheduler are
// frozen; only the resolution verdict can move the escrow.
type DisputeUsecase interface {
	OpenDispute(ctx context.Context, input *OpenDisputeInput) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, disputeID string, verdict domain.Verdict, resolution string) (*settlementuc.Result, error)
	CancelDispute(ctx context.Context, disputeID, buyerID string) error
	IsOpen(orderID string) (bool, error)

	AddMessage(input *AddMessageInput) (*domain.DisputeMessage, error)
	GetMessages(disputeID string) ([]*domain.DisputeMessage, error)

	GetDisputeByID(disputeID string) (*domain.Dispute, error)
	GetDisputes(filters domain.DisputeFilters, page, limit int) ([]*domain.Dispute, int64, error)
}

type OpenDisputeInput struct {
	OrderID string
	BuyerID string
	Type    domain.DisputeType
	Reason  string
}

type AddMessageInput struct {
	DisputeID  string
	AuthorID   string
	AuthorRole string
	Body       string
}

type DefaultDisputeUsecase struct {
	disputeRepo    domain.DisputeRepository
	orderRepo      domain.OrderRepository
	escrowRepo     domain.EscrowRepository
	coordinator    settlementuc.SettlementCoordinator
	locks          *settlementuc.OrderLocks
	kafkaPublisher *publisher.KafkaPublisher
	disputeTopic   string
	auditLogger    logger.SettlementEventLogger
	metrics        *metrics.SettlementMetrics
}

func NewDefaultDisputeUsecase(
	disputeRepo domain.DisputeRepository,
	orderRepo domain.OrderRepository,
	escrowRepo domain.EscrowRepository,
	coordinator settlementuc.SettlementCoordinator,
	locks *settlementuc.OrderLocks,
	kafkaPublisher *publisher.KafkaPublisher,
	disputeTopic string,
	auditLogger logger.SettlementEventLogger,
	settlementMetrics *metrics.SettlementMetrics,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		disputeRepo:    disputeRepo,
		orderRepo:      orderRepo,
		escrowRepo:     escrowRepo,
		coordinator:    coordinator,
		locks:          locks,
		kafkaPublisher: kafkaPublisher,
		disputeTopic:   disputeTopic,
		auditLogger:    auditLogger,
		metrics:        settlementMetrics,
	}
}

func (disputeUc *DefaultDisputeUsecase) IsOpen(orderID string) (bool, error) {
	_, err := disputeUc.disputeRepo.GetOpenDisputeByOrderID(orderID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrDisputeNotFound) {
		return false, nil
	}
	return false, err
}
