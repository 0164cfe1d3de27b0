package usecase

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/velmart/settlement-service/internal/domain"
	publisher "github.com/velmart/settlement-service/internal/infrastructure/kafka"
	"github.com/velmart/settlement-service/internal/infrastructure/metrics"
)

// EscrowLedger is the durable record of held funds. MarkReleased and
// MarkFailed must only ever be called by the settlement coordinator.
type EscrowLedger interface {
	CreateEscrow(input *CreateEscrowInput) (*domain.EscrowRecord, error)
	GetEscrowByID(escrowID string) (*domain.EscrowRecord, error)
	GetEscrowByOrderID(orderID string) (*domain.EscrowRecord, error)
	MarkReleased(escrow *domain.EscrowRecord, trigger domain.ReleaseTrigger, recipient domain.Recipient, reason string) error
	MarkFailed(escrow *domain.EscrowRecord, reason string) error
	ListEscrows(status domain.ReleaseStatus, page, limit int) ([]*domain.EscrowRecord, int64, error)
}

type CreateEscrowInput struct {
	OrderID  string
	Amount   float64
	Currency string
}

type DefaultEscrowLedger struct {
	escrowRepo      domain.EscrowRepository
	orderRepo       domain.OrderRepository
	kafkaPublisher  *publisher.KafkaPublisher
	settlementTopic string
	metrics         *metrics.SettlementMetrics
}

func NewDefaultEscrowLedger(
	escrowRepo domain.EscrowRepository,
	orderRepo domain.OrderRepository,
	kafkaPublisher *publisher.KafkaPublisher,
	settlementTopic string,
	settlementMetrics *metrics.SettlementMetrics,
) *DefaultEscrowLedger {
	return &DefaultEscrowLedger{
		escrowRepo:      escrowRepo,
		orderRepo:       orderRepo,
		kafkaPublisher:  kafkaPublisher,
		settlementTopic: settlementTopic,
		metrics:         settlementMetrics,
	}
}

// CreateEscrow is called by the payment-capture service once payment is
// authorized. One escrow per order, ever.
func (ledger *DefaultEscrowLedger) CreateEscrow(input *CreateEscrowInput) (*domain.EscrowRecord, error) {
	if _, err := ledger.orderRepo.GetOrderByID(input.OrderID); err != nil {
		return nil, err
	}

	escrow := &domain.EscrowRecord{
		ID:            uuid.New().String(),
		OrderID:       input.OrderID,
		AmountHeld:    input.Amount,
		Currency:      input.Currency,
		ReleaseStatus: domain.ReleasePending,
	}

	if err := ledger.escrowRepo.CreateEscrow(escrow); err != nil {
		return nil, err
	}

	ledger.metrics.RecordEscrowCreated(escrow.Currency, escrow.AmountHeld)
	return escrow, nil
}

func (ledger *DefaultEscrowLedger) GetEscrowByID(escrowID string) (*domain.EscrowRecord, error) {
	return ledger.escrowRepo.GetEscrowByID(escrowID)
}

func (ledger *DefaultEscrowLedger) GetEscrowByOrderID(orderID string) (*domain.EscrowRecord, error) {
	return ledger.escrowRepo.GetEscrowByOrderID(orderID)
}

// MarkReleased commits the release decision and publishes the
// FundsReleased event the payout subsystem consumes. The repository CAS
// guarantees at most one event per order.
func (ledger *DefaultEscrowLedger) MarkReleased(escrow *domain.EscrowRecord, trigger domain.ReleaseTrigger, recipient domain.Recipient, reason string) error {
	if err := ledger.escrowRepo.MarkReleased(escrow.ID, trigger, recipient, reason); err != nil {
		return err
	}

	ledger.metrics.RecordRelease(string(trigger), string(recipient), escrow.Currency, escrow.AmountHeld)

	go func(event publisher.FundsReleasedEvent) {
		if err := ledger.kafkaPublisher.PublishFundsReleased(ledger.settlementTopic, event); err != nil {
			slog.Error("failed to publish FundsReleased event", "order_id", event.OrderID, "error", err.Error())
		}
	}(publisher.FundsReleasedEvent{
		OrderID:   escrow.OrderID,
		EscrowID:  escrow.ID,
		Amount:    escrow.AmountHeld,
		Currency:  escrow.Currency,
		Recipient: string(recipient),
		Trigger:   string(trigger),
	})

	return nil
}

func (ledger *DefaultEscrowLedger) MarkFailed(escrow *domain.EscrowRecord, reason string) error {
	if err := ledger.escrowRepo.MarkFailed(escrow.ID, reason); err != nil {
		return err
	}

	ledger.metrics.RecordPayoutFailure(escrow.Currency)

	go func(event publisher.EscrowFailedEvent) {
		if err := ledger.kafkaPublisher.PublishEscrowFailed(ledger.settlementTopic, event); err != nil {
			slog.Error("failed to publish escrow failed event", "order_id", event.OrderID, "error", err.Error())
		}
	}(publisher.EscrowFailedEvent{
		OrderID:  escrow.OrderID,
		EscrowID: escrow.ID,
		Amount:   escrow.AmountHeld,
		Currency: escrow.Currency,
		Reason:   reason,
	})

	return nil
}

func (ledger *DefaultEscrowLedger) ListEscrows(status domain.ReleaseStatus, page, limit int) ([]*domain.EscrowRecord, int64, error) {
	return ledger.escrowRepo.ListEscrows(status, page, limit)
}
