package usecase

import (
	"time"

	"github.com/velmart/settlement-service/internal/domain"
)

type OrderUsecase interface {
	CreateOrder(input *CreateOrderInput) (*domain.Order, error)
	GetOrderByID(orderID string) (*domain.Order, error)
	GetOrders(filters domain.OrderFilters, page, limit int) ([]*domain.Order, int64, error)

	// Transition validates the edge table before the repository's
	// optimistic from-status guard.
	Transition(orderID string, from, to domain.OrderStatus) error

	ConfirmOrder(orderID string) error
	StartProcessing(orderID string) error
	ShipOrder(input *ShipOrderInput) error
	UpdateDeliveryStatus(orderID string, status domain.DeliveryStatus) error
	CancelOrder(orderID string) error

	// ConfirmationWindowFor resolves the store override against the
	// platform default.
	ConfirmationWindowFor(storeID string) time.Duration
}

type CreateOrderInput struct {
	BuyerID     string
	StoreID     string
	TotalAmount float64
	Currency    string
}

type ShipOrderInput struct {
	OrderID        string
	Courier        string
	TrackingNumber string
}

type DefaultOrderUsecase struct {
	OrderRepo         domain.OrderRepository
	EscrowRepo        domain.EscrowRepository
	StoreSettingsRepo domain.StoreSettingsRepository
	DefaultWindow     time.Duration
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	escrowRepo domain.EscrowRepository,
	storeSettingsRepo domain.StoreSettingsRepository,
	defaultWindow time.Duration,
) *DefaultOrderUsecase {
	return &DefaultOrderUsecase{
		OrderRepo:         orderRepo,
		EscrowRepo:        escrowRepo,
		StoreSettingsRepo: storeSettingsRepo,
		DefaultWindow:     defaultWindow,
	}
}
