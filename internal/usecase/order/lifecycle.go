package usecase

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/velmart/settlement-service/internal/domain"
)

func (uc *DefaultOrderUsecase) CreateOrder(input *CreateOrderInput) (*domain.Order, error) {
	order := &domain.Order{
		ID:             uuid.New().String(),
		BuyerID:        input.BuyerID,
		StoreID:        input.StoreID,
		TotalAmount:    input.TotalAmount,
		Currency:       input.Currency,
		Status:         domain.StatusPending,
		DeliveryStatus: domain.DeliveryPending,
	}

	if err := uc.OrderRepo.CreateOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *DefaultOrderUsecase) GetOrderByID(orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(orderID)
}

func (uc *DefaultOrderUsecase) GetOrders(filters domain.OrderFilters, page, limit int) ([]*domain.Order, int64, error) {
	return uc.OrderRepo.GetOrders(filters, page, limit)
}

func (uc *DefaultOrderUsecase) Transition(orderID string, from, to domain.OrderStatus) error {
	if !domain.CanTransition(from, to) {
		return domain.ErrIllegalTransition
	}
	return uc.OrderRepo.TransitionStatus(orderID, from, to)
}

func (uc *DefaultOrderUsecase) ConfirmOrder(orderID string) error {
	return uc.Transition(orderID, domain.StatusPending, domain.StatusConfirmed)
}

func (uc *DefaultOrderUsecase) StartProcessing(orderID string) error {
	return uc.Transition(orderID, domain.StatusConfirmed, domain.StatusProcessing)
}

// ShipOrder moves PROCESSING -> SHIPPED and arms a provisional
// auto-release deadline. The deadline is recomputed from the actual
// delivery time once the courier reports DELIVERED.
func (uc *DefaultOrderUsecase) ShipOrder(input *ShipOrderInput) error {
	if input.Courier == "" || input.TrackingNumber == "" {
		return domain.ErrMissingDeliveryInfo
	}

	order, err := uc.OrderRepo.GetOrderByID(input.OrderID)
	if err != nil {
		return err
	}

	if err := uc.Transition(order.ID, domain.StatusProcessing, domain.StatusShipped); err != nil {
		return err
	}

	now := time.Now()
	if err := uc.OrderRepo.SetShippingInfo(order.ID, input.Courier, input.TrackingNumber, now); err != nil {
		return err
	}
	if err := uc.OrderRepo.SetDeliveryStatus(order.ID, domain.DeliveryShipped); err != nil {
		return err
	}

	if err := uc.scheduleAutoRelease(order, now); err != nil {
		return err
	}
	return nil
}

// UpdateDeliveryStatus accepts courier-facing statuses from sellers and
// delivery webhooks. SHIPPED and DELIVERED drive order transitions, the
// rest are recorded as-is.
func (uc *DefaultOrderUsecase) UpdateDeliveryStatus(orderID string, status domain.DeliveryStatus) error {
	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}

	switch status {
	case domain.DeliveryDelivered:
		if err := uc.Transition(order.ID, domain.StatusShipped, domain.StatusDelivered); err != nil {
			return err
		}
		now := time.Now()
		if err := uc.OrderRepo.SetDeliveredAt(order.ID, now); err != nil {
			return err
		}
		// re-anchor the confirmation window to the actual delivery time
		if err := uc.scheduleAutoRelease(order, now); err != nil {
			return err
		}
	case domain.DeliveryShipped:
		if order.Status != domain.StatusShipped {
			return domain.ErrIllegalTransition
		}
	case domain.DeliveryReturned:
		// returned after shipment is a dispute matter, not a transition
		slog.Warn("courier reported return", "order_id", order.ID)
	}

	return uc.OrderRepo.SetDeliveryStatus(order.ID, status)
}

func (uc *DefaultOrderUsecase) CancelOrder(orderID string) error {
	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if !order.Status.Cancellable() {
		return domain.ErrIllegalTransition
	}
	return uc.Transition(order.ID, order.Status, domain.StatusCancelled)
}

func (uc *DefaultOrderUsecase) scheduleAutoRelease(order *domain.Order, anchor time.Time) error {
	releaseDate := anchor.Add(uc.ConfirmationWindowFor(order.StoreID))
	err := uc.EscrowRepo.Schedule(order.ID, releaseDate)
	if err != nil {
		// payment capture may still be in flight; the escrow arrives
		// without a deadline and the delivery webhook re-arms it
		if errors.Is(err, domain.ErrEscrowNotFound) {
			slog.Warn("no pending escrow to schedule", "order_id", order.ID)
			return nil
		}
		return err
	}
	return nil
}
