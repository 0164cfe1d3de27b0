package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// DeliveryStatus is the courier-facing status reported by sellers and
// delivery webhooks. Only SHIPPED and DELIVERED drive order transitions.
type DeliveryStatus string

const (
	DeliveryPending        DeliveryStatus = "PENDING"
	DeliveryProcessing     DeliveryStatus = "PROCESSING"
	DeliveryShipped        DeliveryStatus = "SHIPPED"
	DeliveryOutForDelivery DeliveryStatus = "OUT_FOR_DELIVERY"
	DeliveryDelivered      DeliveryStatus = "DELIVERED"
	DeliveryReturned       DeliveryStatus = "RETURNED"
)

type Order struct {
	ID             string
	BuyerID        string
	StoreID        string
	TotalAmount    float64
	Currency       string
	Status         OrderStatus
	DeliveryStatus DeliveryStatus
	Courier        string
	TrackingNumber string
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// allowedEdges is the full set of legal order-status transitions.
// DELIVERED -> COMPLETED only happens as a side effect of an escrow
// release; SHIPPED and later are not cancellable.
var allowedEdges = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusCompleted},
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range allowedEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) Cancellable() bool {
	return CanTransition(s, StatusCancelled)
}

type OrderFilters struct {
	BuyerID  string
	StoreID  string
	Statuses []OrderStatus
	DateFrom time.Time
	DateTo   time.Time
}

type OrderRepository interface {
	CreateOrder(order *Order) error
	GetOrderByID(orderID string) (*Order, error)
	// TransitionStatus compares the persisted status against from before
	// writing to. Returns ErrIllegalTransition when the row no longer
	// matches (optimistic-concurrency guard).
	TransitionStatus(orderID string, from, to OrderStatus) error
	SetShippingInfo(orderID, courier, trackingNumber string, shippedAt time.Time) error
	SetDeliveredAt(orderID string, deliveredAt time.Time) error
	SetDeliveryStatus(orderID string, status DeliveryStatus) error
	GetOrders(filters OrderFilters, page, limit int) ([]*Order, int64, error)
}
