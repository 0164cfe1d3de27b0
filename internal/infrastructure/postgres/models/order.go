package models

import (
	"time"

	"github.com/velmart/settlement-service/internal/domain"
)

type OrderModel struct {
	ID             string                `gorm:"primaryKey;type:uuid"`
	BuyerID        string                `gorm:"type:uuid;index"`
	StoreID        string                `gorm:"type:uuid;index"`
	TotalAmount    float64
	Currency       string
	Status         domain.OrderStatus    `gorm:"index:idx_order_status"`
	DeliveryStatus domain.DeliveryStatus
	Courier        string
	TrackingNumber string
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CreatedAt      time.Time             `gorm:"index:idx_order_created_at"`
	UpdatedAt      time.Time
}
