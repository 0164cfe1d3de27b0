package models

import (
	"time"

	"github.com/velmart/settlement-service/internal/domain"
)

type EscrowModel struct {
	ID                string               `gorm:"primaryKey;type:uuid"`
	OrderID           string               `gorm:"type:uuid;uniqueIndex"`
	AmountHeld        float64
	Currency          string
	ReleaseStatus     domain.ReleaseStatus `gorm:"index:idx_escrow_release,priority:1"`
	ReleaseDate       *time.Time           `gorm:"index:idx_escrow_release,priority:2"`
	ScheduleSuspended bool
	AutoFiredAt       *time.Time
	ReleasedAt        *time.Time
	ReleasedTo        string
	Recipient         string
	ReleaseReason     string
	Order             OrderModel           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
