package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Persisted audit trail of every settlement decision. Escrow rows carry
// the final verdict; these rows keep the full attempt history.

type ReleaseAuditEvent struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   string
	EscrowID  string
	Trigger   string
	Recipient string
	Outcome   string // released, already_released, rejected, payout_failed
	Reason    string
	Amount    float64
	Currency  string
	Timestamp time.Time
}

type DisputeAuditEvent struct {
	ID        uint `gorm:"primaryKey"`
	DisputeID string
	OrderID   string
	Action    string // opened, resolved, cancelled
	Verdict   string
	Timestamp time.Time
}

type SettlementEventLogger interface {
	LogReleaseAttempt(ctx context.Context, event ReleaseAuditEvent) error
	LogDisputeAction(ctx context.Context, event DisputeAuditEvent) error
}

type PGSettlementEventLogger struct {
	db *gorm.DB
}

func NewPGSettlementEventLogger(db *gorm.DB) *PGSettlementEventLogger {
	db.AutoMigrate(&ReleaseAuditEvent{}, &DisputeAuditEvent{})
	return &PGSettlementEventLogger{db: db}
}

func (l *PGSettlementEventLogger) LogReleaseAttempt(ctx context.Context, event ReleaseAuditEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGSettlementEventLogger) LogDisputeAction(ctx context.Context, event DisputeAuditEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
