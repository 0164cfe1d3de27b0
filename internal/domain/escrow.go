package domain

import "time"

type ReleaseStatus string

const (
	ReleasePending  ReleaseStatus = "PENDING"
	ReleaseReleased ReleaseStatus = "RELEASED"
	ReleaseFailed   ReleaseStatus = "FAILED"
)

// ReleaseTrigger records which of the three release paths won the race
// for an escrow.
type ReleaseTrigger string

const (
	TriggerBuyerConfirmation ReleaseTrigger = "buyer_confirmation"
	TriggerAutoRelease       ReleaseTrigger = "auto_release"
	TriggerDisputeResolution ReleaseTrigger = "dispute_resolution"
)

// Recipient of the held funds once released.
type Recipient string

const (
	RecipientSeller Recipient = "seller"
	RecipientBuyer  Recipient = "buyer"
	RecipientSplit  Recipient = "split"
)

// EscrowRecord is the durable record of funds held for one order.
// AmountHeld is immutable after creation; ReleaseStatus leaves PENDING
// exactly once.
type EscrowRecord struct {
	ID            string
	OrderID       string
	AmountHeld    float64
	Currency      string
	ReleaseStatus ReleaseStatus
	// ReleaseDate is the scheduled auto-release deadline. Nil until the
	// order ships.
	ReleaseDate *time.Time
	// ScheduleSuspended pauses the auto-release timer while a dispute
	// is open.
	ScheduleSuspended bool
	// AutoFiredAt marks that the scheduler already claimed this escrow
	// for its single firing.
	AutoFiredAt   *time.Time
	ReleasedAt    *time.Time
	ReleasedTo    ReleaseTrigger
	Recipient     Recipient
	ReleaseReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type EscrowRepository interface {
	// CreateEscrow fails with ErrDuplicateEscrow when a record already
	// exists for the order.
	CreateEscrow(escrow *EscrowRecord) error
	GetEscrowByID(escrowID string) (*EscrowRecord, error)
	GetEscrowByOrderID(orderID string) (*EscrowRecord, error)

	// MarkReleased and MarkFailed compare-and-swap release_status from
	// PENDING; ErrInvalidTransition when the row already left PENDING.
	MarkReleased(escrowID string, trigger ReleaseTrigger, recipient Recipient, reason string) error
	MarkFailed(escrowID string, reason string) error

	// Schedule registers (or replaces) the auto-release deadline.
	Schedule(orderID string, releaseDate time.Time) error
	// SuspendSchedule pauses the timer; safe to call after it fired.
	SuspendSchedule(orderID string) error
	// ResumeSchedule re-arms a suspended timer without moving the deadline.
	ResumeSchedule(orderID string) error

	// ClaimDue atomically claims due, unclaimed, pending escrows for a
	// single auto-release firing each.
	ClaimDue(now time.Time, limit int) ([]*EscrowRecord, error)
	// FindStalePending returns pending escrows that were claimed but
	// never settled, for restart recovery.
	FindStalePending(now time.Time) ([]*EscrowRecord, error)

	ListEscrows(status ReleaseStatus, page, limit int) ([]*EscrowRecord, int64, error)
}
