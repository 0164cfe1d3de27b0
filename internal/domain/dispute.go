package domain

import "time"

type DisputeStatus string

const (
	DisputePending   DisputeStatus = "PENDING"
	DisputeResolved  DisputeStatus = "RESOLVED"
	DisputeCancelled DisputeStatus = "CANCELLED"
)

type DisputeType string

const (
	DisputeRefundRequest      DisputeType = "REFUND_REQUEST"
	DisputeItemNotAsDescribed DisputeType = "ITEM_NOT_AS_DESCRIBED"
	DisputeItemNotReceived    DisputeType = "ITEM_NOT_RECEIVED"
	DisputeWrongItemSent      DisputeType = "WRONG_ITEM_SENT"
	DisputeDamagedItem        DisputeType = "DAMAGED_ITEM"
	DisputeOther              DisputeType = "OTHER"
)

// Verdict is the machine-readable outcome an admin attaches when
// resolving a dispute.
type Verdict string

const (
	VerdictReleaseToSeller Verdict = "release-to-seller"
	VerdictRefundToBuyer   Verdict = "refund-to-buyer"
	VerdictSplit           Verdict = "split"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictReleaseToSeller, VerdictRefundToBuyer, VerdictSplit:
		return true
	}
	return false
}

// Recipient maps a verdict onto who receives the held funds.
func (v Verdict) Recipient() Recipient {
	switch v {
	case VerdictRefundToBuyer:
		return RecipientBuyer
	case VerdictSplit:
		return RecipientSplit
	default:
		return RecipientSeller
	}
}

type Dispute struct {
	ID         string
	OrderID    string
	BuyerID    string
	Type       DisputeType
	Status     DisputeStatus
	Reason     string
	Verdict    Verdict
	Resolution string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// DisputeMessage is one entry of the structured, append-only dispute
// thread. Replaces free-text update markers embedded in descriptions.
type DisputeMessage struct {
	ID         string
	DisputeID  string
	AuthorID   string
	AuthorRole string // buyer, seller, admin
	Body       string
	CreatedAt  time.Time
}

type DisputeFilters struct {
	OrderID string
	BuyerID string
	Status  DisputeStatus
	Type    DisputeType
}

type DisputeRepository interface {
	// CreateDispute fails with ErrAlreadyDisputed when a PENDING dispute
	// already exists for the order.
	CreateDispute(dispute *Dispute) error
	GetDisputeByID(disputeID string) (*Dispute, error)
	// GetOpenDisputeByOrderID returns ErrDisputeNotFound when no PENDING
	// dispute exists.
	GetOpenDisputeByOrderID(orderID string) (*Dispute, error)
	// Resolve compare-and-swaps dispute status from PENDING.
	Resolve(disputeID string, verdict Verdict, resolution string, resolvedAt time.Time) error
	Cancel(disputeID string, cancelledAt time.Time) error

	AppendMessage(msg *DisputeMessage) error
	GetMessages(disputeID string) ([]*DisputeMessage, error)

	GetDisputes(filters DisputeFilters, page, limit int) ([]*Dispute, int64, error)
}
