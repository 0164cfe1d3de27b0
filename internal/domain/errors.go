package domain

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrEscrowNotFound  = errors.New("escrow not found")
	ErrDisputeNotFound = errors.New("dispute not found")

	// ErrIllegalTransition rejects an order-state edge that is not in the
	// allowed table, or whose from-status no longer matches the row.
	ErrIllegalTransition = errors.New("illegal order transition")
	// ErrInvalidTransition guards the escrow ledger: release_status
	// already left PENDING.
	ErrInvalidTransition = errors.New("invalid escrow transition")
	ErrDuplicateEscrow   = errors.New("escrow already exists for order")

	// Benign race losers; callers treat these as success-equivalent.
	ErrAlreadyReleased = errors.New("escrow already released")
	ErrAlreadyDisputed = errors.New("dispute already open for order")

	ErrDisputeOpen           = errors.New("dispute open on order")
	ErrNotShippedOrDelivered = errors.New("order is not shipped or delivered")
	ErrNotOrderBuyer         = errors.New("caller is not the order buyer")
	ErrNotDisputeOwner       = errors.New("caller did not open this dispute")
	ErrMissingDeliveryInfo   = errors.New("shipping requires courier and tracking number")
	ErrPayoutFailed          = errors.New("payout initiation failed")
	ErrConfirmationClosed    = errors.New("confirmation window has closed")
	ErrInvalidVerdict        = errors.New("unknown dispute verdict")
	ErrDisputeClosed         = errors.New("dispute is no longer open")
)
