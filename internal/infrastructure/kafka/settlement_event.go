package kafka

// FundsReleasedEvent is consumed by the payout subsystem; at most one is
// ever published per order.
type FundsReleasedEvent struct {
	OrderID   string  `json:"order_id"`
	EscrowID  string  `json:"escrow_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Recipient string  `json:"recipient"`
	Trigger   string  `json:"trigger"`
}

type EscrowFailedEvent struct {
	OrderID  string  `json:"order_id"`
	EscrowID string  `json:"escrow_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Reason   string  `json:"reason"`
}

type DisputeEvent struct {
	DisputeID string `json:"dispute_id"`
	OrderID   string `json:"order_id"`
	BuyerID   string `json:"buyer_id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Verdict   string `json:"verdict,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
