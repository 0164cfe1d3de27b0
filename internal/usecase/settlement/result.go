package usecase

import "github.com/velmart/settlement-service/internal/domain"

type Outcome string

const (
	// OutcomeReleased - this attempt won the race and committed the release.
	OutcomeReleased Outcome = "released"
	// OutcomeAlreadyReleased - a benign race loser; not an error.
	OutcomeAlreadyReleased Outcome = "already_released"
	// OutcomeRejected - the attempt never reached the critical section.
	OutcomeRejected Outcome = "rejected"
)

const (
	ReasonDisputeOpen  = "dispute_open"
	ReasonNotShipped   = "not_shipped_or_delivered"
	ReasonPayoutFailed = "payout_failed"
	ReasonEscrowFailed = "escrow_failed"
)

type Result struct {
	Outcome   Outcome
	Trigger   domain.ReleaseTrigger
	Recipient domain.Recipient
	Reason    string
	Escrow    *domain.EscrowRecord
}

func (r *Result) Released() bool {
	return r.Outcome == OutcomeReleased
}
