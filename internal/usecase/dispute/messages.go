package usecase

import (
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/velmart/settlement-service/internal/domain"
)

// AddMessage appends one entry to the dispute thread. Structured rows
// instead of update markers concatenated into a description string.
func (disputeUc *DefaultDisputeUsecase) AddMessage(input *AddMessageInput) (*domain.DisputeMessage, error) {
	dispute, err := disputeUc.disputeRepo.GetDisputeByID(input.DisputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status != domain.DisputePending {
		return nil, domain.ErrDisputeClosed
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}

	msg := &domain.DisputeMessage{
		ID:         idGenerator(),
		DisputeID:  dispute.ID,
		AuthorID:   input.AuthorID,
		AuthorRole: input.AuthorRole,
		Body:       input.Body,
		CreatedAt:  time.Now(),
	}

	if err := disputeUc.disputeRepo.AppendMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (disputeUc *DefaultDisputeUsecase) GetMessages(disputeID string) ([]*domain.DisputeMessage, error) {
	return disputeUc.disputeRepo.GetMessages(disputeID)
}

func (disputeUc *DefaultDisputeUsecase) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	return disputeUc.disputeRepo.GetDisputeByID(disputeID)
}

func (disputeUc *DefaultDisputeUsecase) GetDisputes(filters domain.DisputeFilters, page, limit int) ([]*domain.Dispute, int64, error) {
	return disputeUc.disputeRepo.GetDisputes(filters, page, limit)
}
