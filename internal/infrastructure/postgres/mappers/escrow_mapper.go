package mappers

import (
	"github.com/velmart/settlement-service/internal/domain"
	"github.com/velmart/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainEscrow(model *models.EscrowModel) *domain.EscrowRecord {
	return &domain.EscrowRecord{
		ID:                model.ID,
		OrderID:           model.OrderID,
		AmountHeld:        model.AmountHeld,
		Currency:          model.Currency,
		ReleaseStatus:     model.ReleaseStatus,
		ReleaseDate:       model.ReleaseDate,
		ScheduleSuspended: model.ScheduleSuspended,
		AutoFiredAt:       model.AutoFiredAt,
		ReleasedAt:        model.ReleasedAt,
		ReleasedTo:        domain.ReleaseTrigger(model.ReleasedTo),
		Recipient:         domain.Recipient(model.Recipient),
		ReleaseReason:     model.ReleaseReason,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func ToGORMEscrow(escrow *domain.EscrowRecord) *models.EscrowModel {
	return &models.EscrowModel{
		ID:                escrow.ID,
		OrderID:           escrow.OrderID,
		AmountHeld:        escrow.AmountHeld,
		Currency:          escrow.Currency,
		ReleaseStatus:     escrow.ReleaseStatus,
		ReleaseDate:       escrow.ReleaseDate,
		ScheduleSuspended: escrow.ScheduleSuspended,
		AutoFiredAt:       escrow.AutoFiredAt,
		ReleasedAt:        escrow.ReleasedAt,
		ReleasedTo:        string(escrow.ReleasedTo),
		Recipient:         string(escrow.Recipient),
		ReleaseReason:     escrow.ReleaseReason,
		CreatedAt:         escrow.CreatedAt,
		UpdatedAt:         escrow.UpdatedAt,
	}
}
