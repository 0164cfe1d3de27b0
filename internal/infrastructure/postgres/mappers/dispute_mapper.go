package mappers

import (
	"github.com/velmart/settlement-service/internal/domain"
	"github.com/velmart/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	return &domain.Dispute{
		ID:         model.ID,
		OrderID:    model.OrderID,
		BuyerID:    model.BuyerID,
		Type:       domain.DisputeType(model.Type),
		Status:     domain.DisputeStatus(model.Status),
		Reason:     model.Reason,
		Verdict:    domain.Verdict(model.Verdict),
		Resolution: model.Resolution,
		CreatedAt:  model.CreatedAt,
		ResolvedAt: model.ResolvedAt,
	}
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:         dispute.ID,
		OrderID:    dispute.OrderID,
		BuyerID:    dispute.BuyerID,
		Type:       string(dispute.Type),
		Status:     string(dispute.Status),
		Reason:     dispute.Reason,
		Verdict:    string(dispute.Verdict),
		Resolution: dispute.Resolution,
		CreatedAt:  dispute.CreatedAt,
		ResolvedAt: dispute.ResolvedAt,
	}
}

func ToDomainDisputeMessage(model *models.DisputeMessageModel) *domain.DisputeMessage {
	return &domain.DisputeMessage{
		ID:         model.ID,
		DisputeID:  model.DisputeID,
		AuthorID:   model.AuthorID,
		AuthorRole: model.AuthorRole,
		Body:       model.Body,
		CreatedAt:  model.CreatedAt,
	}
}

func ToGORMDisputeMessage(msg *domain.DisputeMessage) *models.DisputeMessageModel {
	return &models.DisputeMessageModel{
		ID:         msg.ID,
		DisputeID:  msg.DisputeID,
		AuthorID:   msg.AuthorID,
		AuthorRole: msg.AuthorRole,
		Body:       msg.Body,
		CreatedAt:  msg.CreatedAt,
	}
}
