package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/velmart/settlement-service/internal/domain"
	"github.com/velmart/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/velmart/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

func (r *DefaultDisputeRepository) CreateDispute(dispute *domain.Dispute) error {
	var open models.DisputeModel
	err := r.db.First(&open, "order_id = ? AND status = ?", dispute.OrderID, string(domain.DisputePending)).Error
	if err == nil {
		return domain.ErrAlreadyDisputed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	disputeModel := mappers.ToGORMDispute(dispute)
	if err := r.db.Create(disputeModel).Error; err != nil {
		// partial unique index (order_id) WHERE status = 'PENDING'
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyDisputed
		}
		return err
	}
	return nil
}

func (r *DefaultDisputeRepository) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.db.First(&disputeModel, "id = ?", disputeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) GetOpenDisputeByOrderID(orderID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.db.First(&disputeModel, "order_id = ? AND status = ?", orderID, string(domain.DisputePending)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) Resolve(disputeID string, verdict domain.Verdict, resolution string, resolvedAt time.Time) error {
	res := r.db.Model(&models.DisputeModel{}).
		Where("id = ? AND status = ?", disputeID, string(domain.DisputePending)).
		Updates(map[string]interface{}{
			"status":      string(domain.DisputeResolved),
			"verdict":     string(verdict),
			"resolution":  resolution,
			"resolved_at": resolvedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDisputeNotFound
	}
	return nil
}

func (r *DefaultDisputeRepository) Cancel(disputeID string, cancelledAt time.Time) error {
	res := r.db.Model(&models.DisputeModel{}).
		Where("id = ? AND status = ?", disputeID, string(domain.DisputePending)).
		Updates(map[string]interface{}{
			"status":      string(domain.DisputeCancelled),
			"resolved_at": cancelledAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDisputeNotFound
	}
	return nil
}

func (r *DefaultDisputeRepository) AppendMessage(msg *domain.DisputeMessage) error {
	msgModel := mappers.ToGORMDisputeMessage(msg)
	return r.db.Create(msgModel).Error
}

func (r *DefaultDisputeRepository) GetMessages(disputeID string) ([]*domain.DisputeMessage, error) {
	var msgModels []models.DisputeMessageModel
	if err := r.db.
		Where("dispute_id = ?", disputeID).
		Order("created_at ASC").
		Find(&msgModels).Error; err != nil {
		return nil, err
	}

	msgs := make([]*domain.DisputeMessage, len(msgModels))
	for i := range msgModels {
		msgs[i] = mappers.ToDomainDisputeMessage(&msgModels[i])
	}
	return msgs, nil
}

func (r *DefaultDisputeRepository) GetDisputes(filters domain.DisputeFilters, page, limit int) ([]*domain.Dispute, int64, error) {
	query := r.db.Model(&models.DisputeModel{})

	if filters.OrderID != "" {
		query = query.Where("order_id = ?", filters.OrderID)
	}
	if filters.BuyerID != "" {
		query = query.Where("buyer_id = ?", filters.BuyerID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", string(filters.Status))
	}
	if filters.Type != "" {
		query = query.Where("type = ?", string(filters.Type))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	offset := (page - 1) * limit
	var disputeModels []models.DisputeModel
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&disputeModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find disputes: %w", err)
	}

	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes, total, nil
}
