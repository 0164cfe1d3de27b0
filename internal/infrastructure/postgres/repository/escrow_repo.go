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

type DefaultEscrowRepository struct {
	DB *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{DB: db}
}

func (r *DefaultEscrowRepository) CreateEscrow(escrow *domain.EscrowRecord) error {
	var existing models.EscrowModel
	err := r.DB.First(&existing, "order_id = ?", escrow.OrderID).Error
	if err == nil {
		return domain.ErrDuplicateEscrow
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	escrowModel := mappers.ToGORMEscrow(escrow)
	if err := r.DB.Create(escrowModel).Error; err != nil {
		// unique index on order_id closes the check-then-create window
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEscrow
		}
		return err
	}
	return nil
}

func (r *DefaultEscrowRepository) GetEscrowByID(escrowID string) (*domain.EscrowRecord, error) {
	var escrowModel models.EscrowModel
	if err := r.DB.First(&escrowModel, "id = ?", escrowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEscrowNotFound
		}
		return nil, err
	}
	return mappers.ToDomainEscrow(&escrowModel), nil
}

func (r *DefaultEscrowRepository) GetEscrowByOrderID(orderID string) (*domain.EscrowRecord, error) {
	var escrowModel models.EscrowModel
	if err := r.DB.First(&escrowModel, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEscrowNotFound
		}
		return nil, err
	}
	return mappers.ToDomainEscrow(&escrowModel), nil
}

// MarkReleased is the single compare-and-swap that decides the winner
// among racing release attempts. Zero rows affected means release_status
// already left PENDING.
func (r *DefaultEscrowRepository) MarkReleased(escrowID string, trigger domain.ReleaseTrigger, recipient domain.Recipient, reason string) error {
	now := time.Now()
	res := r.DB.Model(&models.EscrowModel{}).
		Where("id = ? AND release_status = ?", escrowID, domain.ReleasePending).
		Updates(map[string]interface{}{
			"release_status": domain.ReleaseReleased,
			"released_at":    now,
			"released_to":    string(trigger),
			"recipient":      string(recipient),
			"release_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *DefaultEscrowRepository) MarkFailed(escrowID string, reason string) error {
	res := r.DB.Model(&models.EscrowModel{}).
		Where("id = ? AND release_status = ?", escrowID, domain.ReleasePending).
		Updates(map[string]interface{}{
			"release_status": domain.ReleaseFailed,
			"release_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Schedule re-arms the auto-release deadline. Replacing a prior deadline
// also clears a previous claim so the new deadline fires once on its own.
func (r *DefaultEscrowRepository) Schedule(orderID string, releaseDate time.Time) error {
	res := r.DB.Model(&models.EscrowModel{}).
		Where("order_id = ? AND release_status = ?", orderID, domain.ReleasePending).
		Updates(map[string]interface{}{
			"release_date":       releaseDate,
			"schedule_suspended": false,
			"auto_fired_at":      nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEscrowNotFound
	}
	return nil
}

func (r *DefaultEscrowRepository) SuspendSchedule(orderID string) error {
	return r.DB.Model(&models.EscrowModel{}).
		Where("order_id = ?", orderID).
		Update("schedule_suspended", true).Error
}

// ResumeSchedule lifts a dispute freeze. It also clears any claim
// consumed while the freeze was landing, so the poller can pick the
// deadline up again; the release CAS keeps a duplicate firing harmless.
func (r *DefaultEscrowRepository) ResumeSchedule(orderID string) error {
	return r.DB.Model(&models.EscrowModel{}).
		Where("order_id = ? AND release_status = ?", orderID, domain.ReleasePending).
		Updates(map[string]interface{}{
			"schedule_suspended": false,
			"auto_fired_at":      nil,
		}).Error
}

// ClaimDue selects due escrows and claims each with a conditional
// UPDATE, so concurrent pollers never fire the same escrow twice.
func (r *DefaultEscrowRepository) ClaimDue(now time.Time, limit int) ([]*domain.EscrowRecord, error) {
	var due []models.EscrowModel
	if err := r.DB.
		Where("release_status = ?", domain.ReleasePending).
		Where("schedule_suspended = false").
		Where("auto_fired_at IS NULL").
		Where("release_date IS NOT NULL AND release_date <= ?", now).
		Limit(limit).
		Find(&due).Error; err != nil {
		return nil, fmt.Errorf("failed to find due escrows: %w", err)
	}

	claimed := make([]*domain.EscrowRecord, 0, len(due))
	for i := range due {
		res := r.DB.Model(&models.EscrowModel{}).
			Where("id = ? AND release_status = ? AND auto_fired_at IS NULL", due[i].ID, domain.ReleasePending).
			Update("auto_fired_at", now)
		if res.Error != nil {
			return claimed, res.Error
		}
		if res.RowsAffected == 1 {
			claimed = append(claimed, mappers.ToDomainEscrow(&due[i]))
		}
	}
	return claimed, nil
}

// FindStalePending returns escrows claimed by a previous process that
// never settled, so a restart can re-fire them once.
func (r *DefaultEscrowRepository) FindStalePending(now time.Time) ([]*domain.EscrowRecord, error) {
	var stale []models.EscrowModel
	if err := r.DB.
		Where("release_status = ?", domain.ReleasePending).
		Where("schedule_suspended = false").
		Where("auto_fired_at IS NOT NULL").
		Where("release_date IS NOT NULL AND release_date <= ?", now).
		Find(&stale).Error; err != nil {
		return nil, err
	}

	escrows := make([]*domain.EscrowRecord, len(stale))
	for i := range stale {
		escrows[i] = mappers.ToDomainEscrow(&stale[i])
	}
	return escrows, nil
}

func (r *DefaultEscrowRepository) ListEscrows(status domain.ReleaseStatus, page, limit int) ([]*domain.EscrowRecord, int64, error) {
	baseQuery := r.DB.Model(&models.EscrowModel{})
	if status != "" {
		baseQuery = baseQuery.Where("release_status = ?", status)
	}

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	offset := (page - 1) * limit
	var escrowModels []models.EscrowModel
	if err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&escrowModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find escrows: %w", err)
	}

	escrows := make([]*domain.EscrowRecord, len(escrowModels))
	for i := range escrowModels {
		escrows[i] = mappers.ToDomainEscrow(&escrowModels[i])
	}
	return escrows, total, nil
}
