package repository

import (
	"errors"
	"time"

	"github.com/velmart/settlement-service/internal/domain"
	"github.com/velmart/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultStoreSettingsRepository struct {
	db *gorm.DB
}

func NewDefaultStoreSettingsRepository(db *gorm.DB) *DefaultStoreSettingsRepository {
	return &DefaultStoreSettingsRepository{db: db}
}

func (r *DefaultStoreSettingsRepository) GetStoreSettings(storeID string) (*domain.StoreSettings, error) {
	var model models.StoreSettingsModel
	if err := r.db.First(&model, "store_id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.StoreSettings{
		StoreID:            model.StoreID,
		ConfirmationWindow: time.Duration(model.ConfirmationWindowHours) * time.Hour,
		UpdatedAt:          model.UpdatedAt,
	}, nil
}

func (r *DefaultStoreSettingsRepository) UpsertStoreSettings(settings *domain.StoreSettings) error {
	model := models.StoreSettingsModel{
		StoreID:                 settings.StoreID,
		ConfirmationWindowHours: int(settings.ConfirmationWindow / time.Hour),
	}
	return r.db.Save(&model).Error
}
