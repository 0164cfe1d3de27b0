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

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.Create(orderModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(orderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	if err := r.DB.First(&orderModel, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&orderModel), nil
}

// TransitionStatus moves the order from -> to in a single conditional
// UPDATE. Zero rows affected means the persisted status no longer
// matches from, so some concurrent writer got there first.
func (r *DefaultOrderRepository) TransitionStatus(orderID string, from, to domain.OrderStatus) error {
	res := r.DB.Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrIllegalTransition
	}
	return nil
}

func (r *DefaultOrderRepository) SetShippingInfo(orderID, courier, trackingNumber string, shippedAt time.Time) error {
	return r.DB.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"courier":         courier,
			"tracking_number": trackingNumber,
			"shipped_at":      shippedAt,
		}).Error
}

func (r *DefaultOrderRepository) SetDeliveredAt(orderID string, deliveredAt time.Time) error {
	return r.DB.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Update("delivered_at", deliveredAt).Error
}

func (r *DefaultOrderRepository) SetDeliveryStatus(orderID string, status domain.DeliveryStatus) error {
	return r.DB.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Update("delivery_status", status).Error
}

func (r *DefaultOrderRepository) GetOrders(filters domain.OrderFilters, page, limit int) ([]*domain.Order, int64, error) {
	baseQuery := r.DB.Model(&models.OrderModel{})

	if filters.BuyerID != "" {
		baseQuery = baseQuery.Where("buyer_id = ?", filters.BuyerID)
	}
	if filters.StoreID != "" {
		baseQuery = baseQuery.Where("store_id = ?", filters.StoreID)
	}
	if len(filters.Statuses) > 0 {
		baseQuery = baseQuery.Where("status IN (?)", filters.Statuses)
	}
	if !filters.DateFrom.IsZero() {
		baseQuery = baseQuery.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		baseQuery = baseQuery.Where("created_at <= ?", filters.DateTo)
	}

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * limit
	var orderModels []models.OrderModel
	if err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find orders: %w", err)
	}

	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}

	return orders, total, nil
}
