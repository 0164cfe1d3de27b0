package mappers

import (
	"github.com/velmart/settlement-service/internal/domain"
	"github.com/velmart/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:             model.ID,
		BuyerID:        model.BuyerID,
		StoreID:        model.StoreID,
		TotalAmount:    model.TotalAmount,
		Currency:       model.Currency,
		Status:         model.Status,
		DeliveryStatus: model.DeliveryStatus,
		Courier:        model.Courier,
		TrackingNumber: model.TrackingNumber,
		ShippedAt:      model.ShippedAt,
		DeliveredAt:    model.DeliveredAt,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:             order.ID,
		BuyerID:        order.BuyerID,
		StoreID:        order.StoreID,
		TotalAmount:    order.TotalAmount,
		Currency:       order.Currency,
		Status:         order.Status,
		DeliveryStatus: order.DeliveryStatus,
		Courier:        order.Courier,
		TrackingNumber: order.TrackingNumber,
		ShippedAt:      order.ShippedAt,
		DeliveredAt:    order.DeliveredAt,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}
