package models

import (
	"time"
)

type DisputeModel struct {
	ID         string     `gorm:"primaryKey"`
	OrderID    string     `gorm:"type:uuid;index"`
	BuyerID    string     `gorm:"type:uuid"`
	Type       string
	Status     string     `gorm:"index"`
	Reason     string
	Verdict    string
	Resolution string
	Order      OrderModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ResolvedAt *time.Time
}

type DisputeMessageModel struct {
	ID         string       `gorm:"primaryKey"`
	DisputeID  string       `gorm:"index"`
	AuthorID   string
	AuthorRole string
	Body       string       `gorm:"type:text"`
	Dispute    DisputeModel `gorm:"foreignKey:DisputeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt  time.Time
}
