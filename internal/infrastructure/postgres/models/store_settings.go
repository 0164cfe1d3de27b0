package models

import "time"

type StoreSettingsModel struct {
	StoreID                 string `gorm:"primaryKey;type:uuid"`
	ConfirmationWindowHours int
	UpdatedAt               time.Time
}
