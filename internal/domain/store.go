package domain

import "time"

// StoreSettings carries per-store overrides for the settlement engine.
// A zero ConfirmationWindow means "use the platform default".
type StoreSettings struct {
	StoreID            string
	ConfirmationWindow time.Duration
	UpdatedAt          time.Time
}

type StoreSettingsRepository interface {
	GetStoreSettings(storeID string) (*StoreSettings, error)
	UpsertStoreSettings(settings *StoreSettings) error
}
