package usecase

import (
	"log/slog"
	"time"
)

// ConfirmationWindowFor resolves the confirmation window for a store.
// A store override wins when present and positive, otherwise the
// platform default applies.
func (uc *DefaultOrderUsecase) ConfirmationWindowFor(storeID string) time.Duration {
	settings, err := uc.StoreSettingsRepo.GetStoreSettings(storeID)
	if err != nil {
		slog.Error("failed to load store settings, using default window", "store_id", storeID, "error", err.Error())
		return uc.DefaultWindow
	}
	if settings != nil && settings.ConfirmationWindow > 0 {
		return settings.ConfirmationWindow
	}
	return uc.DefaultWindow
}
