package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/velmart/settlement-service/internal/domain"
)

type storeSettingsRequest struct {
	ConfirmationWindowHours int `json:"confirmation_window_hours"`
}

func (h *Handlers) UpsertStoreSettings(w http.ResponseWriter, r *http.Request) {
	var req storeSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConfirmationWindowHours < 0 {
		writeError(w, http.StatusBadRequest, "confirmation_window_hours must not be negative")
		return
	}

	settings := &domain.StoreSettings{
		StoreID:            chi.URLParam(r, "id"),
		ConfirmationWindow: time.Duration(req.ConfirmationWindowHours) * time.Hour,
	}
	if err := h.storeSettingsRepo.UpsertStoreSettings(settings); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"store_id":                  settings.StoreID,
		"confirmation_window_hours": req.ConfirmationWindowHours,
	})
}

func (h *Handlers) GetStoreSettings(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "id")
	window := h.orderUsecase.ConfirmationWindowFor(storeID)
	writeJSON(w, http.StatusOK, map[string]any{
		"store_id":                  storeID,
		"confirmation_window_hours": int(window.Hours()),
	})
}
