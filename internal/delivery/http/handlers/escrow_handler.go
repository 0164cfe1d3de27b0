package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/velmart/settlement-service/internal/domain"
	escrowuc "github.com/velmart/settlement-service/internal/usecase/escrow"
)

type createEscrowRequest struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (h *Handlers) CreateEscrow(w http.ResponseWriter, r *http.Request) {
	var req createEscrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == "" || req.Amount <= 0 || req.Currency == "" {
		writeError(w, http.StatusBadRequest, "order_id, positive amount and currency are required")
		return
	}

	escrow, err := h.escrowLedger.CreateEscrow(&escrowuc.CreateEscrowInput{
		OrderID:  req.OrderID,
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, escrow)
}

func (h *Handlers) GetOrderEscrow(w http.ResponseWriter, r *http.Request) {
	status, err := h.coordinator.GetEscrowStatus(chi.URLParam(r, "id"), r.URL.Query().Get("buyer_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"escrow":              status.Escrow,
		"can_confirm_receipt": status.CanConfirmReceipt,
	})
}

func (h *Handlers) GetEscrow(w http.ResponseWriter, r *http.Request) {
	escrow, err := h.escrowLedger.GetEscrowByID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, escrow)
}

func (h *Handlers) ListEscrows(w http.ResponseWriter, r *http.Request) {
	status := domain.ReleaseStatus(r.URL.Query().Get("status"))
	page := parseIntDefault(r.URL.Query().Get("page"), 1)
	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)

	escrows, total, err := h.escrowLedger.ListEscrows(status, page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"escrows": escrows,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
