package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/velmart/settlement-service/internal/domain"
	disputeuc "github.com/velmart/settlement-service/internal/usecase/dispute"
)

type openDisputeRequest struct {
	OrderID string `json:"order_id"`
	BuyerID string `json:"buyer_id"`
	Type    string `json:"type"`
	Reason  string `json:"reason"`
}

func (h *Handlers) OpenDispute(w http.ResponseWriter, r *http.Request) {
	var req openDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == "" || req.BuyerID == "" || req.Reason == "" {
		writeError(w, http.StatusBadRequest, "order_id, buyer_id and reason are required")
		return
	}

	dispute, err := h.disputeUsecase.OpenDispute(r.Context(), &disputeuc.OpenDisputeInput{
		OrderID: req.OrderID,
		BuyerID: req.BuyerID,
		Type:    domain.DisputeType(req.Type),
		Reason:  req.Reason,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dispute)
}

func (h *Handlers) GetDispute(w http.ResponseWriter, r *http.Request) {
	dispute, err := h.disputeUsecase.GetDisputeByID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}

type resolveDisputeRequest struct {
	Verdict    string `json:"verdict"`
	Resolution string `json:"resolution"`
}

func (h *Handlers) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	var req resolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.disputeUsecase.ResolveDispute(
		r.Context(), chi.URLParam(r, "id"), domain.Verdict(req.Verdict), req.Resolution)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": result.Outcome,
		"escrow":  result.Escrow,
	})
}

type cancelDisputeRequest struct {
	BuyerID string `json:"buyer_id"`
}

func (h *Handlers) CancelDispute(w http.ResponseWriter, r *http.Request) {
	var req cancelDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.disputeUsecase.CancelDispute(r.Context(), chi.URLParam(r, "id"), req.BuyerID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.DisputeCancelled)})
}

type addMessageRequest struct {
	AuthorID   string `json:"author_id"`
	AuthorRole string `json:"author_role"`
	Body       string `json:"body"`
}

func (h *Handlers) AddDisputeMessage(w http.ResponseWriter, r *http.Request) {
	var req addMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AuthorID == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "author_id and body are required")
		return
	}

	message, err := h.disputeUsecase.AddMessage(&disputeuc.AddMessageInput{
		DisputeID:  chi.URLParam(r, "id"),
		AuthorID:   req.AuthorID,
		AuthorRole: req.AuthorRole,
		Body:       req.Body,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (h *Handlers) GetDisputeMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.disputeUsecase.GetMessages(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *Handlers) ListDisputes(w http.ResponseWriter, r *http.Request) {
	filters := domain.DisputeFilters{
		OrderID: r.URL.Query().Get("order_id"),
		BuyerID: r.URL.Query().Get("buyer_id"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		filters.Status = domain.DisputeStatus(s)
	}
	if t := r.URL.Query().Get("type"); t != "" {
		filters.Type = domain.DisputeType(t)
	}
	page := parseIntDefault(r.URL.Query().Get("page"), 1)
	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)

	disputes, total, err := h.disputeUsecase.GetDisputes(filters, page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"disputes": disputes,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}
