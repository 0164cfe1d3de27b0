package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/velmart/settlement-service/internal/domain"
	orderuc "github.com/velmart/settlement-service/internal/usecase/order"
)

type createOrderRequest struct {
	BuyerID     string  `json:"buyer_id"`
	StoreID     string  `json:"store_id"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BuyerID == "" || req.StoreID == "" || req.TotalAmount <= 0 || req.Currency == "" {
		writeError(w, http.StatusBadRequest, "buyer_id, store_id, positive total_amount and currency are required")
		return
	}

	order, err := h.orderUsecase.CreateOrder(&orderuc.CreateOrderInput{
		BuyerID:     req.BuyerID,
		StoreID:     req.StoreID,
		TotalAmount: req.TotalAmount,
		Currency:    req.Currency,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUsecase.GetOrderByID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handlers) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orderUsecase.ConfirmOrder(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.StatusConfirmed)})
}

func (h *Handlers) StartProcessing(w http.ResponseWriter, r *http.Request) {
	if err := h.orderUsecase.StartProcessing(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.StatusProcessing)})
}

type shipOrderRequest struct {
	Courier        string `json:"courier"`
	TrackingNumber string `json:"tracking_number"`
}

func (h *Handlers) ShipOrder(w http.ResponseWriter, r *http.Request) {
	var req shipOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.orderUsecase.ShipOrder(&orderuc.ShipOrderInput{
		OrderID:        chi.URLParam(r, "id"),
		Courier:        req.Courier,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.StatusShipped)})
}

type deliveryStatusRequest struct {
	DeliveryStatus string `json:"delivery_status"`
}

func (h *Handlers) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	var req deliveryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := domain.DeliveryStatus(req.DeliveryStatus)
	switch status {
	case domain.DeliveryPending, domain.DeliveryProcessing, domain.DeliveryShipped,
		domain.DeliveryOutForDelivery, domain.DeliveryDelivered, domain.DeliveryReturned:
	default:
		writeError(w, http.StatusBadRequest, "unknown delivery status")
		return
	}

	if err := h.orderUsecase.UpdateDeliveryStatus(chi.URLParam(r, "id"), status); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"delivery_status": string(status)})
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orderUsecase.CancelOrder(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.StatusCancelled)})
}

type confirmReceiptRequest struct {
	BuyerID string `json:"buyer_id"`
}

func (h *Handlers) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	var req confirmReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.coordinator.ConfirmReceipt(r.Context(), chi.URLParam(r, "id"), req.BuyerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": result.Outcome,
		"escrow":  result.Escrow,
	})
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	filters := domain.OrderFilters{
		BuyerID: r.URL.Query().Get("buyer_id"),
		StoreID: r.URL.Query().Get("store_id"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		filters.Statuses = []domain.OrderStatus{domain.OrderStatus(s)}
	}
	page := parseIntDefault(r.URL.Query().Get("page"), 1)
	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)

	orders, total, err := h.orderUsecase.GetOrders(filters, page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}
