package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velmart/settlement-service/internal/delivery/http/handlers"
	"github.com/velmart/settlement-service/internal/domain"
	disputeuc "github.com/velmart/settlement-service/internal/usecase/dispute"
	escrowuc "github.com/velmart/settlement-service/internal/usecase/escrow"
	orderuc "github.com/velmart/settlement-service/internal/usecase/order"
	settlementuc "github.com/velmart/settlement-service/internal/usecase/settlement"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	orderUsecase orderuc.OrderUsecase,
	escrowLedger escrowuc.EscrowLedger,
	coordinator settlementuc.SettlementCoordinator,
	disputeUsecase disputeuc.DisputeUsecase,
	storeSettingsRepo domain.StoreSettingsRepository,
) http.Handler {
	h := handlers.NewHandlers(orderUsecase, escrowLedger, coordinator, disputeUsecase, storeSettingsRepo)

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		// Escrows (payment capture).
		r.Post("/escrows", h.CreateEscrow)
		r.Get("/escrows/{id}", h.GetEscrow)

		// Order lifecycle.
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{id}", h.GetOrder)
		r.Post("/orders/{id}/confirm", h.ConfirmOrder)
		r.Post("/orders/{id}/processing", h.StartProcessing)
		r.Post("/orders/{id}/ship", h.ShipOrder)
		r.Post("/orders/{id}/delivery-status", h.UpdateDeliveryStatus)
		r.Post("/orders/{id}/cancel", h.CancelOrder)

		// Settlement.
		r.Post("/orders/{id}/confirm-receipt", h.ConfirmReceipt)
		r.Get("/orders/{id}/escrow", h.GetOrderEscrow)

		// Disputes.
		r.Post("/disputes", h.OpenDispute)
		r.Get("/disputes", h.ListDisputes)
		r.Get("/disputes/{id}", h.GetDispute)
		r.Post("/disputes/{id}/resolve", h.ResolveDispute)
		r.Post("/disputes/{id}/cancel", h.CancelDispute)
		r.Post("/disputes/{id}/messages", h.AddDisputeMessage)
		r.Get("/disputes/{id}/messages", h.GetDisputeMessages)

		// Admin.
		r.Get("/admin/escrows", h.ListEscrows)
		r.Get("/admin/stores/{id}/settings", h.GetStoreSettings)
		r.Put("/admin/stores/{id}/settings", h.UpsertStoreSettings)
	})

	return r
}
