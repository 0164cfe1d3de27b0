package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/velmart/settlement-service/internal/domain"
	disputeuc "github.com/velmart/settlement-service/internal/usecase/dispute"
	escrowuc "github.com/velmart/settlement-service/internal/usecase/escrow"
	orderuc "github.com/velmart/settlement-service/internal/usecase/order"
	settlementuc "github.com/velmart/settlement-service/internal/usecase/settlement"
)

// Handlers groups the HTTP surface over the settlement engine.
type Handlers struct {
	orderUsecase      orderuc.OrderUsecase
	escrowLedger      escrowuc.EscrowLedger
	coordinator       settlementuc.SettlementCoordinator
	disputeUsecase    disputeuc.DisputeUsecase
	storeSettingsRepo domain.StoreSettingsRepository
}

func NewHandlers(
	orderUsecase orderuc.OrderUsecase,
	escrowLedger escrowuc.EscrowLedger,
	coordinator settlementuc.SettlementCoordinator,
	disputeUsecase disputeuc.DisputeUsecase,
	storeSettingsRepo domain.StoreSettingsRepository,
) *Handlers {
	return &Handlers{
		orderUsecase:      orderUsecase,
		escrowLedger:      escrowLedger,
		coordinator:       coordinator,
		disputeUsecase:    disputeUsecase,
		storeSettingsRepo: storeSettingsRepo,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrEscrowNotFound),
		errors.Is(err, domain.ErrDisputeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotOrderBuyer),
		errors.Is(err, domain.ErrNotDisputeOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrDuplicateEscrow),
		errors.Is(err, domain.ErrAlreadyDisputed),
		errors.Is(err, domain.ErrAlreadyReleased),
		errors.Is(err, domain.ErrDisputeOpen),
		errors.Is(err, domain.ErrDisputeClosed),
		errors.Is(err, domain.ErrNotShippedOrDelivered),
		errors.Is(err, domain.ErrConfirmationClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrMissingDeliveryInfo),
		errors.Is(err, domain.ErrInvalidVerdict):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPayoutFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		slog.Error("unhandled error in http handler", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}
