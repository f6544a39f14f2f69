package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/domain"
)

const (
	codeMethodNotAllowed = "method_not_allowed"
	codeNotFound         = "not_found"
	codeForbidden        = "forbidden"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Success: false,
		Message: msg,
		Code:    code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"success":false,"message":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps the escrow error taxonomy to HTTP status classes.
// Unknown errors become a generic 500 so internals never leak.
func writeDomainError(w http.ResponseWriter, err error) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
		return
	}

	switch err {
	case domain.ErrOrderIDRequired,
		domain.ErrCardNumberRequired,
		domain.ErrCardNumberLength,
		domain.ErrPaymentIDRequired,
		domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case domain.ErrOrderNotFound,
		domain.ErrCustomerNotFound,
		domain.ErrCardInvalid,
		domain.ErrProductNotFound,
		domain.ErrPaymentNotFound,
		domain.ErrUserNotAuthorized:
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case domain.ErrNotOrderOwner:
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case domain.ErrOrderAlreadyPaid,
		domain.ErrOrderCancelled,
		domain.ErrCardExpired,
		domain.ErrInsufficientFunds,
		domain.ErrNoOrderItems,
		domain.ErrPaymentNotHeld:
		writeError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
