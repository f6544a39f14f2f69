package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/app"
	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/domain"
)

// EscrowReleaser is the minimal interface needed to settle escrowed payments.
type EscrowReleaser interface {
	Release(ctx context.Context, in app.ReleaseInput) (app.ReleaseResult, error)
}

// HeldPaymentLister lists escrowed payments for administrative review.
type HeldPaymentLister interface {
	ListHeld(ctx context.Context) ([]domain.Payment, error)
	IsAdmin(ctx context.Context, userID string) bool
}

// HandleReleaseEscrow returns an HTTP handler for releasing escrowed payments
// to artists.
func HandleReleaseEscrow(svc EscrowReleaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		paymentID, ok := parseReleasePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		actorID := r.Header.Get(userIDHeader)
		if actorID == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		res, err := svc.Release(r.Context(), app.ReleaseInput{
			PaymentID: paymentID,
			ActorID:   actorID,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, releaseResponse{
			Success: true,
			Message: "Payment released from escrow successfully",
			Data: releaseData{
				PaymentID:  res.PaymentID,
				Status:     string(domain.PaymentStatusReleased),
				ReleasedAt: res.ReleasedAt,
			},
		})
	}
}

// HandleListHeldPayments returns an HTTP handler listing all payments held in
// escrow. Admin only.
func HandleListHeldPayments(svc HeldPaymentLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		actorID := r.Header.Get(userIDHeader)
		if actorID == "" || !svc.IsAdmin(r.Context(), actorID) {
			writeError(w, http.StatusNotFound, codeNotFound, domain.ErrUserNotAuthorized.Error())
			return
		}

		payments, err := svc.ListHeld(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		data := make([]heldPaymentResponse, 0, len(payments))
		for _, p := range payments {
			data = append(data, heldPaymentResponse{
				PaymentID:        p.ID,
				OrderID:          p.OrderID,
				Amount:           p.Amount,
				Currency:         p.Currency,
				PaymentReference: p.PaymentReference,
				Status:           string(p.Status),
				PaymentDate:      p.PaymentDate,
			})
		}
		writeJSON(w, http.StatusOK, heldPaymentsResponse{Success: true, Data: data})
	}
}

func parseReleasePath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "payments" || parts[2] != "release" {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type releaseResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    releaseData `json:"data"`
}

type releaseData struct {
	PaymentID  string    `json:"paymentId"`
	Status     string    `json:"status"`
	ReleasedAt time.Time `json:"releasedAt"`
}

type heldPaymentsResponse struct {
	Success bool                  `json:"success"`
	Data    []heldPaymentResponse `json:"data"`
}

type heldPaymentResponse struct {
	PaymentID        string          `json:"paymentId"`
	OrderID          string          `json:"orderId"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	PaymentReference string          `json:"paymentReference"`
	Status           string          `json:"status"`
	PaymentDate      time.Time       `json:"paymentDate"`
}
