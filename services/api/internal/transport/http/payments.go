package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/app"
)

// userIDHeader carries the subject resolved by the upstream identity
// provider; authentication itself happens before requests reach this service.
const userIDHeader = "X-User-ID"

// PaymentCapturer is the minimal interface needed to capture an escrow payment.
type PaymentCapturer interface {
	Capture(ctx context.Context, in app.CaptureInput) (app.CaptureResult, error)
}

// HandleCapturePayment returns an HTTP handler for creating escrow-held payments.
func HandleCapturePayment(svc PaymentCapturer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		payerID := r.Header.Get(userIDHeader)
		if payerID == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		var req capturePaymentRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "invalid request body")
			return
		}

		res, err := svc.Capture(r.Context(), app.CaptureInput{
			OrderID:    req.OrderID,
			PayerID:    payerID,
			CardNumber: req.CardNumber,
			CardExpiry: req.CardExpiry,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := capturePaymentResponse{
			Success: true,
			Message: "Payment held in escrow successfully",
			Data: capturePaymentData{
				PaymentID:        res.Payment.ID,
				OrderID:          res.Payment.OrderID,
				Amount:           res.Payment.Amount,
				Currency:         res.Payment.Currency,
				PaymentReference: res.Payment.PaymentReference,
				Status:           string(res.Payment.Status),
				EscrowDetails: escrowDetailsResponse{
					HoldPeriod:       res.EscrowDetails.HoldPeriod,
					ReleaseCondition: res.EscrowDetails.ReleaseCondition,
					EstimatedRelease: res.EscrowDetails.EstimatedRelease.Format(time.RFC3339),
				},
				Order: orderSnapshotResponse{
					OrderID:     res.Order.ID,
					Status:      string(res.Order.Status),
					TotalAmount: res.Order.TotalAmount,
					CreatedAt:   res.Order.CreatedAt,
				},
			},
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

type capturePaymentRequest struct {
	OrderID    string `json:"orderId"`
	CardNumber string `json:"cardNumber"`
	CardExpiry string `json:"cardExpiry"`
}

type capturePaymentResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    capturePaymentData `json:"data"`
}

type capturePaymentData struct {
	PaymentID        string                `json:"paymentId"`
	OrderID          string                `json:"orderId"`
	Amount           decimal.Decimal       `json:"amount"`
	Currency         string                `json:"currency"`
	PaymentReference string                `json:"paymentReference"`
	Status           string                `json:"status"`
	EscrowDetails    escrowDetailsResponse `json:"escrowDetails"`
	Order            orderSnapshotResponse `json:"order"`
}

type escrowDetailsResponse struct {
	HoldPeriod       string `json:"holdPeriod"`
	ReleaseCondition string `json:"releaseCondition"`
	EstimatedRelease string `json:"estimatedRelease"`
}

type orderSnapshotResponse struct {
	OrderID     string          `json:"orderId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}
