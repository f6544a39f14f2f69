package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/app"
	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/domain"
)

func TestHandleCapturePayment(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	successResult := app.CaptureResult{
		Payment: domain.Payment{
			ID:               "pay-123",
			OrderID:          "order-1",
			Amount:           decimal.NewFromInt(500),
			Currency:         "USD",
			PaymentReference: "1234567890123456",
			Status:           domain.PaymentStatusHeldInEscrow,
			PaymentDate:      now,
		},
		Order: domain.Order{
			ID:          "order-1",
			Status:      domain.OrderStatusCompleted,
			TotalAmount: decimal.NewFromInt(500),
			CreatedAt:   now.Add(-time.Hour),
		},
		EscrowDetails: app.EscrowDetails{
			HoldPeriod:       "7 days",
			ReleaseCondition: "Funds released to artists when an admin settles the payment",
			EstimatedRelease: now.Add(7 * 24 * time.Hour),
		},
	}

	validBody := `{"orderId":"order-1","cardNumber":"1234567890123456","cardExpiry":"12/30"}`

	tests := []struct {
		name           string
		body           string
		userID         string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           validBody,
			userID:         "user-1",
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"status":"held_in_escrow"`,
		},
		{
			name:           "missing identity",
			body:           validBody,
			userID:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid json",
			body:           `{"orderId":`,
			userID:         "user-1",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing order id",
			body:           `{"cardNumber":"1234567890123456","cardExpiry":"12/30"}`,
			userID:         "user-1",
			serviceErr:     domain.ErrOrderIDRequired,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "Order ID is required",
		},
		{
			name:           "order not found",
			body:           validBody,
			userID:         "user-1",
			serviceErr:     domain.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "not owner",
			body:           validBody,
			userID:         "user-2",
			serviceErr:     domain.ErrNotOrderOwner,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "already paid",
			body:           validBody,
			userID:         "user-1",
			serviceErr:     domain.ErrOrderAlreadyPaid,
			expectedStatus: http.StatusConflict,
			expectedSubstr: "Order is already paid",
		},
		{
			name:           "cancelled order",
			body:           validBody,
			userID:         "user-1",
			serviceErr:     domain.ErrOrderCancelled,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid card",
			body:           validBody,
			userID:         "user-1",
			serviceErr:     domain.ErrCardInvalid,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: "Credit card is invalid, payment failed",
		},
		{
			name:           "expired card",
			body:           validBody,
			userID:         "user-1",
			serviceErr:     domain.ErrCardExpired,
			expectedStatus: http.StatusConflict,
			expectedSubstr: "Credit card has expired, payment failed",
		},
		{
			name:           "insufficient funds",
			body:           validBody,
			userID:         "user-1",
			serviceErr:     domain.ErrInsufficientFunds,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "insufficient stock",
			body:           validBody,
			userID:         "user-1",
			serviceErr:     &domain.InsufficientStockError{ProductName: "Clay Vase", Requested: 10, Available: 5},
			expectedStatus: http.StatusConflict,
			expectedSubstr: "Insufficient stock for product Clay Vase",
		},
		{
			name:           "internal error",
			body:           validBody,
			userID:         "user-1",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubPaymentService{
				result: successResult,
				err:    tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, "/payments/escrow", bytes.NewBufferString(tt.body))
			if tt.userID != "" {
				req.Header.Set(userIDHeader, tt.userID)
			}
			rec := httptest.NewRecorder()

			handler := HandleCapturePayment(svc)
			handler.ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedSubstr != "" {
				body := rec.Body.String()
				if !strings.Contains(body, tt.expectedSubstr) {
					t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, body)
				}
			}
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/payments/escrow", nil)
		rec := httptest.NewRecorder()
		HandleCapturePayment(&stubPaymentService{}).ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

type stubPaymentService struct {
	result app.CaptureResult
	err    error
}

func (s *stubPaymentService) Capture(_ context.Context, _ app.CaptureInput) (app.CaptureResult, error) {
	if s.err != nil {
		return app.CaptureResult{}, s.err
	}
	return s.result, nil
}
