package http

import (
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

func TestHandleReleaseEscrow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		path           string
		userID         string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			path:           "/payments/pay-1/release",
			userID:         "admin-1",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"status":"released"`,
		},
		{
			name:           "missing identity",
			path:           "/payments/pay-1/release",
			userID:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad path",
			path:           "/payments/pay-1/refund",
			userID:         "admin-1",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unauthorized actor",
			path:           "/payments/pay-1/release",
			userID:         "user-1",
			serviceErr:     domain.ErrUserNotAuthorized,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: "User not found or unauthorized",
		},
		{
			name:           "payment not found",
			path:           "/payments/missing/release",
			userID:         "admin-1",
			serviceErr:     domain.ErrPaymentNotFound,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: "Payment not found",
		},
		{
			name:           "not held in escrow",
			path:           "/payments/pay-1/release",
			userID:         "admin-1",
			serviceErr:     domain.ErrPaymentNotHeld,
			expectedStatus: http.StatusConflict,
			expectedSubstr: "Payment is not held in escrow",
		},
		{
			name:           "internal error",
			path:           "/payments/pay-1/release",
			userID:         "admin-1",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubSettlementService{
				result: app.ReleaseResult{PaymentID: "pay-1", ReleasedAt: now},
				err:    tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.userID != "" {
				req.Header.Set(userIDHeader, tt.userID)
			}
			rec := httptest.NewRecorder()

			handler := HandleReleaseEscrow(svc)
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleListHeldPayments(t *testing.T) {
	t.Parallel()

	held := []domain.Payment{
		{
			ID:               "pay-1",
			OrderID:          "order-1",
			Amount:           decimal.NewFromInt(500),
			Currency:         "USD",
			PaymentReference: "1234567890123456",
			Status:           domain.PaymentStatusHeldInEscrow,
		},
	}

	t.Run("admin sees held payments", func(t *testing.T) {
		t.Parallel()
		svc := &stubSettlementService{held: held, admins: map[string]bool{"admin-1": true}}
		req := httptest.NewRequest(http.MethodGet, "/payments/held", nil)
		req.Header.Set(userIDHeader, "admin-1")
		rec := httptest.NewRecorder()

		HandleListHeldPayments(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"paymentId":"pay-1"`) {
			t.Fatalf("expected payment in body, got %q", rec.Body.String())
		}
	})

	t.Run("non admin reported as not found", func(t *testing.T) {
		t.Parallel()
		svc := &stubSettlementService{held: held, admins: map[string]bool{}}
		req := httptest.NewRequest(http.MethodGet, "/payments/held", nil)
		req.Header.Set(userIDHeader, "user-1")
		rec := httptest.NewRecorder()

		HandleListHeldPayments(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("list failure is internal error", func(t *testing.T) {
		t.Parallel()
		svc := &stubSettlementService{listErr: errors.New("boom"), admins: map[string]bool{"admin-1": true}}
		req := httptest.NewRequest(http.MethodGet, "/payments/held", nil)
		req.Header.Set(userIDHeader, "admin-1")
		rec := httptest.NewRecorder()

		HandleListHeldPayments(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

type stubSettlementService struct {
	result  app.ReleaseResult
	err     error
	held    []domain.Payment
	listErr error
	admins  map[string]bool
}

func (s *stubSettlementService) Release(_ context.Context, _ app.ReleaseInput) (app.ReleaseResult, error) {
	if s.err != nil {
		return app.ReleaseResult{}, s.err
	}
	return s.result, nil
}

func (s *stubSettlementService) ListHeld(_ context.Context) ([]domain.Payment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.held, nil
}

func (s *stubSettlementService) IsAdmin(_ context.Context, userID string) bool {
	return s.admins[userID]
}
