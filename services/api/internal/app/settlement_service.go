package app

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/clock"
	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/domain"
)

// SettlementRepository is the storage surface for releasing escrowed payments.
type SettlementRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetUserByID(ctx context.Context, userID string) (domain.User, error)
	GetPaymentForUpdate(ctx context.Context, paymentID string) (domain.Payment, error)
	OrderExists(ctx context.Context, orderID string) (bool, error)
	ListOrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error)
	SetSellingNumber(ctx context.Context, productID string, quantity int) error
	CreateSalesEntry(ctx context.Context, entry domain.SalesEntry) error
	AddToArtistSales(ctx context.Context, artistID string, amount decimal.Decimal) error
	ReleasePayment(ctx context.Context, paymentID string, releasedAt time.Time) error
	ListHeldPayments(ctx context.Context) ([]domain.Payment, error)
}

type SettlementService struct {
	repo  SettlementRepository
	clock clock.Clock
}

func NewSettlementService(repo SettlementRepository, clk clock.Clock) *SettlementService {
	return &SettlementService{
		repo:  repo,
		clock: clk,
	}
}

type ReleaseInput struct {
	PaymentID string
	ActorID   string
}

type ReleaseResult struct {
	PaymentID  string
	ReleasedAt time.Time
}

// Release distributes an escrowed payment to the artists who supplied the
// order's products and flips the payment to released.
func (s *SettlementService) Release(ctx context.Context, in ReleaseInput) (ReleaseResult, error) {
	if in.PaymentID == "" {
		return ReleaseResult{}, domain.ErrPaymentIDRequired
	}

	// Privilege failures read the same as a missing user on purpose, so
	// callers cannot probe which admin accounts exist.
	actor, err := s.repo.GetUserByID(ctx, in.ActorID)
	if err != nil || actor.Role != domain.UserRoleAdmin {
		return ReleaseResult{}, domain.ErrUserNotAuthorized
	}

	now := s.clock.Now()
	var result ReleaseResult

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		payment, err := s.repo.GetPaymentForUpdate(txCtx, in.PaymentID)
		if err != nil {
			return err
		}
		if err := payment.CanTransition(domain.PaymentStatusReleased); err != nil {
			return domain.ErrPaymentNotHeld
		}

		exists, err := s.repo.OrderExists(txCtx, payment.OrderID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrOrderNotFound
		}

		items, err := s.repo.ListOrderLines(txCtx, payment.OrderID)
		if err != nil {
			return err
		}

		totals := make(map[string]decimal.Decimal)
		for _, item := range items {
			if err := s.repo.SetSellingNumber(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			revenue := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			totals[item.ArtistID] = totals[item.ArtistID].Add(revenue)
		}

		// Deterministic write order; amounts are already summed per artist
		// so iteration order never changes the outcome.
		artistIDs := make([]string, 0, len(totals))
		for artistID := range totals {
			artistIDs = append(artistIDs, artistID)
		}
		sort.Strings(artistIDs)

		for _, artistID := range artistIDs {
			share := totals[artistID]
			if share.IsZero() {
				continue
			}
			entry := domain.SalesEntry{
				ID:          newID(),
				ArtistID:    artistID,
				PaymentID:   payment.ID,
				SalesAmount: share,
				SaleDate:    now,
			}
			if err := s.repo.CreateSalesEntry(txCtx, entry); err != nil {
				return err
			}
			if err := s.repo.AddToArtistSales(txCtx, artistID, share); err != nil {
				return err
			}
		}

		if err := s.repo.ReleasePayment(txCtx, payment.ID, now); err != nil {
			return err
		}

		result = ReleaseResult{PaymentID: payment.ID, ReleasedAt: now}
		return nil
	})
	if err != nil {
		return ReleaseResult{}, err
	}
	return result, nil
}

// ListHeld returns every payment currently held in escrow.
func (s *SettlementService) ListHeld(ctx context.Context) ([]domain.Payment, error) {
	return s.repo.ListHeldPayments(ctx)
}

// IsAdmin resolves a caller and reports whether they hold the admin role.
func (s *SettlementService) IsAdmin(ctx context.Context, userID string) bool {
	user, err := s.repo.GetUserByID(ctx, userID)
	return err == nil && user.Role == domain.UserRoleAdmin
}
