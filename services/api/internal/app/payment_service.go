package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/clock"
	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/domain"
)

// CaptureRepository is the storage surface the capture flow needs. All calls
// inside WithTx run on the same transaction.
type CaptureRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	GetCustomerByUserID(ctx context.Context, userID string) (domain.Customer, error)
	GetCardForUpdate(ctx context.Context, number string) (*domain.CreditCard, error)
	ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error)
	CreatePayment(ctx context.Context, payment domain.Payment) error
	DebitCard(ctx context.Context, number string, amount decimal.Decimal) error
	DecrementStock(ctx context.Context, productID string, quantity int) error
	CompleteOrder(ctx context.Context, orderID, paymentID string, now time.Time) error
	GetUserByID(ctx context.Context, userID string) (domain.User, error)
}

type PaymentService struct {
	repo       CaptureRepository
	clock      clock.Clock
	notifier   Notifier
	logger     *log.Logger
	holdPeriod time.Duration
	currency   string
}

const defaultHoldPeriod = 7 * 24 * time.Hour
const defaultCurrency = "USD"

func NewPaymentService(repo CaptureRepository, clk clock.Clock, notifier Notifier, logger *log.Logger, opts ...PaymentServiceOption) *PaymentService {
	if logger == nil {
		logger = log.Default()
	}
	svc := &PaymentService{
		repo:       repo,
		clock:      clk,
		notifier:   notifier,
		logger:     logger,
		holdPeriod: defaultHoldPeriod,
		currency:   defaultCurrency,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type PaymentServiceOption func(*PaymentService)

// WithHoldPeriod overrides the default escrow hold window.
func WithHoldPeriod(d time.Duration) PaymentServiceOption {
	return func(s *PaymentService) {
		if d > 0 {
			s.holdPeriod = d
		}
	}
}

type CaptureInput struct {
	OrderID    string
	PayerID    string
	CardNumber string
	CardExpiry string
}

type EscrowDetails struct {
	HoldPeriod       string
	ReleaseCondition string
	EstimatedRelease time.Time
}

type CaptureResult struct {
	Payment       domain.Payment
	Order         domain.Order
	EscrowDetails EscrowDetails
}

func (s *PaymentService) Capture(ctx context.Context, in CaptureInput) (CaptureResult, error) {
	if in.OrderID == "" {
		return CaptureResult{}, domain.ErrOrderIDRequired
	}
	if in.CardNumber == "" {
		return CaptureResult{}, domain.ErrCardNumberRequired
	}
	if len(in.CardNumber) != domain.CardNumberLength {
		return CaptureResult{}, domain.ErrCardNumberLength
	}

	now := s.clock.Now()
	var result CaptureResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, in.OrderID)
		if err != nil {
			return err
		}

		customer, err := s.repo.GetCustomerByUserID(txCtx, in.PayerID)
		if err != nil {
			return err
		}
		if order.CustomerID != customer.ID {
			return domain.ErrNotOrderOwner
		}

		if err := order.CanBePaid(); err != nil {
			return err
		}

		card, err := s.repo.GetCardForUpdate(txCtx, in.CardNumber)
		if err != nil {
			return err
		}
		if card == nil || card.ExpiryDate != in.CardExpiry {
			return domain.ErrCardInvalid
		}

		expiry, err := domain.ParseCardExpiry(card.ExpiryDate)
		if err != nil {
			return domain.ErrCardInvalid
		}
		if expiry.ExpiredAt(now) {
			return domain.ErrCardExpired
		}

		if card.Amount.LessThan(order.TotalAmount) {
			return domain.ErrInsufficientFunds
		}

		items, err := s.repo.ListOrderItems(txCtx, in.OrderID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrNoOrderItems
		}

		// Validate every line item before touching anything. Locks taken
		// here also cover the decrements below.
		products := make([]domain.Product, len(items))
		for i, item := range items {
			product, err := s.repo.GetProductForUpdate(txCtx, item.ProductID)
			if err != nil {
				return err
			}
			if product.Quantity < item.Quantity {
				return &domain.InsufficientStockError{
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.Quantity,
				}
			}
			products[i] = product
		}

		payment := domain.Payment{
			ID:               newID(),
			OrderID:          order.ID,
			CustomerID:       customer.ID,
			Amount:           order.TotalAmount,
			PaymentReference: in.CardNumber,
			Status:           domain.PaymentStatusHeldInEscrow,
			TransactionType:  domain.TransactionTypePayment,
			Currency:         s.currency,
			PaymentDate:      now,
		}
		if err := s.repo.CreatePayment(txCtx, payment); err != nil {
			return err
		}

		if err := s.repo.DebitCard(txCtx, card.Number, order.TotalAmount); err != nil {
			return err
		}
		for _, item := range items {
			if err := s.repo.DecrementStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := s.repo.CompleteOrder(txCtx, order.ID, payment.ID, now); err != nil {
			return err
		}

		order.Status = domain.OrderStatusCompleted
		order.PaymentID = payment.ID
		order.UpdatedAt = now

		result = CaptureResult{
			Payment: payment,
			Order:   order,
			EscrowDetails: EscrowDetails{
				HoldPeriod:       fmt.Sprintf("%d days", int(s.holdPeriod.Hours()/24)),
				ReleaseCondition: "Funds released to artists when an admin settles the payment",
				EstimatedRelease: now.Add(s.holdPeriod),
			},
		}
		return nil
	})
	if err != nil {
		// Declined attempts past the card checks keep an audit row. The
		// main transaction only read at that point, so nothing rolls back.
		if err == domain.ErrCardExpired || err == domain.ErrInsufficientFunds {
			s.recordFailedPayment(ctx, in, now)
		}
		return CaptureResult{}, err
	}

	go s.sendConfirmation(in.PayerID, result)

	return result, nil
}

func (s *PaymentService) recordFailedPayment(ctx context.Context, in CaptureInput, now time.Time) {
	failed := domain.Payment{
		ID:               newID(),
		OrderID:          in.OrderID,
		Amount:           decimal.Zero,
		PaymentReference: in.CardNumber,
		Status:           domain.PaymentStatusFailed,
		TransactionType:  domain.TransactionTypePayment,
		Currency:         s.currency,
		PaymentDate:      now,
	}
	if err := s.repo.CreatePayment(ctx, failed); err != nil {
		s.logger.Printf("record failed payment for order %s: %v", in.OrderID, err)
	}
}

func (s *PaymentService) sendConfirmation(payerID string, res CaptureResult) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := s.repo.GetUserByID(ctx, payerID)
	if err != nil {
		s.logger.Printf("payment confirmation lookup for order %s: %v", res.Order.ID, err)
		return
	}
	name := user.Email
	if customer, err := s.repo.GetCustomerByUserID(ctx, payerID); err == nil {
		name = customer.Name
	}

	msg := PaymentConfirmation{
		Email:            user.Email,
		CustomerName:     name,
		OrderID:          res.Order.ID,
		Amount:           res.Payment.Amount,
		Currency:         res.Payment.Currency,
		EstimatedRelease: res.EscrowDetails.EstimatedRelease,
	}
	if err := s.notifier.SendPaymentConfirmation(ctx, msg); err != nil {
		s.logger.Printf("payment confirmation for order %s: %v", res.Order.ID, err)
	}
}
