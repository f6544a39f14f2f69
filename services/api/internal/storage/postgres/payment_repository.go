package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/domain"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *PaymentRepository) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, customer_id, total_amount, status, COALESCE(payment_id::text, ''), created_at, updated_at
FROM orders
WHERE id = $1
FOR UPDATE`

	var o domain.Order
	var status string
	err := r.queryRow(ctx, query, orderID).
		Scan(&o.ID, &o.CustomerID, &o.TotalAmount, &status, &o.PaymentID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *PaymentRepository) GetCustomerByUserID(ctx context.Context, userID string) (domain.Customer, error) {
	const query = `SELECT id, user_id, name FROM customers WHERE user_id = $1`

	var c domain.Customer
	err := r.queryRow(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.Name)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Customer{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *PaymentRepository) GetCardForUpdate(ctx context.Context, number string) (*domain.CreditCard, error) {
	const query = `
SELECT number, customer_id, expiry_date, amount
FROM credit_cards
WHERE number = $1
FOR UPDATE`

	var card domain.CreditCard
	err := r.queryRow(ctx, query, number).
		Scan(&card.Number, &card.CustomerID, &card.ExpiryDate, &card.Amount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	return &card, nil
}

func (r *PaymentRepository) ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const query = `SELECT order_id, product_id, quantity FROM product_orders WHERE order_id = $1`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

func (r *PaymentRepository) GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error) {
	const query = `
SELECT id, artist_id, name, price, quantity, selling_number
FROM products
WHERE id = $1
FOR UPDATE`

	var p domain.Product
	err := r.queryRow(ctx, query, productID).
		Scan(&p.ID, &p.ArtistID, &p.Name, &p.Price, &p.Quantity, &p.SellingNumber)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Product{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, p domain.Payment) error {
	const stmt = `
INSERT INTO payments (id, order_id, customer_id, amount, payment_reference, status, transaction_type, currency, payment_date)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		p.ID,
		p.OrderID,
		p.CustomerID,
		p.Amount,
		p.PaymentReference,
		p.Status,
		p.TransactionType,
		p.Currency,
		p.PaymentDate,
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) DebitCard(ctx context.Context, number string, amount decimal.Decimal) error {
	const stmt = `UPDATE credit_cards SET amount = amount - $2 WHERE number = $1 AND amount >= $2`

	tag, err := r.exec(ctx, stmt, number, amount)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientFunds
		}
		return fmt.Errorf("debit card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func (r *PaymentRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	const stmt = `UPDATE products SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2`

	tag, err := r.exec(ctx, stmt, productID, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decrement stock: product %s has insufficient quantity", productID)
	}
	return nil
}

func (r *PaymentRepository) CompleteOrder(ctx context.Context, orderID, paymentID string, now time.Time) error {
	const stmt = `
UPDATE orders
SET status = $3, payment_id = $2, updated_at = $4
WHERE id = $1 AND status = $5`

	tag, err := r.exec(ctx, stmt, orderID, paymentID, domain.OrderStatusCompleted, now, domain.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("complete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderAlreadyPaid
	}
	return nil
}

func (r *PaymentRepository) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return getUserByID(ctx, r, userID)
}

func (r *PaymentRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PaymentRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *PaymentRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
