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

type SettlementRepository struct {
	pool *pgxpool.Pool
}

func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

func (r *SettlementRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *SettlementRepository) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return getUserByID(ctx, r, userID)
}

func (r *SettlementRepository) GetPaymentForUpdate(ctx context.Context, paymentID string) (domain.Payment, error) {
	const query = `
SELECT id, order_id, COALESCE(customer_id::text, ''), amount, payment_reference, status, transaction_type, currency, payment_date, released_at
FROM payments
WHERE id = $1
FOR UPDATE`

	var p domain.Payment
	var status, txType string
	err := r.queryRow(ctx, query, paymentID).
		Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.Amount, &p.PaymentReference, &status, &txType, &p.Currency, &p.PaymentDate, &p.ReleasedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Payment{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Payment{}, domain.ErrPaymentNotFound
		}
		return domain.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	p.Status = domain.PaymentStatus(status)
	p.TransactionType = domain.TransactionType(txType)
	return p, nil
}

func (r *SettlementRepository) OrderExists(ctx context.Context, orderID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`

	var exists bool
	if err := r.queryRow(ctx, query, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("order exists: %w", err)
	}
	return exists, nil
}

func (r *SettlementRepository) ListOrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const query = `
SELECT po.product_id, p.artist_id, p.price, po.quantity
FROM product_orders po
JOIN products p ON p.id = po.product_id
WHERE po.order_id = $1`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderLine
	for rows.Next() {
		var item domain.OrderLine
		if err := rows.Scan(&item.ProductID, &item.ArtistID, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	return items, nil
}

func (r *SettlementRepository) SetSellingNumber(ctx context.Context, productID string, quantity int) error {
	const stmt = `UPDATE products SET selling_number = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, productID, quantity)
	if err != nil {
		return fmt.Errorf("set selling number: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *SettlementRepository) CreateSalesEntry(ctx context.Context, entry domain.SalesEntry) error {
	const stmt = `
INSERT INTO sales (id, artist_id, payment_id, sales_amount, sale_date)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt, entry.ID, entry.ArtistID, entry.PaymentID, entry.SalesAmount, entry.SaleDate)
	if err != nil {
		if isUniqueViolation(err) {
			// One ledger row per (artist, payment); a duplicate means the
			// payment was already settled.
			return domain.ErrPaymentNotHeld
		}
		return fmt.Errorf("create sales entry: %w", err)
	}
	return nil
}

func (r *SettlementRepository) AddToArtistSales(ctx context.Context, artistID string, amount decimal.Decimal) error {
	const stmt = `UPDATE artists SET sales = sales + $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, artistID, amount)
	if err != nil {
		return fmt.Errorf("add to artist sales: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("add to artist sales: artist %s not found", artistID)
	}
	return nil
}

func (r *SettlementRepository) ReleasePayment(ctx context.Context, paymentID string, releasedAt time.Time) error {
	const stmt = `
UPDATE payments
SET status = $2, released_at = $3
WHERE id = $1 AND status = $4`

	tag, err := r.exec(ctx, stmt, paymentID, domain.PaymentStatusReleased, releasedAt, domain.PaymentStatusHeldInEscrow)
	if err != nil {
		return fmt.Errorf("release payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotHeld
	}
	return nil
}

func (r *SettlementRepository) ListHeldPayments(ctx context.Context) ([]domain.Payment, error) {
	const query = `
SELECT id, order_id, COALESCE(customer_id::text, ''), amount, payment_reference, status, transaction_type, currency, payment_date, released_at
FROM payments
WHERE status = $1
ORDER BY payment_date DESC`

	rows, err := r.query(ctx, query, domain.PaymentStatusHeldInEscrow)
	if err != nil {
		return nil, fmt.Errorf("list held payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var status, txType string
		if err := rows.Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.Amount, &p.PaymentReference, &status, &txType, &p.Currency, &p.PaymentDate, &p.ReleasedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Status = domain.PaymentStatus(status)
		p.TransactionType = domain.TransactionType(txType)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list held payments: %w", err)
	}
	return payments, nil
}

func (r *SettlementRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SettlementRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *SettlementRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
