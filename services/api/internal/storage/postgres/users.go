package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/domain"
)

type rowQuerier interface {
	queryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getUserByID(ctx context.Context, q rowQuerier, userID string) (domain.User, error) {
	const query = `SELECT id, email, role FROM users WHERE id = $1`

	var u domain.User
	var role string
	err := q.queryRow(ctx, query, userID).Scan(&u.ID, &u.Email, &role)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.User{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotAuthorized
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	u.Role = domain.UserRole(role)
	return u, nil
}
