package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/maratbr/classifieds-board/internal/models"
)

// CreateToken сохраняет новый токен сессии. Старые токены пользователя
// не отзываются и остаются действительными до собственного истечения.
func (s *Storage) CreateToken(ctx context.Context, token models.Token) (int, error) {
	const op = "storage.CreateToken"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO tokens (token, expires, user_id)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		token.Token, token.Expires, token.UserID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByToken возвращает владельца неистёкшего токена вместе с группами.
// Истёкшие токены не удаляются, но и не находятся этим запросом.
func (s *Storage) GetUserByToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	const op = "storage.GetUserByToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id, u.email, u.password_hash, u.role, u.is_active, u.created_at, u.updated_at
			  FROM users u
			  JOIN tokens t ON t.user_id = u.id
			  WHERE t.token = $1 AND t.expires > $2`
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, query, token, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Groups, err = s.listGroupsForUser(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
