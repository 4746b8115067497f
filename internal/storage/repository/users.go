package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maratbr/classifieds-board/internal/models"
)

// CreateUser сохраняет нового пользователя вместе с членством в группах
// и возвращает его ID. Вставка выполняется в одной транзакции.
func (s *Storage) CreateUser(ctx context.Context, user models.User, groupIDs []int) (int, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID int
	query := `INSERT INTO users (email, password_hash, role, is_active)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	if err = tx.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Role, true).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, groupID := range groupIDs {
		var exists bool
		if err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return 0, fmt.Errorf("%s: group %d: %w", op, groupID, ErrGroupNotFound)
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO user_groups (user_id, group_id) VALUES ($1, $2)`,
			newID, groupID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUser возвращает пользователя по его ID вместе с группами.
func (s *Storage) GetUser(ctx context.Context, userID int) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, role, is_active, created_at, updated_at
			  FROM users
			  WHERE id = $1`
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Groups, err = s.listGroupsForUser(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email вместе с группами.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, role, is_active, created_at, updated_at
			  FROM users
			  WHERE email = $1`
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Groups, err = s.listGroupsForUser(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUser перезаписывает email, хэш пароля, роль и признак активности
// пользователя и возвращает количество изменённых строк.
func (s *Storage) UpdateUser(ctx context.Context, userID int, user models.User) (int, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET email = $1, password_hash = $2, role = $3, is_active = $4, updated_at = now()
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.Role, user.IsActive, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeactivateUser выполняет мягкое удаление: сбрасывает is_active.
// Запись пользователя из базы не удаляется никогда.
func (s *Storage) DeactivateUser(ctx context.Context, userID int) (int, error) {
	const op = "storage.DeactivateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_active = false, updated_at = now()
			  WHERE id = $1 AND is_active = true`
	result, err := s.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListActiveUsers возвращает всех активных пользователей с пагинацией.
func (s *Storage) ListActiveUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListActiveUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, role, is_active, created_at, updated_at
			  FROM users
			  WHERE is_active = true
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.collectUsers(ctx, op, rows)
}

// ListUsersSharingGroup возвращает активных пользователей, состоящих хотя бы
// в одной группе вместе с пользователем userID, с пагинацией.
func (s *Storage) ListUsersSharingGroup(ctx context.Context, userID, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsersSharingGroup"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT DISTINCT u.id, u.email, u.password_hash, u.role, u.is_active, u.created_at, u.updated_at
			  FROM users u
			  JOIN user_groups ug ON ug.user_id = u.id
			  WHERE u.is_active = true
			    AND ug.group_id IN (SELECT group_id FROM user_groups WHERE user_id = $1)
			  ORDER BY u.id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.collectUsers(ctx, op, rows)
}

// SharesGroup сообщает, состоят ли два пользователя хотя бы в одной общей группе.
func (s *Storage) SharesGroup(ctx context.Context, userID, otherID int) (bool, error) {
	const op = "storage.SharesGroup"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1
			      FROM user_groups a
			      JOIN user_groups b ON a.group_id = b.group_id
			      WHERE a.user_id = $1 AND b.user_id = $2
			  )`
	var shares bool
	if err := s.DB.QueryRowContext(ctx, query, userID, otherID).Scan(&shares); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return shares, nil
}

// scanUser читает одну строку users, транслируя sql.ErrNoRows в ErrNotFound.
func (s *Storage) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var updatedAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.CreatedAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if updatedAt.Valid {
		u.UpdatedAt = &updatedAt.Time
	}
	return u, nil
}

func (s *Storage) collectUsers(ctx context.Context, op string, rows *sql.Rows) ([]*models.User, error) {
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var updatedAt sql.NullTime
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
			&u.IsActive, &u.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if updatedAt.Valid {
			u.UpdatedAt = &updatedAt.Time
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range result {
		groups, err := s.listGroupsForUser(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.Groups = groups
	}
	return result, nil
}
