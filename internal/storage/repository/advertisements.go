package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maratbr/classifieds-board/internal/models"
)

// CreateAdvertisement вставляет новое объявление и возвращает созданную запись.
func (s *Storage) CreateAdvertisement(ctx context.Context, ad models.Advertisement) (*models.Advertisement, error) {
	const op = "storage.CreateAdvertisement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO advertisements (title, body, owner_id, state)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, title, body, owner_id, state, created_at, updated_at`
	result, err := scanAdvertisement(s.DB.QueryRowContext(ctx, query,
		ad.Title, ad.Body, ad.OwnerID, ad.State))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateAdvertisement перезаписывает заголовок и текст объявления владельца
// ownerID и безусловно выставляет state, даже если поля не изменились.
// Возвращает ErrNotFound, если объявление не принадлежит ownerID.
func (s *Storage) UpdateAdvertisement(ctx context.Context, id, ownerID int, ad models.Advertisement) (*models.Advertisement, error) {
	const op = "storage.UpdateAdvertisement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE advertisements
			  SET title = $1, body = $2, state = $3, updated_at = now()
			  WHERE id = $4 AND owner_id = $5
			  RETURNING id, title, body, owner_id, state, created_at, updated_at`
	result, err := scanAdvertisement(s.DB.QueryRowContext(ctx, query,
		ad.Title, ad.Body, ad.State, id, ownerID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveAdvertisement удаляет объявление по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveAdvertisement(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveAdvertisement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM advertisements WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// GetAdvertisement возвращает объявление по ID и владельцу.
func (s *Storage) GetAdvertisement(ctx context.Context, id, ownerID int) (*models.Advertisement, error) {
	const op = "storage.GetAdvertisement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, body, owner_id, state, created_at, updated_at
			  FROM advertisements
			  WHERE id = $1 AND owner_id = $2`
	result, err := scanAdvertisement(s.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetAdvertisementByID возвращает объявление по ID без фильтра по владельцу.
// Используется при удалении, когда право доступа проверяется по роли.
func (s *Storage) GetAdvertisementByID(ctx context.Context, id int) (*models.Advertisement, error) {
	const op = "storage.GetAdvertisementByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, body, owner_id, state, created_at, updated_at
			  FROM advertisements
			  WHERE id = $1`
	result, err := scanAdvertisement(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAdvertisements возвращает объявления владельца в заданном состоянии с пагинацией.
func (s *Storage) ListAdvertisements(ctx context.Context, ownerID int, state string, limit, offset int) ([]*models.Advertisement, error) {
	const op = "storage.ListAdvertisements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, body, owner_id, state, created_at, updated_at
			  FROM advertisements
			  WHERE owner_id = $1 AND state = $2
			  ORDER BY id
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, ownerID, state, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectAdvertisements(op, rows)
}

// ListFeed возвращает активные объявления всех пользователей,
// упорядоченные по дате создания по убыванию, с пагинацией.
func (s *Storage) ListFeed(ctx context.Context, limit, offset int) ([]*models.Advertisement, error) {
	const op = "storage.ListFeed"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, body, owner_id, state, created_at, updated_at
			  FROM advertisements
			  WHERE state = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, models.StateActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectAdvertisements(op, rows)
}

// scanAdvertisement читает одну строку advertisements,
// транслируя sql.ErrNoRows в ErrNotFound.
func scanAdvertisement(row *sql.Row) (*models.Advertisement, error) {
	var ad models.Advertisement
	var title sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(&ad.ID, &title, &ad.Body, &ad.OwnerID, &ad.State,
		&ad.CreatedAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if title.Valid {
		ad.Title = &title.String
	}
	if updatedAt.Valid {
		ad.UpdatedAt = &updatedAt.Time
	}
	return &ad, nil
}

func collectAdvertisements(op string, rows *sql.Rows) ([]*models.Advertisement, error) {
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Advertisement
	for rows.Next() {
		var ad models.Advertisement
		var title sql.NullString
		var updatedAt sql.NullTime
		if err := rows.Scan(&ad.ID, &title, &ad.Body, &ad.OwnerID, &ad.State,
			&ad.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if title.Valid {
			ad.Title = &title.String
		}
		if updatedAt.Valid {
			ad.UpdatedAt = &updatedAt.Time
		}
		result = append(result, &ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
