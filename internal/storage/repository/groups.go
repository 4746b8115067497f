package repository

import (
	"context"
	"fmt"

	"github.com/maratbr/classifieds-board/internal/models"
)

// listGroupsForUser возвращает группы, в которых состоит пользователь.
func (s *Storage) listGroupsForUser(ctx context.Context, userID int) ([]models.Group, error) {
	const op = "storage.listGroupsForUser"

	query := `SELECT g.id, g.region
			  FROM groups g
			  JOIN user_groups ug ON ug.group_id = g.id
			  WHERE ug.user_id = $1
			  ORDER BY g.id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Group
	for rows.Next() {
		var g models.Group
		if err = rows.Scan(&g.ID, &g.Region); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
