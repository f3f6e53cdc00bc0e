package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// AddWarning сохраняет неизменяемую запись о нарушении.
// adminID = 0 означает автоматическую фиксацию классификатором.
func (s *Storage) AddWarning(ctx context.Context, userID int64, reason string, adminID int64) error {
	const op = "storage.AddWarning"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO warnings (id, user_id, reason, admin_id, created_at, resolved)
			  VALUES ($1, $2, $3, $4, NOW(), FALSE)`
	if _, err := s.DB.ExecContext(ctx, query, uuid.New().String(), userID, reason, adminID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListWarnings возвращает последние предупреждения участника,
// сначала самые новые.
func (s *Storage) ListWarnings(ctx context.Context, userID int64, limit int) ([]*models.Warning, error) {
	const op = "storage.ListWarnings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, reason, admin_id, created_at, resolved
			  FROM warnings
			  WHERE user_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Warning
	for rows.Next() {
		var w models.Warning
		if err := rows.Scan(&w.ID, &w.UserID, &w.Reason, &w.AdminID,
			&w.CreatedAt, &w.Resolved); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
