package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// GetUser возвращает участника по его Telegram id.
// Отсутствие записи не является ошибкой: возвращается (nil, nil).
func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_id, username, first_name, last_name, join_date,
			      warning_count, is_muted, is_banned, subscription_expiry
			  FROM users
			  WHERE user_id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userID)

	var subscriptionExpiry sql.NullTime
	if err := row.Scan(&u.UserID, &u.Username, &u.FirstName, &u.LastName,
		&u.JoinDate, &u.WarningCount, &u.IsMuted, &u.IsBanned, &subscriptionExpiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subscriptionExpiry.Valid {
		u.SubscriptionExpiry = &subscriptionExpiry.Time
	}
	return u, nil
}

// CreateUser сохраняет нового участника. Повторная вставка того же id
// молча игнорируется, поэтому вызов идемпотентен.
func (s *Storage) CreateUser(ctx context.Context, userID int64, username, firstName, lastName string) error {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (user_id, username, first_name, last_name, join_date,
			      warning_count, is_muted, is_banned)
			  VALUES ($1, $2, $3, $4, NOW(), 0, FALSE, FALSE)
			  ON CONFLICT (user_id) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, userID, username, firstName, lastName); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IncrementWarning увеличивает счётчик предупреждений на единицу одним
// запросом. Возвращает true, если запись была изменена.
func (s *Storage) IncrementWarning(ctx context.Context, userID int64) (bool, error) {
	const op = "storage.IncrementWarning"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET warning_count = warning_count + 1
			  WHERE user_id = $1`
	result, err := s.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// ResetWarnings обнуляет счётчик предупреждений участника.
// Единственный способ уменьшить счётчик.
func (s *Storage) ResetWarnings(ctx context.Context, userID int64) error {
	const op = "storage.ResetWarnings"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET warning_count = 0 WHERE user_id = $1`
	if _, err := s.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetMuted обновляет флаг мута участника.
func (s *Storage) SetMuted(ctx context.Context, userID int64, muted bool) error {
	const op = "storage.SetMuted"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_muted = $1 WHERE user_id = $2`
	if _, err := s.DB.ExecContext(ctx, query, muted, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetBanned обновляет флаг бана участника. Запись при бане не удаляется.
func (s *Storage) SetBanned(ctx context.Context, userID int64, banned bool) error {
	const op = "storage.SetBanned"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_banned = $1 WHERE user_id = $2`
	if _, err := s.DB.ExecContext(ctx, query, banned, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
