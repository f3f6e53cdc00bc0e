package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// UpsertSubscription продлевает подписку участника на days дней.
// Новая дата окончания считается от максимума из текущего момента
// и существующей даты, то есть продление всегда аддитивно.
// Денормализованное поле users.subscription_expiry обновляется
// в той же транзакции.
func (s *Storage) UpsertSubscription(ctx context.Context, userID int64, days int) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO subscriptions (user_id, expiry_date, updated_at)
			  VALUES ($1, NOW() + $2 * INTERVAL '1 day', NOW())
			  ON CONFLICT (user_id) DO UPDATE
			  SET expiry_date = GREATEST(NOW(), subscriptions.expiry_date) + $2 * INTERVAL '1 day',
			      updated_at = NOW()`
	if _, err = tx.ExecContext(ctx, query, userID, days); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query = `UPDATE users
			 SET subscription_expiry = (SELECT expiry_date FROM subscriptions WHERE user_id = $1)
			 WHERE user_id = $1`
	if _, err = tx.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListExpiredSubscriptions возвращает подписки, истекшие к моменту now.
// Участники без подписки не попадают в выборку.
func (s *Storage) ListExpiredSubscriptions(ctx context.Context, now time.Time) ([]models.Subscription, error) {
	const op = "storage.ListExpiredSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_id, expiry_date, updated_at FROM subscriptions
			  WHERE expiry_date < $1
			  ORDER BY expiry_date`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.UserID, &sub.ExpiryDate, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveSubscription удаляет подписку участника и очищает
// денормализованное поле в users. Повторное удаление — no-op.
func (s *Storage) RemoveSubscription(ctx context.Context, userID int64) error {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE users SET subscription_expiry = NULL WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
