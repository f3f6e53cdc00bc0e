package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// CountStats собирает агрегированную статистику для команды /stats:
// всего участников, нерешённые предупреждения, замученные и забаненные.
func (s *Storage) CountStats(ctx context.Context) (*models.Stats, error) {
	const op = "storage.CountStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      (SELECT COUNT(*) FROM users),
			      (SELECT COUNT(*) FROM warnings WHERE resolved = FALSE),
			      (SELECT COUNT(*) FROM users WHERE is_muted = TRUE),
			      (SELECT COUNT(*) FROM users WHERE is_banned = TRUE)`
	var st models.Stats
	if err := s.DB.QueryRowContext(ctx, query).Scan(&st.TotalUsers,
		&st.ActiveWarnings, &st.MutedUsers, &st.BannedUsers); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &st, nil
}
