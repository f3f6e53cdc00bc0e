// Package renewal обрабатывает события продления подписок из внешней
// биллинговой системы. События приходят через очередь
// subscription_renewals и продлевают подписку аддитивно.
package renewal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/premium-group-bot/internal/lib/sl"
	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// SubscriptionRepository контракт хранилища для продления подписок.
type SubscriptionRepository interface {
	UpsertSubscription(ctx context.Context, userID int64, days int) error
}

// Service потребитель событий продления.
type Service struct {
	repo     SubscriptionRepository
	validate *validator.Validate
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo SubscriptionRepository, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

// HandleRenewalMessage разбирает тело события и продлевает подписку.
// Ошибка возвращает сообщение в очередь для повторной обработки;
// повтор безопасен только при невыполненном upsert, поэтому ошибки
// хранилища и ошибки разбора различаются.
func (s *Service) HandleRenewalMessage(body []byte) error {
	var event models.RenewalEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal renewal event", sl.Err(err))
		// Неразбираемое сообщение бессмысленно возвращать в очередь.
		return nil
	}
	if err := s.validate.Struct(event); err != nil {
		s.log.Error("invalid renewal event", sl.Err(err))
		return nil
	}

	if err := s.repo.UpsertSubscription(context.Background(), event.UserID, event.Days); err != nil {
		s.log.Error("failed to upsert subscription", sl.UserID(event.UserID), sl.Err(err))
		return fmt.Errorf("upsert subscription: %w", err)
	}
	s.log.Info("subscription renewed", sl.UserID(event.UserID), slog.Int("days", event.Days))
	return nil
}
