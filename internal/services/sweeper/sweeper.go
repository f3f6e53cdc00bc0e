// Package sweeper содержит фоновые задачи бота: периодическое
// напоминание о правилах и ежедневную чистку истёкших подписок.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/premium-group-bot/internal/lib/sl"
	"github.com/magabrotheeeer/premium-group-bot/internal/lib/texts"
	"github.com/magabrotheeeer/premium-group-bot/internal/metrics"
	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// SubscriptionRepository контракт хранилища для чистки подписок.
type SubscriptionRepository interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	ListExpiredSubscriptions(ctx context.Context, now time.Time) ([]models.Subscription, error)
	RemoveSubscription(ctx context.Context, userID int64) error
	SetBanned(ctx context.Context, userID int64, banned bool) error
}

// Transport операции, которые нужны фоновым задачам.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	BanMember(ctx context.Context, chatID, userID int64) error
}

// Service фоновые задачи бота. Идентичность группы передаётся явно
// через groupID: пока бот не добавлен в группу, задачи простаивают.
type Service struct {
	repo      SubscriptionRepository
	transport Transport
	groupID   func() int64
	adminID   int64
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo SubscriptionRepository, transport Transport, groupID func() int64, adminID int64, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		transport: transport,
		groupID:   groupID,
		adminID:   adminID,
		log:       log,
	}
}

// RunReminder отправляет напоминание о правилах сразу и далее
// с заданным интервалом, пока контекст не отменён.
func (s *Service) RunReminder(ctx context.Context, interval time.Duration) {
	s.sendReminder(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendReminder(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) sendReminder(ctx context.Context) {
	groupID := s.groupID()
	if groupID == 0 {
		s.log.Debug("reminder skipped, group is not known yet")
		return
	}
	if err := s.transport.SendMessage(ctx, groupID, texts.Reminder); err != nil {
		s.log.Error("failed to send rules reminder", sl.Err(err))
		return
	}
	metrics.RemindersSentTotal.Inc()
	s.log.Info("rules reminder sent")
}

// RunSubscriptionSweep запускает ежедневную чистку истёкших подписок.
// Первый проход происходит в ближайшую полночь UTC, далее раз в сутки.
func (s *Service) RunSubscriptionSweep(ctx context.Context) {
	first := time.NewTimer(untilNextMidnightUTC(time.Now()))
	defer first.Stop()

	select {
	case <-first.C:
	case <-ctx.Done():
		return
	}
	s.sweepExpired(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepExpired(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// sweepExpired обрабатывает каждого участника независимо:
// сбой на одном не прерывает обход остальных, а каждый шаг
// идемпотентен и может быть безопасно повторён следующим проходом.
func (s *Service) sweepExpired(ctx context.Context) {
	groupID := s.groupID()
	if groupID == 0 {
		s.log.Debug("subscription sweep skipped, group is not known yet")
		return
	}

	s.log.Info("starting expired subscription sweep")
	expired, err := s.repo.ListExpiredSubscriptions(ctx, time.Now())
	if err != nil {
		s.log.Error("failed to list expired subscriptions", sl.Err(err))
		return
	}
	if len(expired) == 0 {
		s.log.Info("no expired subscriptions found")
		return
	}
	s.log.Info("found expired subscriptions", "count", len(expired))

	for _, sub := range expired {
		s.removeExpiredUser(ctx, groupID, sub)
	}
}

func (s *Service) removeExpiredUser(ctx context.Context, groupID int64, sub models.Subscription) {
	userID := sub.UserID
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to get expired user", sl.UserID(userID), sl.Err(err))
		return
	}
	if user == nil {
		s.log.Warn("expired subscription without user record", sl.UserID(userID))
		return
	}

	if err := s.transport.BanMember(ctx, groupID, userID); err != nil {
		s.log.Error("failed to remove expired user from group", sl.UserID(userID), sl.Err(err))
		return
	}
	if err := s.repo.RemoveSubscription(ctx, userID); err != nil {
		s.log.Error("failed to remove subscription", sl.UserID(userID), sl.Err(err))
	}
	if err := s.repo.SetBanned(ctx, userID, true); err != nil {
		s.log.Error("failed to persist ban flag", sl.UserID(userID), sl.Err(err))
	}

	alert := texts.ExpiredAlert(userID, user.FirstName, sub.ExpiryDate)
	if err := s.transport.SendMessage(ctx, s.adminID, alert); err != nil {
		s.log.Error("failed to notify admin about expired user", sl.Err(err))
	}

	metrics.SweepRemovalsTotal.Inc()
	s.log.Info("removed expired subscription user", sl.UserID(userID))
}

// untilNextMidnightUTC возвращает время до ближайшей полуночи UTC.
func untilNextMidnightUTC(now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return next.Sub(now)
}
