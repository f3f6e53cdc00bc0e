// Package escalation реализует машину санкций бота: предупреждение,
// затем 24-часовой мут, затем бан. Счётчик предупреждений участника
// только растёт; вернуть его к нулю может лишь явный сброс в хранилище.
package escalation

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/premium-group-bot/internal/lib/sl"
	"github.com/magabrotheeeer/premium-group-bot/internal/lib/texts"
	"github.com/magabrotheeeer/premium-group-bot/internal/metrics"
	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// Repository контракт хранилища, необходимый движку эскалации.
type Repository interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	AddWarning(ctx context.Context, userID int64, reason string, adminID int64) error
	IncrementWarning(ctx context.Context, userID int64) (bool, error)
	SetMuted(ctx context.Context, userID int64, muted bool) error
	SetBanned(ctx context.Context, userID int64, banned bool) error
}

// Transport операции модерации в группе.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	RestrictMember(ctx context.Context, chatID, userID int64, until time.Time) error
	BanMember(ctx context.Context, chatID, userID int64) error
}

// EventPublisher публикует события о нарушениях во внешнюю шину.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Service движок эскалации санкций.
type Service struct {
	repo         Repository
	transport    Transport
	events       EventPublisher // nil, если шина не настроена
	adminID      int64
	muteDuration time.Duration
	locks        *userLocks
	log          *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, transport Transport, events EventPublisher, adminID int64, muteDuration time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		transport:    transport,
		events:       events,
		adminID:      adminID,
		muteDuration: muteDuration,
		locks:        newUserLocks(),
		log:          log,
	}
}

// RegisterViolation фиксирует нарушение и применяет санкцию по новому
// значению счётчика. Запись о предупреждении сохраняется всегда, даже
// если последующий мут или бан не удался — отката нет, исход лишь
// помечается как MUTE_FAILED или BAN_FAILED. Администратор получает
// уведомление безусловно. Сообщение-нарушитель, если оно было, удаляет
// вызывающая сторона до обращения сюда.
//
// Нарушения одного участника сериализуются мьютексом; участники между
// собой независимы и обрабатываются параллельно.
func (s *Service) RegisterViolation(ctx context.Context, v models.Violation) *models.SanctionResult {
	result, firstName := s.applySanction(ctx, v)

	s.notifyAdmin(ctx, v, firstName, result)
	s.publishEvent(result)
	metrics.ViolationsTotal.WithLabelValues(result.Reason, string(result.Action)).Inc()

	return result
}

// applySanction выполняет чтение счётчика, фиксацию предупреждения и
// санкцию под мьютексом участника. Оповещение администратора и
// публикация события идут уже после снятия блокировки.
func (s *Service) applySanction(ctx context.Context, v models.Violation) (*models.SanctionResult, string) {
	mu := s.locks.forUser(v.UserID)
	mu.Lock()
	defer mu.Unlock()

	current := 0
	user, err := s.repo.GetUser(ctx, v.UserID)
	if err != nil {
		s.log.Error("failed to get user, assuming zero warnings", sl.UserID(v.UserID), sl.Err(err))
	}
	if user != nil {
		current = user.WarningCount
	}
	firstName := v.FirstName
	if firstName == "" && user != nil {
		firstName = user.DisplayName()
	}

	if err := s.repo.AddWarning(ctx, v.UserID, string(v.Reason), v.AdminID); err != nil {
		s.log.Error("failed to record warning", sl.UserID(v.UserID), sl.Err(err))
	}
	if _, err := s.repo.IncrementWarning(ctx, v.UserID); err != nil {
		s.log.Error("failed to increment warning count", sl.UserID(v.UserID), sl.Err(err))
	}

	newCount := current + 1
	var action models.Action
	switch {
	case newCount == 1:
		action = s.applyWarning(ctx, v, firstName, newCount)
	case newCount == 2:
		action = s.applyMute(ctx, v, firstName, newCount)
	default:
		action = s.applyBan(ctx, v, firstName, newCount)
	}

	result := &models.SanctionResult{
		UserID:   v.UserID,
		Reason:   string(v.Reason),
		NewCount: newCount,
		Action:   action,
	}
	return result, firstName
}

func (s *Service) applyWarning(ctx context.Context, v models.Violation, firstName string, count int) models.Action {
	if v.ChatID != 0 {
		if err := s.transport.SendMessage(ctx, v.ChatID, texts.WarningNotice(firstName, count, v.Reason)); err != nil {
			s.log.Error("failed to send warning notice", sl.UserID(v.UserID), sl.Err(err))
		}
	}
	return models.ActionWarning
}

func (s *Service) applyMute(ctx context.Context, v models.Violation, firstName string, count int) models.Action {
	until := time.Now().Add(s.muteDuration)
	if err := s.transport.RestrictMember(ctx, v.ChatID, v.UserID, until); err != nil {
		s.log.Error("failed to mute user", sl.UserID(v.UserID), sl.Err(err))
		return models.ActionMuteFailed
	}
	if err := s.repo.SetMuted(ctx, v.UserID, true); err != nil {
		s.log.Error("failed to persist mute flag", sl.UserID(v.UserID), sl.Err(err))
	}
	if v.ChatID != 0 {
		if err := s.transport.SendMessage(ctx, v.ChatID, texts.MuteNotice(firstName, count, v.Reason)); err != nil {
			s.log.Error("failed to send mute notice", sl.UserID(v.UserID), sl.Err(err))
		}
	}
	return models.ActionMute
}

func (s *Service) applyBan(ctx context.Context, v models.Violation, firstName string, count int) models.Action {
	if err := s.transport.BanMember(ctx, v.ChatID, v.UserID); err != nil {
		s.log.Error("failed to ban user", sl.UserID(v.UserID), sl.Err(err))
		return models.ActionBanFailed
	}
	if err := s.repo.SetBanned(ctx, v.UserID, true); err != nil {
		s.log.Error("failed to persist ban flag", sl.UserID(v.UserID), sl.Err(err))
	}
	if v.ChatID != 0 {
		if err := s.transport.SendMessage(ctx, v.ChatID, texts.BanNotice(firstName, count, v.Reason)); err != nil {
			s.log.Error("failed to send ban notice", sl.UserID(v.UserID), sl.Err(err))
		}
	}
	return models.ActionBan
}

func (s *Service) notifyAdmin(ctx context.Context, v models.Violation, firstName string, result *models.SanctionResult) {
	alert := texts.ViolationAlert(firstName, v.Username, v.UserID, v.Reason,
		result.NewCount, result.Action, time.Now())
	if err := s.transport.SendMessage(ctx, s.adminID, alert); err != nil {
		s.log.Error("failed to notify admin", sl.Err(err))
	}
}

func (s *Service) publishEvent(result *models.SanctionResult) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish("violation", result); err != nil {
		s.log.Error("failed to publish violation event", sl.Err(err))
	}
}
