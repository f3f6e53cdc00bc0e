package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/magabrotheeeer/premium-group-bot/internal/lib/sl"
	"github.com/magabrotheeeer/premium-group-bot/internal/models"
	"github.com/magabrotheeeer/premium-group-bot/internal/services/classifier"
)

// handleMessage проверяет сообщение на нарушение правил. Сообщения
// администратора не классифицируются вовсе. При нарушении сообщение
// удаляется (по возможности), после чего нарушение уходит в движок
// эскалации.
func (a *App) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.ID == a.adminID {
		return
	}

	reason := classifier.Classify(toInbound(msg))
	if reason == models.ReasonNone {
		return
	}

	// Удаление — наилучшее из возможного: неудача логируется,
	// санкция применяется в любом случае.
	if err := a.transport.DeleteMessage(ctx, msg.Chat.ID, msg.MessageID); err != nil {
		a.log.Error("failed to delete violating message", sl.UserID(msg.From.ID), sl.Err(err))
	}

	a.escalation.RegisterViolation(ctx, models.Violation{
		UserID:    msg.From.ID,
		FirstName: msg.From.FirstName,
		Username:  msg.From.UserName,
		ChatID:    msg.Chat.ID,
		Reason:    reason,
		AdminID:   0,
	})
}

// toInbound переводит сообщение Telegram в транспортно-независимый вид.
func toInbound(msg *tgbotapi.Message) models.InboundMessage {
	return models.InboundMessage{
		Text:            msg.Text,
		Caption:         msg.Caption,
		IsForwarded:     msg.ForwardDate != 0 || msg.ForwardFrom != nil || msg.ForwardFromChat != nil,
		Entities:        toEntities(msg.Entities),
		CaptionEntities: toEntities(msg.CaptionEntities),
	}
}

func toEntities(entities []tgbotapi.MessageEntity) []models.MessageEntity {
	if len(entities) == 0 {
		return nil
	}
	result := make([]models.MessageEntity, 0, len(entities))
	for _, e := range entities {
		result = append(result, models.MessageEntity{Type: e.Type})
	}
	return result
}
