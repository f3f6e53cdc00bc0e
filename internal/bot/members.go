package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/magabrotheeeer/premium-group-bot/internal/lib/sl"
	"github.com/magabrotheeeer/premium-group-bot/internal/lib/texts"
)

// handleNewMembers обрабатывает вступление в группу: сам бот запоминает
// группу, участники заводятся в хранилище и получают свод правил.
func (a *App) handleNewMembers(ctx context.Context, msg *tgbotapi.Message) {
	for _, member := range msg.NewChatMembers {
		if member.ID == a.transport.Self().ID {
			a.groupID.Store(msg.Chat.ID)
			a.log.Info("bot added to group", slog.Int64("group_id", msg.Chat.ID))
			a.reply(ctx, msg.Chat.ID, texts.Activated)
			continue
		}
		if member.IsBot {
			continue
		}

		if err := a.repo.CreateUser(ctx, member.ID, member.UserName, member.FirstName, member.LastName); err != nil {
			a.log.Error("failed to create user record", sl.UserID(member.ID), sl.Err(err))
		}

		a.reply(ctx, msg.Chat.ID, texts.Welcome(member.FirstName))
		a.notifyAdmin(ctx, texts.NewMemberAlert(member.FirstName, member.LastName,
			member.UserName, member.ID, time.Now()))
	}
}
