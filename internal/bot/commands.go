package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/magabrotheeeer/premium-group-bot/internal/lib/sl"
	"github.com/magabrotheeeer/premium-group-bot/internal/lib/texts"
	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// handleCommand разбирает команды администратора. Известные команды от
// остальных участников игнорируются, /start отвечает отказом.
// Неизвестная команда командой не считается: слэш в начале текста не
// освобождает сообщение от классификации.
func (a *App) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	isAdmin := msg.From.ID == a.adminID

	switch msg.Command() {
	case "start":
		if !isAdmin {
			a.reply(ctx, msg.Chat.ID, "❌ This command is for admins only.")
			return
		}
		a.reply(ctx, msg.Chat.ID, texts.StartAck)
	case "stats":
		if !isAdmin {
			return
		}
		a.handleStats(ctx, msg)
	case "warn":
		if !isAdmin {
			return
		}
		a.handleWarn(ctx, msg)
	default:
		a.handleMessage(ctx, msg)
	}
}

// handleStats отвечает снимком статистики. Снимок держится в Redis
// минуту, чтобы частые запросы не ходили в базу. Сбой хранилища
// не роняет воркер: администратор получает общий отказ.
func (a *App) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	const cacheKey = "stats"

	var st *models.Stats
	if a.cache != nil {
		var cached models.Stats
		found, err := a.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			a.log.Error("failed to read stats cache", sl.Err(err))
		}
		if found {
			st = &cached
		}
	}

	if st == nil {
		var err error
		st, err = a.repo.CountStats(ctx)
		if err != nil {
			a.log.Error("failed to count stats", sl.Err(err))
			a.reply(ctx, msg.Chat.ID, "❌ Error fetching statistics")
			return
		}
		if a.cache != nil {
			if err := a.cache.Set(ctx, cacheKey, st, statsCacheTTL); err != nil {
				a.log.Error("failed to cache stats", sl.Err(err))
			}
		}
	}

	a.reply(ctx, msg.Chat.ID, texts.StatsReport(st, a.GroupID(), time.Now()))
}

// handleWarn вручную запускает эскалацию для произвольного участника.
// Сообщение при этом не удаляется: нарушенного сообщения нет.
func (a *App) handleWarn(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		a.reply(ctx, msg.Chat.ID, "Usage: /warn <user_id> <reason>")
		return
	}

	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.reply(ctx, msg.Chat.ID, "❌ Invalid user ID")
		return
	}
	reason := strings.Join(args[1:], " ")

	a.escalation.RegisterViolation(ctx, models.Violation{
		UserID:  userID,
		ChatID:  a.GroupID(),
		Reason:  models.ViolationReason("Admin manual: " + reason),
		AdminID: a.adminID,
	})

	a.reply(ctx, msg.Chat.ID, "✅ Warning issued to user "+args[0])
}
