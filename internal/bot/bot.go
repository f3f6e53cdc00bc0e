// Package bot связывает транспорт Telegram с движком эскалации:
// цикл обновлений, команды администратора, обработка новых участников
// и проверка сообщений на нарушения.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/magabrotheeeer/premium-group-bot/internal/cache"
	"github.com/magabrotheeeer/premium-group-bot/internal/lib/sl"
	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// Repository контракт хранилища, необходимый обработчикам бота.
type Repository interface {
	CreateUser(ctx context.Context, userID int64, username, firstName, lastName string) error
	CountStats(ctx context.Context) (*models.Stats, error)
}

// Transport операции Telegram, которые используют обработчики.
type Transport interface {
	Self() tgbotapi.User
	UpdatesChannel() tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	SendMessage(ctx context.Context, chatID int64, text string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Escalator движок эскалации санкций.
type Escalator interface {
	RegisterViolation(ctx context.Context, v models.Violation) *models.SanctionResult
}

// App воркер бота. Идентичность группы хранится в atomic-поле самого
// приложения и передаётся другим компонентам явным геттером, а не
// глобальной переменной.
type App struct {
	repo       Repository
	transport  Transport
	escalation Escalator
	cache      *cache.Cache // nil, если Redis не настроен
	adminID    int64
	groupID    atomic.Int64
	log        *slog.Logger
}

// New создает новый экземпляр App. seedGroupID = 0 означает, что группа
// станет известна, когда бота туда добавят.
func New(repo Repository, transport Transport, escalation Escalator, statsCache *cache.Cache, adminID, seedGroupID int64, log *slog.Logger) *App {
	a := &App{
		repo:       repo,
		transport:  transport,
		escalation: escalation,
		cache:      statsCache,
		adminID:    adminID,
		log:        log,
	}
	a.groupID.Store(seedGroupID)
	return a
}

// GroupID возвращает текущую известную группу, 0 — группа не записана.
func (a *App) GroupID() int64 {
	return a.groupID.Load()
}

// Run читает обновления до закрытия канала или отмены контекста.
// Каждое обновление обрабатывается в своей горутине: паника в одном
// обработчике не останавливает воркер.
func (a *App) Run(ctx context.Context) error {
	updates := a.transport.UpdatesChannel()
	a.log.Info("bot update loop started", slog.Int64("admin_id", a.adminID))

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("updates channel closed")
			}
			go a.handleUpdate(ctx, update)
		case <-ctx.Done():
			a.transport.StopReceivingUpdates()
			return nil
		}
	}
}

func (a *App) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("panic in update handler", slog.Any("panic", r))
		}
	}()

	msg := update.Message
	if msg == nil {
		return
	}
	switch {
	case len(msg.NewChatMembers) > 0:
		a.handleNewMembers(ctx, msg)
	case msg.IsCommand():
		a.handleCommand(ctx, msg)
	default:
		a.handleMessage(ctx, msg)
	}
}

func (a *App) reply(ctx context.Context, chatID int64, text string) {
	if err := a.transport.SendMessage(ctx, chatID, text); err != nil {
		a.log.Error("failed to send reply", sl.Err(err))
	}
}

func (a *App) notifyAdmin(ctx context.Context, text string) {
	if err := a.transport.SendMessage(ctx, a.adminID, text); err != nil {
		a.log.Error("failed to notify admin", sl.Err(err))
	}
}

// statsCacheTTL время жизни снимка статистики в Redis.
const statsCacheTTL = time.Minute
