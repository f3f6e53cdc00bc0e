// Package telegram оборачивает клиент Bot API в транспорт бота:
// отправка и удаление сообщений, ограничение прав и бан участников.
// Все исходящие вызовы проходят через rate-лимитер, чтобы не упираться
// в лимиты Bot API при всплесках нарушений.
package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Client транспорт поверх Telegram Bot API.
type Client struct {
	api     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

// New создаёт клиента по токену бота.
func New(token string) (*Client, error) {
	const op = "telegram.New"
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Client{
		api: api,
		// Bot API допускает около 30 сообщений в секунду на бота.
		limiter: rate.NewLimiter(rate.Limit(25), 5),
	}, nil
}

// Self возвращает учётную запись самого бота.
func (c *Client) Self() tgbotapi.User {
	return c.api.Self
}

// UpdatesChannel возвращает канал входящих обновлений long polling.
func (c *Client) UpdatesChannel() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return c.api.GetUpdatesChan(u)
}

// StopReceivingUpdates останавливает long polling.
func (c *Client) StopReceivingUpdates() {
	c.api.StopReceivingUpdates()
}

// SendMessage отправляет текстовое сообщение с Markdown-разметкой.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	const op = "telegram.SendMessage"
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteMessage удаляет сообщение из чата.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	const op = "telegram.DeleteMessage"
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RestrictMember лишает участника права отправлять сообщения до until.
func (c *Client) RestrictMember(ctx context.Context, chatID, userID int64, until time.Time) error {
	const op = "telegram.RestrictMember"
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	canSend := false
	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatID,
			UserID: userID,
		},
		UntilDate: until.Unix(),
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages:       canSend,
			CanSendMediaMessages:  canSend,
			CanSendOtherMessages:  canSend,
			CanAddWebPagePreviews: canSend,
		},
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// BanMember навсегда удаляет участника из группы.
func (c *Client) BanMember(ctx context.Context, chatID, userID int64) error {
	const op = "telegram.BanMember"
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	cfg := tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatID,
			UserID: userID,
		},
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
