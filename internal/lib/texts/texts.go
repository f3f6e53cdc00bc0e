// Package texts содержит все тексты сообщений бота: правила группы,
// приветствие, уведомления по уровням санкций и оповещения администратора.
// Тексты используют Markdown-разметку Telegram.
package texts

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// Rules фиксированный свод правил премиум-группы.
const Rules = `🚫 *PREMIUM GROUP RULES* 🚫

1. *NO COPY* - Do not copy content
2. *NO FORWARD* - Forwarding is prohibited
3. *NO SHARE* - Do not share with outsiders
4. *NO SCREENSHOTS* - Screenshots are forbidden
5. *NO SCREEN RECORDING* - Recording is strictly prohibited

⚠️ *VIOLATION POLICY* ⚠️
• 1st violation → Warning
• 2nd violation → 24-hour mute
• 3rd violation → Permanent ban
• Serious violations → Immediate removal without refund

📢 *REMINDER*: Screenshot/screen recording is strictly prohibited.
Violators will be removed immediately.`

// Reminder текст периодического напоминания для группы.
const Reminder = `📢 *REMINDER* 📢

Screenshot/screen recording is *STRICTLY PROHIBITED* in this premium group.

Violation of this rule will result in:
• Immediate removal from group
• No refund of subscription
• Possible legal action

Enjoy the exclusive content responsibly! 🤝`

// StartAck ответ администратору на команду /start.
const StartAck = "🤖 *Premium Moderation Bot Active*\n\n" +
	"Bot is running and monitoring the group.\n" +
	"Admin notifications enabled."

// Activated сообщение в группу при добавлении бота.
const Activated = "🤖 *Premium Moderation Bot Activated*\n\n" +
	"I will now enforce group rules automatically.\n" +
	"Admin: Configure settings via private message."

// Welcome приветствие нового участника со сводом правил.
func Welcome(firstName string) string {
	return fmt.Sprintf("👋 Welcome to the Premium Group, *Mr. %s*!\n\n%s\n\n"+
		"Please read and respect the rules above. "+
		"Violations will result in warnings, mutes, or bans.", firstName, Rules)
}

// WarningNotice уведомление о первом предупреждении.
func WarningNotice(firstName string, count int, reason models.ViolationReason) string {
	return fmt.Sprintf("⚠️ *Warning #%d*\n\n*Mr. %s*, you violated the rules:\n"+
		"• Reason: %s\n\nNext violation: 24-hour mute\nPlease review the group rules.",
		count, firstName, reason)
}

// MuteNotice уведомление о 24-часовом муте.
func MuteNotice(firstName string, count int, reason models.ViolationReason) string {
	return fmt.Sprintf("🔇 *24-Hour Mute*\n\n*Mr. %s* has been muted for 24 hours.\n"+
		"• Reason: %s\n• Warnings: %d/3\n\nNext violation: Permanent ban",
		firstName, reason, count)
}

// BanNotice уведомление о бане.
func BanNotice(firstName string, count int, reason models.ViolationReason) string {
	return fmt.Sprintf("🚫 *Permanent Ban*\n\n*Mr. %s* has been banned.\n"+
		"• Reason: %s\n• Total warnings: %d\n\nUser removed from premium group.",
		firstName, reason, count)
}

// ViolationAlert оповещение администратора о нарушении.
// Отправляется всегда, независимо от исхода санкции.
func ViolationAlert(firstName, username string, userID int64, reason models.ViolationReason, count int, action models.Action, now time.Time) string {
	if username == "" {
		username = "N/A"
	}
	return fmt.Sprintf("⚠️ *Violation Alert*\n• User: %s (@%s)\n• ID: `%d`\n"+
		"• Reason: %s\n• Warnings: %d/3\n• Action: %s\n• Time: %s",
		firstName, username, userID, reason, count, action,
		now.UTC().Format("2006-01-02 15:04 UTC"))
}

// NewMemberAlert оповещение администратора о новом участнике.
func NewMemberAlert(firstName, lastName, username string, userID int64, now time.Time) string {
	if username == "" {
		username = "N/A"
	}
	return fmt.Sprintf("🆕 *New Member Joined*\n• Name: %s %s\n• Username: @%s\n"+
		"• ID: `%d`\n• Time: %s",
		firstName, lastName, username, userID, now.UTC().Format("2006-01-02 15:04 UTC"))
}

// ExpiredAlert оповещение администратора об удалении участника
// с истёкшей подпиской.
func ExpiredAlert(userID int64, firstName string, expiredAt time.Time) string {
	if firstName == "" {
		firstName = "Unknown"
	}
	return fmt.Sprintf("🗑️ *Expired Subscription Removed*\n• User ID: `%d`\n"+
		"• Name: %s\n• Expired: %s", userID, firstName,
		expiredAt.UTC().Format("2006-01-02 15:04 UTC"))
}

// StatsReport отчёт по команде /stats.
func StatsReport(st *models.Stats, groupID int64, now time.Time) string {
	group := "Not set"
	if groupID != 0 {
		group = fmt.Sprintf("%d", groupID)
	}
	return fmt.Sprintf("📊 *Bot Statistics*\n\n• Total Users: %d\n"+
		"• Active Warnings: %d\n• Muted Users: %d\n• Banned Users: %d\n"+
		"• Group ID: `%s`\n\nUptime check: %s",
		st.TotalUsers, st.ActiveWarnings, st.MutedUsers, st.BannedUsers,
		group, now.UTC().Format("2006-01-02 15:04 UTC"))
}
