// Package models содержит доменные структуры бота: участников группы,
// предупреждения, подписки и типы, описывающие нарушения правил.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет участника премиум-группы.
// Поле WarningCount никогда не уменьшается само по себе:
// сбросить его может только явное действие администратора.
type User struct {
	UserID             int64      // Telegram id участника (уникальный)
	Username           string     // Имя пользователя (@username, может быть пустым)
	FirstName          string     // Имя
	LastName           string     // Фамилия
	JoinDate           time.Time  // Дата вступления в группу
	WarningCount       int        // Количество предупреждений (>= 0)
	IsMuted            bool       // Участник временно лишён права писать
	IsBanned           bool       // Участник удалён из группы
	SubscriptionExpiry *time.Time // Денормализованная дата окончания подписки
}

// DisplayName возвращает имя участника для текстов уведомлений.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "Unknown"
}

// Stats агрегированные показатели по группе для команды /stats.
type Stats struct {
	TotalUsers     int `json:"total_users"`
	ActiveWarnings int `json:"active_warnings"`
	MutedUsers     int `json:"muted_users"`
	BannedUsers    int `json:"banned_users"`
}
