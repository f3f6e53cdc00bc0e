package models

// ViolationReason причина нарушения, определённая классификатором.
type ViolationReason string

const (
	// ReasonNone сообщение не нарушает правил.
	ReasonNone ViolationReason = ""
	// ReasonForwarded сообщение переслано из другого чата или канала.
	ReasonForwarded ViolationReason = "Forwarded message"
	// ReasonExternalLink сообщение содержит внешнюю ссылку.
	ReasonExternalLink ViolationReason = "External link"
	// ReasonSuspicious текст содержит запрещённый термин.
	ReasonSuspicious ViolationReason = "Suspicious content"
)

// Action итог обработки нарушения по числу предупреждений.
type Action string

const (
	// ActionWarning первое предупреждение, только текстовое уведомление.
	ActionWarning Action = "WARNING"
	// ActionMute участник лишён права писать на 24 часа.
	ActionMute Action = "MUTE"
	// ActionMuteFailed мут не удался, предупреждение при этом сохранено.
	ActionMuteFailed Action = "MUTE_FAILED"
	// ActionBan участник удалён из группы.
	ActionBan Action = "BAN"
	// ActionBanFailed бан не удался, предупреждение при этом сохранено.
	ActionBanFailed Action = "BAN_FAILED"
)

// MessageEntity сущность разметки входящего сообщения (ссылка и т.п.).
type MessageEntity struct {
	Type string
}

// InboundMessage входящее сообщение в виде, независимом от транспорта.
// Классификатор работает только с этой структурой.
type InboundMessage struct {
	Text            string
	Caption         string
	IsForwarded     bool
	Entities        []MessageEntity
	CaptionEntities []MessageEntity
}

// Violation зафиксированное нарушение, вход движка эскалации.
// Удаление сообщения-нарушителя сюда не входит: им занимается вызывающая
// сторона до обращения к движку.
type Violation struct {
	UserID    int64
	FirstName string
	Username  string
	ChatID    int64           // Куда отправлять уведомления о санкции
	Reason    ViolationReason // Либо произвольная причина для ручного /warn
	AdminID   int64           // 0 — автоматическая фиксация
}

// SanctionResult решение движка эскалации по нарушению.
type SanctionResult struct {
	UserID   int64  `json:"user_id"`
	Reason   string `json:"reason"`
	NewCount int    `json:"new_count"`
	Action   Action `json:"action"`
}
