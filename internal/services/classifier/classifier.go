// Package classifier определяет, нарушает ли входящее сообщение правила
// премиум-группы. Классификация чистая и детерминированная: каждое
// сообщение отображается ровно в одну причину либо в её отсутствие.
package classifier

import (
	"strings"

	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

// suspiciousTerms фиксированный набор запрещённых терминов.
// Поиск ведётся по подстроке без учёта регистра.
var suspiciousTerms = []string{"leak", "pirate", "unauthorized", "share", "free", "download"}

// Classify возвращает причину нарушения для сообщения.
// Правила проверяются по порядку, срабатывает первое совпадение:
// пересылка, затем внешняя ссылка, затем запрещённый термин.
// Сообщения администратора сюда не попадают: их отсеивает обработчик
// до классификации.
func Classify(msg models.InboundMessage) models.ViolationReason {
	if msg.IsForwarded {
		return models.ReasonForwarded
	}
	if hasLinkEntity(msg.Entities) || hasLinkEntity(msg.CaptionEntities) {
		return models.ReasonExternalLink
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	lower := strings.ToLower(text)
	for _, term := range suspiciousTerms {
		if strings.Contains(lower, term) {
			return models.ReasonSuspicious
		}
	}
	return models.ReasonNone
}

func hasLinkEntity(entities []models.MessageEntity) bool {
	for _, e := range entities {
		if e.Type == "url" || e.Type == "text_link" {
			return true
		}
	}
	return false
}
