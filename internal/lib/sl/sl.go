// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — единообразные структурированные поля лога: ошибки
// и идентификаторы участников встречаются почти в каждом сообщении.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to ban user", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// UserID возвращает slog.Attr с ключом "user_id".
func UserID(id int64) slog.Attr {
	return slog.Int64("user_id", id)
}
