package models

import "time"

// Warning неизменяемая запись о нарушении. Создаётся ровно один раз
// на каждое зафиксированное нарушение и далее не редактируется.
// AdminID = 0 означает автоматическое срабатывание классификатора.
type Warning struct {
	ID        string    // UUID записи
	UserID    int64     // Участник, получивший предупреждение
	Reason    string    // Причина в свободной форме
	AdminID   int64     // Кто выдал предупреждение, 0 — бот
	CreatedAt time.Time // Момент фиксации
	Resolved  bool      // Зарезервировано для процедуры обжалования
}
