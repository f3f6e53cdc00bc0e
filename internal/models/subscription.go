package models

import "time"

// Subscription активная подписка участника, не более одной на участника.
// Поле ExpiryDate дублируется в User.SubscriptionExpiry и обновляется
// вместе с ним при каждой мутации.
type Subscription struct {
	UserID     int64     // Владелец подписки
	ExpiryDate time.Time // Дата окончания
	UpdatedAt  time.Time // Последнее продление
}

// RenewalEvent событие продления подписки из внешней биллинговой системы.
// Приходит через очередь subscription_renewals.
type RenewalEvent struct {
	UserID int64 `json:"user_id" validate:"required"`
	Days   int   `json:"days" validate:"required,gt=0"`
}
