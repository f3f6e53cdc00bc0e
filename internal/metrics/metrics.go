// Package metrics регистрирует счётчики Prometheus для наблюдения
// за работой бота. Счётчики отдаются через /metrics health-сервера.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ViolationsTotal число зафиксированных нарушений по причине и санкции.
	ViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_violations_total",
		Help: "Total number of detected rule violations.",
	}, []string{"reason", "action"})

	// SweepRemovalsTotal число участников, удалённых за истёкшую подписку.
	SweepRemovalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moderation_sweep_removals_total",
		Help: "Total number of users removed by the subscription sweep.",
	})

	// RemindersSentTotal число отправленных напоминаний о правилах.
	RemindersSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moderation_reminders_sent_total",
		Help: "Total number of rules reminders sent to the group.",
	})
)
