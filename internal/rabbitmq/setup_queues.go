package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetModerationQueues возвращает очереди бота:
// исходящие события о нарушениях и входящие продления подписок.
func GetModerationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "moderation_events", RoutingKey: "violation"},
		{QueueName: "subscription_renewals", RoutingKey: "subscription.renewed"},
	}
}
