package rabbitmq

const (
	// RoutingKeyPurchased ключ маршрутизации события о покупке подписки.
	RoutingKeyPurchased = "subscription.purchased"
	// RoutingKeyExpiring ключ маршрутизации напоминания об окончании подписки.
	RoutingKeyExpiring = "subscription.expiring"
)

// QueueConfig очередь и ключ, с которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetSubscriptionQueues очереди, в которые попадают события о подписках.
func GetSubscriptionQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "subscriptions.purchased", RoutingKey: RoutingKeyPurchased},
		{QueueName: "subscriptions.expiring", RoutingKey: RoutingKeyExpiring},
	}
}
