package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSubscriptionQueues(t *testing.T) {
	queues := GetSubscriptionQueues()

	require.NotEmpty(t, queues, "queues list should not be empty")

	require.Len(t, queues, 2)
	assert.Equal(t, QueueConfig{QueueName: "subscriptions.purchased", RoutingKey: RoutingKeyPurchased}, queues[0])
	assert.Equal(t, QueueConfig{QueueName: "subscriptions.expiring", RoutingKey: RoutingKeyExpiring}, queues[1])

	seen := map[string]bool{}
	for _, q := range queues {
		assert.Falsef(t, seen[q.QueueName], "duplicate queue name: %s", q.QueueName)
		seen[q.QueueName] = true
	}
}
