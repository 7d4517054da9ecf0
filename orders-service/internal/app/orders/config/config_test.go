package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8082", cfg.Server.Address())
	assert.Equal(t, "Orders", cfg.Dynamo.OrdersTable)
	assert.Equal(t, "userEmail-index", cfg.Dynamo.UserEmailIndex)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "order_events", cfg.Kafka.Topic)
	assert.False(t, cfg.Firebase.Enabled)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("FIREBASE_CREDENTIALS_FILE", "/etc/umsshop/fcm.json")
	t.Setenv("DYNAMO_TABLE_ORDERS", "OrdersStaging")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Firebase.Enabled)
	assert.Equal(t, "OrdersStaging", cfg.Dynamo.OrdersTable)
}

func TestLoad_FirebaseExplicitlyDisabled(t *testing.T) {
	t.Setenv("FIREBASE_CREDENTIALS_FILE", "/etc/umsshop/fcm.json")
	t.Setenv("FIREBASE_ENABLED", "false")

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.Firebase.Enabled)
}
