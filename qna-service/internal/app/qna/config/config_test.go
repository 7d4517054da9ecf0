package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8084", cfg.Server.Address())
	assert.Equal(t, "qna_service", cfg.MongoDB.Database)
	assert.Equal(t, "qna_events", cfg.Kafka.Topic)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.History.Enabled)
}

func TestLoad_FromEnv(t *testing.T) {
	// Arrange
	t.Setenv("MONGODB_URI", "mongodb://mongo:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("HISTORY_ENABLED", "false")
	t.Setenv("HISTORY_DB_HOST", "pg")

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoDB.URI)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.History.Enabled)
	assert.Contains(t, cfg.History.DSN(), "host=pg")
}
