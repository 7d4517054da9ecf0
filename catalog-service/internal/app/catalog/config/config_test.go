package config

import (
	"testing"
	"time"

	"umsshop/catalog-service/internal/app/catalog/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8081", cfg.Server.Address())
	assert.Equal(t, "MainCategory", cfg.Dynamo.MainTable)
	assert.Equal(t, entity.DeletePolicyOrphan, cfg.Catalog.DeletePolicy)
	assert.Equal(t, time.Hour, cfg.Catalog.CacheTTL)
	assert.True(t, cfg.History.Enabled)
}

func TestLoad_DeletePolicyFromEnv(t *testing.T) {
	t.Setenv("CATEGORY_DELETE_POLICY", "cascade")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, entity.DeletePolicyCascade, cfg.Catalog.DeletePolicy)
}

func TestLoad_InvalidDeletePolicy(t *testing.T) {
	t.Setenv("CATEGORY_DELETE_POLICY", "recycle")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CATEGORY_DELETE_POLICY")
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "first")

	_, err := Load()

	assert.Error(t, err)
}
