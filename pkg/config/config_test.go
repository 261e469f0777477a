package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CONTRACT_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	t.Setenv("CHAIN_ID", "31337")
	t.Setenv("START_BLOCK", "100")
	t.Setenv("LOG_PAGE_SIZE", "500")
	t.Setenv("DISCOVERY_CACHE_TTL", "30s")
	t.Setenv("DEMO_FALLBACK", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", cfg.ContractAddress)
	assert.Equal(t, int64(31337), cfg.ChainID)
	assert.Equal(t, uint64(100), cfg.StartBlock)
	assert.Equal(t, uint64(500), cfg.LogPageSize)
	assert.Equal(t, 30*time.Second, cfg.DiscoveryCacheTTL)
	assert.False(t, cfg.DemoFallback)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_PAGE_SIZE", "not-a-number")
	t.Setenv("RPC_REQUESTS_PER_SEC", "-1")
	t.Setenv("DEMO_FALLBACK", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, uint64(2000), cfg.LogPageSize)
	assert.Equal(t, float64(10), cfg.RPCRequestsPerSec)
	assert.True(t, cfg.DemoFallback)
	assert.Equal(t, "@every 15s", cfg.IndexerSchedule)
}
