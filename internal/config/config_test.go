package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadLedgerSyncConfig(t *testing.T) {
	t.Run("valid config file", func(t *testing.T) {
		path := writeConfigFile(t, `
debug: true
sentry_dsn: "https://sentry.example.com"
worker:
  pool_size: 16
  queue_size: 512
database:
  host: localhost
  port: 5433
  user: testuser
  password: testpass
  dbname: carbon_ledger
  sslmode: require
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_EVENTS"
  connection_name: "ledger-sync-test"
chain:
  websocket_url: "ws://localhost:8546"
  rpc_url: "http://localhost:8545"
  chain_id: "eip155:11155111"
  contract_address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
  start_block: 4200000
  chunk_size: 500
  confirmation_depth: 12
  confirm_interval: "30s"
`)

		cfg, err := LoadLedgerSyncConfig(path, "")
		require.NoError(t, err)

		assert.True(t, cfg.Debug)
		assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
		assert.Equal(t, 16, cfg.Worker.WorkerPoolSize)
		assert.Equal(t, 512, cfg.Worker.WorkerQueueSize)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "carbon_ledger", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
		assert.Equal(t, "TEST_EVENTS", cfg.NATS.StreamName)
		assert.Equal(t, "ws://localhost:8546", cfg.Chain.WebSocketURL)
		assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", cfg.Chain.ContractAddress)
		assert.Equal(t, uint64(4200000), cfg.Chain.StartBlock)
		assert.Equal(t, uint64(500), cfg.Chain.ChunkSize)
		assert.Equal(t, uint64(12), cfg.Chain.ConfirmationDepth)
		assert.Equal(t, 30*time.Second, cfg.Chain.ConfirmInterval)
	})

	t.Run("defaults applied without config file", func(t *testing.T) {
		cfg, err := LoadLedgerSyncConfig("", t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, "CARBON_EVENTS", cfg.NATS.StreamName)
		assert.Equal(t, 10, cfg.NATS.MaxReconnects)
		assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
		assert.Equal(t, uint64(1000), cfg.Chain.ChunkSize)
		assert.Equal(t, uint64(6), cfg.Chain.ConfirmationDepth)
		assert.Equal(t, 15*time.Second, cfg.Chain.ConfirmInterval)
		assert.Equal(t, 8, cfg.Worker.WorkerPoolSize)
	})

	t.Run("environment variables override", func(t *testing.T) {
		t.Setenv("CARBON_LEDGER_DATABASE_HOST", "db.internal")
		t.Setenv("CARBON_LEDGER_CHAIN_CONTRACT_ADDRESS", "0x00000000000000000000000000000000deadbeef")

		cfg, err := LoadLedgerSyncConfig("", t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "0x00000000000000000000000000000000deadbeef", cfg.Chain.ContractAddress)
	})
}

func TestLoadAPIConfig(t *testing.T) {
	t.Run("valid config file", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 5
database:
  host: localhost
  user: api
  password: secret
  dbname: carbon_ledger
auth:
  jwt_secret: "test-secret"
`)

		cfg, err := LoadAPIConfig(path, "")
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 5, cfg.Server.ReadTimeout)
		assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
		// Defaults fill the rest
		assert.Equal(t, 10, cfg.Server.WriteTimeout)
		assert.Equal(t, 120, cfg.Server.IdleTimeout)
		assert.Equal(t, 5432, cfg.Database.Port)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadAPIConfig("", t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.False(t, cfg.Debug)
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "carbon",
		Password: "secret",
		DBName:   "carbon_ledger",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=carbon password=secret dbname=carbon_ledger sslmode=disable",
		cfg.DSN())
}
