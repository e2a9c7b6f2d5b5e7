package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, int64(100), cfg.MinWithdraw)
	assert.Equal(t, BackendFile, cfg.PersistenceBackend)
	assert.Equal(t, 15*time.Minute, cfg.DialogueSessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)

	basic, ok := cfg.Catalog.Lookup("basic")
	require.True(t, ok)
	assert.Equal(t, int64(200), basic.Commission)
	assert.Error(t, cfg.RequireAdmin())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MIN_WITHDRAW", "500")
	t.Setenv("ADMIN_ACCOUNT_ID", "42")
	t.Setenv("ADMIN_JWT_SECRET", "s3cret")
	t.Setenv("PERSISTENCE_BACKEND", "DynamoDB")
	t.Setenv("DYNAMODB_ACCOUNTS_TABLE_NAME", "accounts")
	t.Setenv("DYNAMODB_PURCHASES_TABLE_NAME", "purchases")
	t.Setenv("DYNAMODB_WITHDRAWALS_TABLE_NAME", "withdrawals")
	t.Setenv("DYNAMODB_LEDGER_TABLE_NAME", "ledger")
	t.Setenv("DIALOGUE_SESSION_TTL", "0")
	t.Setenv("PACKAGE_COMMISSIONS", "Gold=2500, Silver=1200")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, int64(500), cfg.MinWithdraw)
	assert.Equal(t, BackendDynamoDB, cfg.PersistenceBackend)
	assert.Equal(t, "withdrawals", cfg.WithdrawalsTableName)
	assert.Equal(t, time.Duration(0), cfg.DialogueSessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.NoError(t, cfg.RequireAdmin())

	gold, ok := cfg.Catalog.Lookup("GOLD")
	require.True(t, ok)
	assert.Equal(t, int64(2500), gold.Commission)
	_, ok = cfg.Catalog.Lookup("Basic")
	assert.False(t, ok)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"Unknown backend", map[string]string{"PERSISTENCE_BACKEND": "postgres"}},
		{"DynamoDB without tables", map[string]string{"PERSISTENCE_BACKEND": "dynamodb"}},
		{"Non-positive minimum", map[string]string{"MIN_WITHDRAW": "0"}},
		{"Bad session ttl", map[string]string{"DIALOGUE_SESSION_TTL": "soon"}},
		{"Negative session ttl", map[string]string{"DIALOGUE_SESSION_TTL": "-1m"}},
		{"Bad catalog", map[string]string{"PACKAGE_COMMISSIONS": "Gold"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
