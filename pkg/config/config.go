// Package config loads the service configuration from the environment, with
// an optional .env file for local runs.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/referral-ledger/pkg/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"
)

// Config is the resolved service configuration.
type Config struct {
	HTTPPort string
	LogLevel string
	LogJSON  bool

	MinWithdraw    int64
	AdminAccountID string
	AdminJWTSecret string
	Catalog        *models.Catalog

	PersistenceBackend   string
	StateFile            string
	AccountsTableName    string
	PurchasesTableName   string
	WithdrawalsTableName string
	LedgerTableName      string
	SQSQueueURL          string
	BotToken             string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	DialogueSessionTTL   time.Duration
	CORSAllowedOrigins   []string
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("MIN_WITHDRAW", 100)
	v.SetDefault("ADMIN_ACCOUNT_ID", "")
	v.SetDefault("ADMIN_JWT_SECRET", "")
	v.SetDefault("PACKAGE_COMMISSIONS", "")
	v.SetDefault("PERSISTENCE_BACKEND", BackendFile)
	v.SetDefault("STATE_FILE", "data/state.json")
	v.SetDefault("DYNAMODB_ACCOUNTS_TABLE_NAME", "")
	v.SetDefault("DYNAMODB_PURCHASES_TABLE_NAME", "")
	v.SetDefault("DYNAMODB_WITHDRAWALS_TABLE_NAME", "")
	v.SetDefault("DYNAMODB_LEDGER_TABLE_NAME", "")
	v.SetDefault("SQS_QUEUE_URL", "")
	v.SetDefault("BOT_TOKEN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DIALOGUE_SESSION_TTL", "15m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	return v
}

// FromViper resolves and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPPort:             v.GetString("HTTP_PORT"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogJSON:              v.GetBool("LOG_JSON"),
		MinWithdraw:          v.GetInt64("MIN_WITHDRAW"),
		AdminAccountID:       v.GetString("ADMIN_ACCOUNT_ID"),
		AdminJWTSecret:       v.GetString("ADMIN_JWT_SECRET"),
		PersistenceBackend:   strings.ToLower(v.GetString("PERSISTENCE_BACKEND")),
		StateFile:            v.GetString("STATE_FILE"),
		AccountsTableName:    v.GetString("DYNAMODB_ACCOUNTS_TABLE_NAME"),
		PurchasesTableName:   v.GetString("DYNAMODB_PURCHASES_TABLE_NAME"),
		WithdrawalsTableName: v.GetString("DYNAMODB_WITHDRAWALS_TABLE_NAME"),
		LedgerTableName:      v.GetString("DYNAMODB_LEDGER_TABLE_NAME"),
		SQSQueueURL:          v.GetString("SQS_QUEUE_URL"),
		BotToken:             v.GetString("BOT_TOKEN"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		CORSAllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	ttl, err := time.ParseDuration(normalizeDuration(v.GetString("DIALOGUE_SESSION_TTL")))
	if err != nil || ttl < 0 {
		return nil, fmt.Errorf("invalid DIALOGUE_SESSION_TTL %q", v.GetString("DIALOGUE_SESSION_TTL"))
	}
	cfg.DialogueSessionTTL = ttl

	if commissions := strings.TrimSpace(v.GetString("PACKAGE_COMMISSIONS")); commissions != "" {
		catalog, err := models.ParseCatalog(commissions)
		if err != nil {
			return nil, fmt.Errorf("invalid PACKAGE_COMMISSIONS: %w", err)
		}
		cfg.Catalog = catalog
	} else {
		cfg.Catalog = models.NewCatalog(models.DefaultPackages...)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinWithdraw <= 0 {
		return errors.New("MIN_WITHDRAW must be positive")
	}
	switch c.PersistenceBackend {
	case BackendFile:
		if c.StateFile == "" {
			return errors.New("STATE_FILE is required for the file backend")
		}
	case BackendDynamoDB:
		if c.AccountsTableName == "" || c.PurchasesTableName == "" || c.WithdrawalsTableName == "" || c.LedgerTableName == "" {
			return errors.New("one or more DynamoDB table name environment variables are not set")
		}
	default:
		return fmt.Errorf("unknown PERSISTENCE_BACKEND %q", c.PersistenceBackend)
	}
	return nil
}

// RequireAdmin reports an error unless the administrator id and token secret are set.
func (c *Config) RequireAdmin() error {
	if c.AdminAccountID == "" || c.AdminJWTSecret == "" {
		return errors.New("ADMIN_ACCOUNT_ID and ADMIN_JWT_SECRET must be set")
	}
	return nil
}

// normalizeDuration treats a bare "0" as zero seconds.
func normalizeDuration(s string) string {
	s = strings.TrimSpace(s)
	if s == "0" {
		return "0s"
	}
	return s
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
