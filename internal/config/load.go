package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. ACCTSVC_SERVER_PORT.
const EnvPrefix = "ACCTSVC"

// keys lists every configuration key with its default value. Each key is also
// bound to its environment variable so that env-only setups unmarshal fully.
var keys = map[string]any{
	"server.port":                     8080,
	"server.log_level":                "info",
	"server.shutdown_timeout_seconds": 10,
	"database.driver":                 "postgres",
	"database.url":                    "",
	"database.max_open_conns":         10,
	"accounts.min_initial_balance":    "100",
	"events.driver":                   "log",
	"events.workers":                  2,
	"events.queue_size":               256,
	"events.redis.addr":               "localhost:6379",
	"events.redis.password":           "",
	"events.redis.db":                 0,
	"events.redis.stream":             "account-service.events",
}

// Load configuration from defaults, an optional config.yaml in the working
// directory, and environment variables. Environment variables take precedence
// over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is like Load but looks for config.yaml in dir.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, def := range keys {
		v.SetDefault(key, def)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	min, err := c.Accounts.MinInitialBalanceDecimal()
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if min.IsNegative() {
		return fmt.Errorf("config validation failed: accounts.min_initial_balance must not be negative")
	}

	if c.Events.Driver == "redis" && c.Events.Redis.Addr == "" {
		return fmt.Errorf("config validation failed: events.redis.addr is required for the redis driver")
	}
	return nil
}

// MinInitialBalanceDecimal parses MinInitialBalance.
func (a AccountsConfig) MinInitialBalanceDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(a.MinInitialBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid accounts.min_initial_balance %q: %w", a.MinInitialBalance, err)
	}
	return d, nil
}
