package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Accounts AccountsConfig `mapstructure:"accounts" validate:"required"`
	Events   EventsConfig   `mapstructure:"events" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds how long in-flight requests may run after SIGTERM.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL          string `mapstructure:"url" validate:"required_if=Driver postgres,omitempty,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// AccountsConfig holds the bank account business rules that are tunable.
type AccountsConfig struct {
	// MinInitialBalance is a decimal string, e.g. "100" or "100.00".
	MinInitialBalance string `mapstructure:"min_initial_balance" validate:"required,numeric"`
}

// EventsConfig selects where domain events are published.
type EventsConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=none log redis"`
	// Workers > 0 delivers events asynchronously through a queue of QueueSize.
	// Zero delivers inline after the transaction commits.
	Workers   int         `mapstructure:"workers" validate:"gte=0"`
	QueueSize int         `mapstructure:"queue_size" validate:"gte=0"`
	Redis     RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the Redis stream emitter.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	Stream   string `mapstructure:"stream" validate:"required"`
}
