package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Currency CurrencyConfig `mapstructure:"currency"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"` // debug, release, test
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Corrupt slot policies.
const (
	OnCorruptFallback = "fallback"
	OnCorruptFail     = "fail"
)

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	OnCorrupt  string `mapstructure:"on_corrupt"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// Dangling wallet policies.
const (
	DanglingRecord      = "record"
	DanglingReject      = "reject"
	DanglingPlaceholder = "placeholder"
)

type LedgerConfig struct {
	DanglingWallet string `mapstructure:"dangling_wallet"`
}

type CurrencyConfig struct {
	// Rates maps a currency code to units per base unit (USD=1).
	Rates   map[string]float64 `mapstructure:"rates"`
	Display string             `mapstructure:"display"`
}

type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether an API key is configured.
func (g GeminiConfig) Enabled() bool {
	return g.APIKey != ""
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: SW_.
// Nested keys use underscore: SW_STORAGE_DRIVER, SW_GEMINI_API_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.on_corrupt", OnCorruptFallback)
	v.SetDefault("storage.sqlite_path", "spendwiser.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "spendwiser")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "spendwiser:")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.expiry", "24h")
	v.SetDefault("session.issuer", "spendwiser")
	v.SetDefault("ledger.dangling_wallet", DanglingRecord)
	v.SetDefault("currency.rates", map[string]float64{"USD": 1, "INR": 83})
	v.SetDefault("currency.display", "INR")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.timeout", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// SW_STORAGE_DRIVER -> storage.driver
	v.SetEnvPrefix("SW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalize upper-cases currency codes; viper lowercases map keys.
func (c *Config) normalize() {
	rates := make(map[string]float64, len(c.Currency.Rates))
	for code, r := range c.Currency.Rates {
		rates[strings.ToUpper(code)] = r
	}
	c.Currency.Rates = rates
	c.Currency.Display = strings.ToUpper(c.Currency.Display)
	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	c.Storage.OnCorrupt = strings.ToLower(c.Storage.OnCorrupt)
	c.Ledger.DanglingWallet = strings.ToLower(c.Ledger.DanglingWallet)
}

// Validate rejects unknown policy values and unusable rate tables.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}

	switch c.Storage.OnCorrupt {
	case OnCorruptFallback, OnCorruptFail:
	default:
		return fmt.Errorf("storage.on_corrupt: unknown policy %q", c.Storage.OnCorrupt)
	}

	switch c.Ledger.DanglingWallet {
	case DanglingRecord, DanglingReject, DanglingPlaceholder:
	default:
		return fmt.Errorf("ledger.dangling_wallet: unknown policy %q", c.Ledger.DanglingWallet)
	}

	if len(c.Currency.Rates) == 0 {
		return fmt.Errorf("currency.rates: at least one rate is required")
	}
	for code, r := range c.Currency.Rates {
		if r <= 0 {
			return fmt.Errorf("currency.rates: rate for %s must be positive", code)
		}
	}
	if _, ok := c.Currency.Rates[c.Currency.Display]; !ok {
		return fmt.Errorf("currency.display: %q has no configured rate", c.Currency.Display)
	}

	return nil
}
