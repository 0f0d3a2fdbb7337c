package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Ledger store kinds
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	// Discord configuration
	Token   string
	AppID   string
	GuildID string

	// Environment
	Environment string // "development" or "production"
	LogLevel    string

	// Ledger storage
	LedgerStore string
	SQLiteDSN   string

	// Commentary
	GeminiAPIKey string
	GeminiModel  string

	Delays Delays

	StrategyTimeout time.Duration
	TickerInterval  time.Duration
}

// Delays are the simulated processing and animation pauses
type Delays struct {
	Deposit  time.Duration
	Withdraw time.Duration
	KYC      time.Duration

	Dealer time.Duration
	Spin   time.Duration
	Flip   time.Duration
	Wheel  time.Duration
	Roll   time.Duration
	Turn   time.Duration
}

// DefaultDelays returns the stock pacing of the casino
func DefaultDelays() Delays {
	return Delays{
		Deposit:  1500 * time.Millisecond,
		Withdraw: 1500 * time.Millisecond,
		KYC:      2000 * time.Millisecond,
		Dealer:   800 * time.Millisecond,
		Spin:     1500 * time.Millisecond,
		Flip:     1000 * time.Millisecond,
		Wheel:    2000 * time.Millisecond,
		Roll:     600 * time.Millisecond,
		Turn:     1000 * time.Millisecond,
	}
}

// Load reads the configuration from .env and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	return FromEnv()
}

// FromEnv builds a Config from the current process environment
func FromEnv() (*Config, error) {
	cfg := &Config{
		Token:        os.Getenv("DISCORD_TOKEN"),
		AppID:        os.Getenv("APP_ID"),
		GuildID:      os.Getenv("GUILD_ID"),
		Environment:  getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:     getEnvWithDefault("LOG_LEVEL", "INFO"),
		LedgerStore:  getEnvWithDefault("LEDGER_STORE", StoreMemory),
		SQLiteDSN:    getEnvWithDefault("SQLITE_DSN", "file::memory:?cache=shared"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvWithDefault("GEMINI_MODEL", "gemini-2.0-flash"),
	}

	defaults := DefaultDelays()
	durations := []struct {
		key    string
		target *time.Duration
		def    time.Duration
	}{
		{"DEPOSIT_DELAY", &cfg.Delays.Deposit, defaults.Deposit},
		{"WITHDRAW_DELAY", &cfg.Delays.Withdraw, defaults.Withdraw},
		{"KYC_DELAY", &cfg.Delays.KYC, defaults.KYC},
		{"DEALER_DELAY", &cfg.Delays.Dealer, defaults.Dealer},
		{"SPIN_DELAY", &cfg.Delays.Spin, defaults.Spin},
		{"FLIP_DELAY", &cfg.Delays.Flip, defaults.Flip},
		{"WHEEL_DELAY", &cfg.Delays.Wheel, defaults.Wheel},
		{"ROLL_DELAY", &cfg.Delays.Roll, defaults.Roll},
		{"TURN_DELAY", &cfg.Delays.Turn, defaults.Turn},
		{"STRATEGY_TIMEOUT", &cfg.StrategyTimeout, 2 * time.Second},
		{"TICKER_INTERVAL", &cfg.TickerInterval, 4 * time.Second},
	}
	for _, d := range durations {
		v, err := getDurationWithDefault(d.key, d.def)
		if err != nil {
			return nil, err
		}
		*d.target = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.AppID == "" {
		return fmt.Errorf("APP_ID is required")
	}
	if c.LedgerStore != StoreMemory && c.LedgerStore != StoreSQLite {
		return fmt.Errorf("LEDGER_STORE must be %q or %q, got %q", StoreMemory, StoreSQLite, c.LedgerStore)
	}
	if c.TickerInterval <= 0 {
		return fmt.Errorf("TICKER_INTERVAL must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// CommentaryEnabled reports whether an AI key is configured
func (c *Config) CommentaryEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration cannot be negative", key)
	}
	return d, nil
}
