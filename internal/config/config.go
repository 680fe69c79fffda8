package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string

	// Telegram configuration
	TelegramBotToken string
	// AdminChatIDs receive every report and drive the admin console.
	AdminChatIDs []int64
	// MaintainerChatID receives fetch/price failure alerts.
	MaintainerChatID int64
	// SubscriberPassword activates ordinary users.
	SubscriberPassword string

	// Polling configuration
	PollInterval time.Duration
	// PacingDelay is the mandatory pause before each external call, kept to
	// respect third-party rate limits.
	PacingDelay time.Duration

	// Explorer endpoints
	BlockchainInfoURL string
	EtherscanURL      string
	EtherscanAPIKey   string
	ToncenterURL      string
	TronscanURL       string
	CoingeckoURL      string
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:      getEnvAsBool("DEVELOPMENT", false),
		APIPort:          getEnvAsInt("API_PORT", 6580),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "custos"),

		TelegramBotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		AdminChatIDs:       getEnvAsInt64List("ADMIN_CHAT_IDS", nil),
		MaintainerChatID:   getEnvAsInt64("MAINTAINER_CHAT_ID", 0),
		SubscriberPassword: getEnv("SUBSCRIBER_PASSWORD", ""),

		PollInterval: getEnvAsDuration("POLL_INTERVAL", 5*time.Minute),
		PacingDelay:  getEnvAsDuration("PACING_DELAY", 10*time.Second),

		BlockchainInfoURL: getEnv("BLOCKCHAIN_INFO_URL", "https://blockchain.info"),
		EtherscanURL:      getEnv("ETHERSCAN_URL", "https://api.etherscan.io"),
		EtherscanAPIKey:   getEnv("ETHERSCAN_API_KEY", ""),
		ToncenterURL:      getEnv("TONCENTER_URL", "https://toncenter.com"),
		TronscanURL:       getEnv("TRONSCAN_URL", "https://apilist.tronscanapi.com"),
		CoingeckoURL:      getEnv("COINGECKO_URL", "https://api.coingecko.com"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if len(c.AdminChatIDs) == 0 {
		return fmt.Errorf("ADMIN_CHAT_IDS is required")
	}

	if c.SubscriberPassword == "" {
		return fmt.Errorf("SUBSCRIBER_PASSWORD is required")
	}

	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}

	if c.PacingDelay < 0 {
		return fmt.Errorf("PACING_DELAY must not be negative")
	}

	// Alerts fall back to the first administrator when no maintainer is set.
	if c.MaintainerChatID == 0 {
		c.MaintainerChatID = c.AdminChatIDs[0]
	}

	return nil
}

// IsAdmin reports whether the chat ID belongs to an administrator.
func (c *Config) IsAdmin(chatID int64) bool {
	for _, id := range c.AdminChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsInt64(name string, defaultValue int64) int64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsInt64List(name string, defaultValue []int64) []int64 {
	valueStr, exists := os.LookupEnv(name)
	if !exists {
		return defaultValue
	}
	var values []int64
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return defaultValue
		}
		values = append(values, value)
	}
	return values
}
