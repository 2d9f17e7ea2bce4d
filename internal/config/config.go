package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Telegram
	BotToken string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Security
	InviteSecret string

	// Application
	AppEnv   string
	LogLevel string

	// Rate Limiting
	RateLimitPerUser int

	// Listing
	PageSize int

	// Flow policy
	MaxRedeemAttempts int
	InviteCodeLength  int
	InviteTTLHours    int

	// Payment review
	AdminTelegramID int64

	// Feed formulas: accepted deviation of proportion sum from 100.
	ProportionTolerance float64
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "farmbot"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "farmbot_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		InviteSecret: getEnv("INVITE_SECRET_KEY", ""),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 20),

		PageSize: getEnvInt("LIST_PAGE_SIZE", 10),

		MaxRedeemAttempts: getEnvInt("MAX_REDEEM_ATTEMPTS", 3),
		InviteCodeLength:  getEnvInt("INVITE_CODE_LENGTH", 8),
		InviteTTLHours:    getEnvInt("INVITE_TTL_HOURS", 72),

		AdminTelegramID: int64(getEnvInt("ADMIN_TELEGRAM_ID", 0)),

		ProportionTolerance: getEnvFloat("PROPORTION_TOLERANCE", 1.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.InviteSecret == "" {
		return fmt.Errorf("INVITE_SECRET_KEY is required")
	}
	if len(c.InviteSecret) < 32 {
		return fmt.Errorf("INVITE_SECRET_KEY must be at least 32 characters")
	}
	if c.PageSize < 1 || c.PageSize > 50 {
		return fmt.Errorf("LIST_PAGE_SIZE must be between 1 and 50")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.InviteSecret == "change_this_invite_secret_before_deploying!" {
		return fmt.Errorf("INVITE_SECRET_KEY must be changed from default in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
