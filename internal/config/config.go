package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kevin07696/billing-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gateway  GatewayConfig
	Charge   ChargeConfig
	Logger   LoggerConfig
}

// ServerConfig holds the cron/metrics HTTP server configuration
type ServerConfig struct {
	Port        int
	Host        string
	MetricsPort int
	CronSecret  string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// GatewayConfig holds the card gateway configuration
type GatewayConfig struct {
	BaseURL       string
	APIKeySecret  string // secret name resolved through the SecretManager
	Timeout       time.Duration
	DefaultCode   string // gateway code charged when a token carries none
}

// ChargeConfig holds the recurrent charge engine configuration
type ChargeConfig struct {
	// RetrySchedule is the ordered list of retry delays driving the
	// retry policy; must contain at least one entry
	RetrySchedule []time.Duration
	// GatewayFailDelay is the fixed reschedule delay after a transport
	// failure at the gateway boundary
	GatewayFailDelay time.Duration
	// DonationVATRate is required whenever a chain carries a donation
	// amount; nil means not configured
	DonationVATRate *decimal.Decimal
	// DonationItemName labels carried-over donation line items
	DonationItemName string
	BatchSize        int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables.
// Charge schedule settings are validated here: a missing or malformed retry
// schedule or gateway-fail delay makes every amount/schedule computation
// unsafe, so loading fails with a configuration error.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort: getEnvAsInt("METRICS_PORT", 9090),
			CronSecret:  getEnv("CRON_SECRET", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "billing_service"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Gateway: GatewayConfig{
			BaseURL:      getEnv("GATEWAY_BASE_URL", ""),
			APIKeySecret: getEnv("GATEWAY_API_KEY_SECRET", "GATEWAY_API_KEY"),
			Timeout:      time.Duration(getEnvAsInt("GATEWAY_TIMEOUT_SECONDS", 30)) * time.Second,
			DefaultCode:  getEnv("GATEWAY_DEFAULT_CODE", "cardpay"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	charge, err := loadChargeConfig()
	if err != nil {
		return nil, err
	}
	cfg.Charge = *charge

	return cfg, nil
}

func loadChargeConfig() (*ChargeConfig, error) {
	rawSchedule := os.Getenv("RECURRENT_PAYMENT_CHARGES")
	if rawSchedule == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeConfigMissing,
			"RECURRENT_PAYMENT_CHARGES is not set")
	}
	schedule, err := ParseRetrySchedule(rawSchedule)
	if err != nil {
		return nil, err
	}

	rawFailDelay := os.Getenv("RECURRENT_PAYMENT_GATEWAY_FAIL_DELAY")
	if rawFailDelay == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeConfigMissing,
			"RECURRENT_PAYMENT_GATEWAY_FAIL_DELAY is not set")
	}
	failDelay, err := ParseDelay(rawFailDelay)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeConfigMalformed,
			"RECURRENT_PAYMENT_GATEWAY_FAIL_DELAY is not a valid delay", err)
	}

	cfg := &ChargeConfig{
		RetrySchedule:    schedule,
		GatewayFailDelay: failDelay,
		DonationItemName: getEnv("DONATION_ITEM_NAME", "Donation"),
		BatchSize:        getEnvAsInt("CHARGE_BATCH_SIZE", 1000),
	}

	if raw := os.Getenv("DONATION_VAT_RATE"); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, domain.WrapError(domain.ErrorCodeConfigMalformed,
				"DONATION_VAT_RATE is not numeric", err)
		}
		cfg.DonationVATRate = &rate
	}

	return cfg, nil
}

// ParseRetrySchedule parses the comma-separated retry delay list.
// Each entry is a delay specifier accepted by ParseDelay.
func ParseRetrySchedule(raw string) ([]time.Duration, error) {
	parts := strings.Split(raw, ",")
	schedule := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := ParseDelay(part)
		if err != nil {
			return nil, domain.WrapError(domain.ErrorCodeConfigMalformed,
				fmt.Sprintf("invalid retry schedule entry %q", part), err)
		}
		schedule = append(schedule, d)
	}
	if len(schedule) == 0 {
		return nil, domain.NewDomainError(domain.ErrorCodeConfigMalformed,
			"retry schedule must contain at least one delay")
	}
	return schedule, nil
}

// ParseDelay parses a delay specifier. Accepts Go duration syntax plus a day
// suffix ("1d", "3d") since retry schedules are configured in days.
func ParseDelay(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid day delay %q", raw)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("delay must be positive, got %q", raw)
	}
	return d, nil
}

// ConnectionString returns the PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
