package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/timesheet"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Summary  SummaryConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// SummaryConfig holds the policy knobs of the summary subsystem.
type SummaryConfig struct {
	// DefaultTaxPercentage applies when generation requests omit one.
	DefaultTaxPercentage decimal.Decimal
	// CountableStatuses decides which timesheet approval statuses contribute
	// to summary totals. Deliberately explicit: the legacy system disagreed
	// with itself between backends.
	CountableStatuses []timesheet.Status
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "sitecrew"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	taxStr := getEnv("TAX_DEFAULT_PERCENTAGE", "0")
	tax, err := decimal.NewFromString(taxStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_DEFAULT_PERCENTAGE: %w", err)
	}

	statuses, err := parseCountableStatuses(getEnv("COUNTABLE_TIMESHEET_STATUSES", "Approved"))
	if err != nil {
		return nil, err
	}

	config.Summary = SummaryConfig{
		DefaultTaxPercentage: tax,
		CountableStatuses:    statuses,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Summary.DefaultTaxPercentage.IsNegative() || c.Summary.DefaultTaxPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("TAX_DEFAULT_PERCENTAGE must be between 0 and 100")
	}
	if len(c.Summary.CountableStatuses) == 0 {
		return fmt.Errorf("COUNTABLE_TIMESHEET_STATUSES is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func parseCountableStatuses(raw string) ([]timesheet.Status, error) {
	var statuses []timesheet.Status
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		status, ok := timesheet.ParseStatus(part)
		if !ok {
			return nil, fmt.Errorf("invalid COUNTABLE_TIMESHEET_STATUSES entry: %q", part)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
