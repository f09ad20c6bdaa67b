package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerPort      string        `envconfig:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"reservation_db"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	UserTokenTTL  time.Duration `envconfig:"USER_TOKEN_TTL" default:"168h"`
	AdminTokenTTL time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"24h"`
	AdminEmail    string        `envconfig:"ADMIN_EMAIL" default:"admin@booking.com"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:"admin123"`

	// Bookings carry no zone; date+time are combined in this location.
	BookingTimezone string `envconfig:"BOOKING_TIMEZONE" default:"Local"`

	RabbitURL          string        `envconfig:"RABBIT_URL"`
	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	OutboxMaxAttempts  int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"10"`

	AuthRateRPS   float64 `envconfig:"AUTH_RATE_RPS" default:"1"`
	AuthRateBurst int     `envconfig:"AUTH_RATE_BURST" default:"5"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	location *time.Location
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("SERVER_PORT must be between 1 and 65535, got: %s", c.ServerPort))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		problems = append(problems, "JWT_SECRET cannot be empty")
	}
	if c.UserTokenTTL <= 0 {
		problems = append(problems, fmt.Sprintf("USER_TOKEN_TTL must be positive, got: %s", c.UserTokenTTL))
	}
	if c.AdminTokenTTL <= 0 {
		problems = append(problems, fmt.Sprintf("ADMIN_TOKEN_TTL must be positive, got: %s", c.AdminTokenTTL))
	}
	if c.AdminEmail == "" || c.AdminPassword == "" {
		problems = append(problems, "ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if c.OutboxPollInterval <= 0 {
		problems = append(problems, fmt.Sprintf("OUTBOX_POLL_INTERVAL must be positive, got: %s", c.OutboxPollInterval))
	}
	if c.OutboxBatchSize <= 0 {
		problems = append(problems, fmt.Sprintf("OUTBOX_BATCH_SIZE must be positive, got: %d", c.OutboxBatchSize))
	}
	if c.OutboxMaxAttempts <= 0 {
		problems = append(problems, fmt.Sprintf("OUTBOX_MAX_ATTEMPTS must be positive, got: %d", c.OutboxMaxAttempts))
	}
	if c.AuthRateRPS <= 0 || c.AuthRateBurst <= 0 {
		problems = append(problems, "AUTH_RATE_RPS and AUTH_RATE_BURST must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("SHUTDOWN_TIMEOUT must be positive, got: %s", c.ShutdownTimeout))
	}

	loc, err := time.LoadLocation(c.BookingTimezone)
	if err != nil {
		problems = append(problems, fmt.Sprintf("BOOKING_TIMEZONE is not a known location: %s", c.BookingTimezone))
	} else {
		c.location = loc
	}

	if len(problems) > 0 {
		msg := "configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Location returns the booking time zone resolved by Validate.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func (c *Config) MessagingEnabled() bool {
	return c.RabbitURL != ""
}
