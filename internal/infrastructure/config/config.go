package config

import (
	"time"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
)

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Credit      CreditConfig   `mapstructure:"credit"`
	Lock        LockConfig     `mapstructure:"lock"`
	Payment     PaymentConfig  `mapstructure:"payment"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`     // seconds
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`    // seconds
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"`     // seconds
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"` // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CreditConfig selects the ledger policy and holds the block cost schedule.
//
// EnableCredit=false turns the ledger off entirely (every operation becomes a
// no-op). EnableBetaMonthlyRefill=true grants RefillAmount credits on the
// first balance check of each month.
type CreditConfig struct {
	EnableCredit            bool                `mapstructure:"enableCredit"`
	EnableBetaMonthlyRefill bool                `mapstructure:"enableBetaMonthlyRefill"`
	RefillAmount            int64               `mapstructure:"refillAmount"`
	Costs                   entity.CostSchedule `mapstructure:"costs"`
}

// LockConfig selects the per-user lock backend: "memory" for a single-process
// deployment, "redis" when several processes share one ledger database.
type LockConfig struct {
	Backend           string        `mapstructure:"backend"`
	RedisAddr         string        `mapstructure:"redisAddr"`
	RedisPassword     string        `mapstructure:"redisPassword"`
	RedisDB           int           `mapstructure:"redisDB"`
	ExpirationSeconds time.Duration `mapstructure:"expirationSeconds"`
	RetryIntervalMs   time.Duration `mapstructure:"retryIntervalMs"`
}

// PaymentConfig contains payment gateway settings
type PaymentConfig struct {
	StripeAPIKey string `mapstructure:"stripeApiKey"`
	ProductName  string `mapstructure:"productName"`
	SuccessURL   string `mapstructure:"successUrl"`
	CancelURL    string `mapstructure:"cancelUrl"`
}
