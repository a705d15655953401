package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Environment variables from a .env file are optional
	loadDotEnvFile()

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Environment variables override file settings
	v.SetEnvPrefix("CL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// getEnvironment determines the runtime environment
func getEnvironment() string {
	env := os.Getenv("CL_ENVIRONMENT")
	switch env {
	case Production, Test:
		return env
	default:
		return Development
	}
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)     // seconds
	v.SetDefault("server.writeTimeout", 15)    // seconds
	v.SetDefault("server.idleTimeout", 60)     // seconds
	v.SetDefault("server.shutdownTimeout", 10) // seconds

	// Database defaults for non-sensitive settings
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	// Credit policy defaults
	v.SetDefault("credit.enableCredit", true)
	v.SetDefault("credit.enableBetaMonthlyRefill", false)
	v.SetDefault("credit.refillAmount", 500)

	// Lock defaults
	v.SetDefault("lock.backend", "memory")
	v.SetDefault("lock.redisAddr", "localhost:6379")
	v.SetDefault("lock.redisDB", 0)
	v.SetDefault("lock.expirationSeconds", 30)
	v.SetDefault("lock.retryIntervalMs", 50)

	// Payment defaults
	v.SetDefault("payment.productName", "Platform Credits")
}

// processEnvOverrides handles sensitive values that should only come from the
// environment, never from a checked-in config file
func processEnvOverrides(v *viper.Viper) {
	if password := os.Getenv("CL_DATABASE_PASSWORD"); password != "" {
		v.Set("database.password", password)
	}
	if username := os.Getenv("CL_DATABASE_USERNAME"); username != "" {
		v.Set("database.username", username)
	}
	if host := os.Getenv("CL_DATABASE_HOST"); host != "" {
		v.Set("database.host", host)
	}
	if name := os.Getenv("CL_DATABASE_NAME"); name != "" {
		v.Set("database.database", name)
	}
	if apiKey := os.Getenv("CL_PAYMENT_STRIPE_API_KEY"); apiKey != "" {
		v.Set("payment.stripeApiKey", apiKey)
	}
	if redisPassword := os.Getenv("CL_LOCK_REDIS_PASSWORD"); redisPassword != "" {
		v.Set("lock.redisPassword", redisPassword)
	}
}

// processDurations converts raw config numbers into time.Duration values
func processDurations(config *Config) {
	// Seconds
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second
	config.Lock.ExpirationSeconds = time.Duration(config.Lock.ExpirationSeconds) * time.Second

	// Minutes
	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute

	// Milliseconds
	config.Lock.RetryIntervalMs = time.Duration(config.Lock.RetryIntervalMs) * time.Millisecond
}
