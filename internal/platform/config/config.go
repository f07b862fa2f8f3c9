package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RateLimitPeriod   time.Duration
	RateLimitRequests int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("AUTH_TOKEN_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("AUTH_TOKEN_EXPIRY_DURATION", "1h")
	viper.SetDefault("AUTH_TOKEN_ISSUER", "bookkeeping-app")
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 300)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("AUTH_TOKEN_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: AUTH_TOKEN_SECRET not set. Using default insecure key.")
	}

	expiryStr := viper.GetString("AUTH_TOKEN_EXPIRY_DURATION")
	expiry, err := time.ParseDuration(expiryStr)
	if err != nil {
		expiry = time.Hour
		log.Printf("Warning: Invalid value for AUTH_TOKEN_EXPIRY_DURATION (%q). Defaulting to %s.\n", expiryStr, expiry)
	}
	cfg.JWTExpiryDuration = expiry
	cfg.JWTIssuer = viper.GetString("AUTH_TOKEN_ISSUER")

	periodStr := viper.GetString("RATE_LIMIT_PERIOD")
	period, err := time.ParseDuration(periodStr)
	if err != nil {
		period = time.Minute
		log.Printf("Warning: Invalid value for RATE_LIMIT_PERIOD (%q). Defaulting to %s.\n", periodStr, period)
	}
	cfg.RateLimitPeriod = period
	cfg.RateLimitRequests = viper.GetInt64("RATE_LIMIT_REQUESTS")

	return cfg, nil
}
