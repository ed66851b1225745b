package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Plaid credentials and environment (sandbox or production).
	PlaidClientID string
	PlaidSecret   string
	PlaidEnv      string

	// SyncInterval is how often the background scheduler re-syncs every
	// synced account. Zero disables the scheduler.
	SyncInterval time.Duration

	// SubscriptionPatternsPath optionally points at a YAML file of curated
	// recurring-charge patterns.
	SubscriptionPatternsPath string

	// RateLimit is a limiter format string like "100-M" (100 requests/minute).
	RateLimit string

	// PosthogAPIKey enables product analytics when set.
	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "finch")
	viper.SetDefault("PLAID_CLIENT_ID", "")
	viper.SetDefault("PLAID_SECRET", "")
	viper.SetDefault("PLAID_ENV", "sandbox")
	viper.SetDefault("SYNC_INTERVAL", "6h")
	viper.SetDefault("SUBSCRIPTION_PATTERNS_PATH", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 24 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.PlaidClientID = viper.GetString("PLAID_CLIENT_ID")
	cfg.PlaidSecret = viper.GetString("PLAID_SECRET")
	cfg.PlaidEnv = viper.GetString("PLAID_ENV")
	if cfg.PlaidClientID == "" || cfg.PlaidSecret == "" {
		log.Println("Warning: PLAID_CLIENT_ID / PLAID_SECRET not set. Institution linking will not function.")
	}

	syncIntervalStr := viper.GetString("SYNC_INTERVAL")
	syncInterval, err := time.ParseDuration(syncIntervalStr)
	if err != nil {
		syncInterval = 6 * time.Hour
		log.Printf("Warning: Invalid value for SYNC_INTERVAL ('%s'). Defaulting to %s.\n", syncIntervalStr, syncInterval.String())
	}
	cfg.SyncInterval = syncInterval

	cfg.SubscriptionPatternsPath = viper.GetString("SUBSCRIPTION_PATTERNS_PATH")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
