package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	StorageBackend string
	MigrationsPath string
	DBQueryTimeout time.Duration

	JWTSecret string
	JWTIssuer string

	RedisURL      string
	LedgerLockTTL time.Duration
	RateLimit     string // ulule formatted rate, e.g. "100-M"

	ReconciliationToleranceMinor int64
	ReconciliationSessionTTL     time.Duration
	ReconciliationMaxSessions    int

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_BACKEND", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("DB_QUERY_TIMEOUT", "5s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LEDGER_LOCK_TTL", "10s")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("RECONCILIATION_TOLERANCE_MINOR", 1)
	v.SetDefault("RECONCILIATION_SESSION_TTL", "2h")
	v.SetDefault("RECONCILIATION_MAX_SESSIONS", 1024)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:                  v.GetString("PGSQL_URL"),
		Port:                         v.GetString("PORT"),
		IsProduction:                 v.GetBool("IS_PRODUCTION"),
		StorageBackend:               strings.ToLower(v.GetString("STORAGE_BACKEND")),
		MigrationsPath:               v.GetString("MIGRATIONS_PATH"),
		JWTSecret:                    v.GetString("JWT_SECRET"),
		JWTIssuer:                    v.GetString("JWT_ISSUER"),
		RedisURL:                     v.GetString("REDIS_URL"),
		RateLimit:                    v.GetString("RATE_LIMIT"),
		ReconciliationToleranceMinor: v.GetInt64("RECONCILIATION_TOLERANCE_MINOR"),
		ReconciliationMaxSessions:    v.GetInt("RECONCILIATION_MAX_SESSIONS"),
	}

	var err error
	if cfg.DBQueryTimeout, err = parseDuration(v, "DB_QUERY_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.LedgerLockTTL, err = parseDuration(v, "LEDGER_LOCK_TTL"); err != nil {
		return nil, err
	}
	if cfg.ReconciliationSessionTTL, err = parseDuration(v, "RECONCILIATION_SESSION_TTL"); err != nil {
		return nil, err
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("PGSQL_URL is required when STORAGE_BACKEND=%s", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_BACKEND=memory, ledger data will not survive a restart.")
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.JWTSecret == "" {
		if c.IsProduction {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if c.ReconciliationToleranceMinor < 1 {
		return fmt.Errorf("RECONCILIATION_TOLERANCE_MINOR must be at least 1, got %d", c.ReconciliationToleranceMinor)
	}
	if c.ReconciliationMaxSessions < 1 {
		return fmt.Errorf("RECONCILIATION_MAX_SESSIONS must be at least 1, got %d", c.ReconciliationMaxSessions)
	}
	return nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid value for %s (%q): must be a positive duration", key, raw)
	}
	return d, nil
}
