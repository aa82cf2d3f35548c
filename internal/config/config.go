package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Secrets (from .env)
	APIKey          string
	CORSAllowOrigin string
	WebhookURL      string
	AppName         string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// API
	APIPort int

	// Trade copying
	CopyTrialSubscriptions bool

	// Performance stats
	StatsSchedulerEnabled bool
	StatsRefreshMinutes   int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Secrets
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),
		WebhookURL:      envStr("WEBHOOK_URL", ""),
		AppName:         envStr("APP_NAME", "MirrorTrade"),

		// Database
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "mirrortrade"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		// API
		APIPort: envInt("API_PORT", 3001),

		// Trade copying
		CopyTrialSubscriptions: envBool("COPY_TRIAL_SUBSCRIPTIONS", false),

		// Performance stats
		StatsSchedulerEnabled: envBool("STATS_SCHEDULER_ENABLED", true),
		StatsRefreshMinutes:   envInt("STATS_REFRESH_MINUTES", 60),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Sprintf("API_PORT %d is out of range", c.APIPort))
	}
	if c.StatsRefreshMinutes <= 0 {
		errs = append(errs, "STATS_REFRESH_MINUTES must be positive")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}
	if c.WebhookURL == "" {
		fmt.Println("[WARN] WEBHOOK_URL not set — trade notifications disabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Printf("=== %s Configuration ===\n", c.AppName)
	fmt.Printf("API Port: %d\n", c.APIPort)
	fmt.Printf("Authentication: %s\n", boolLabel(c.APIKey != "", "enabled", "disabled"))
	fmt.Printf("CORS Origin: %s\n", c.CORSAllowOrigin)
	fmt.Println("--------------------------------------")
	fmt.Printf("Database: %s@%s:%d/%s\n", c.DBUser, c.DBHost, c.DBPort, c.DBName)
	fmt.Println("--------------------------------------")
	fmt.Println("Trade Copying:")
	fmt.Printf("  Copy trial subscriptions: %v\n", c.CopyTrialSubscriptions)
	fmt.Println("Performance Stats:")
	fmt.Printf("  Scheduler: %s\n", boolLabel(c.StatsSchedulerEnabled, "enabled", "disabled"))
	fmt.Printf("  Refresh: every %d minutes\n", c.StatsRefreshMinutes)
	fmt.Printf("Notifications: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("======================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
