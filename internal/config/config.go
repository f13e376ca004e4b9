package config // package config loads application configuration from environment variables

import (
	"fmt"     // fmt formats the aggregated configuration error
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings joins the collected error messages
	"time"    // time parses durations such as DB_CONN_MAX_LIFETIME
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  DatabaseURL and SecretKey are mandatory; every
// other value has a default suitable for local development.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	LogLevel    string // slog level name: debug, info, warn, error
	DatabaseURL string // postgres://... or mysql://... connection string
	SecretKey   string // secret used to sign session tokens
	BcryptCost  int    // bcrypt cost for password hashing
	// CookieSecure adds the Secure attribute to the session cookie.
	CookieSecure bool
	RabbitMQURL  string // empty disables domain events

	DB DBConfig
}

// DBConfig describes the bounded connection pool and migration behaviour.
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing required variables and unparsable values are collected
// and reported together so that a misconfigured deployment fails once, at
// startup, with the complete list.
func Load() (Config, error) {
	var errs []string

	cfg := Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "8080"),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		DatabaseURL:  required("DATABASE_URL", &errs),
		SecretKey:    required("SECRET_KEY", &errs),
		BcryptCost:   intVar("BCRYPT_COST", 10, &errs),
		CookieSecure: envBool("COOKIE_SECURE", false),
		RabbitMQURL:  os.Getenv("RABBITMQ_URL"),
		DB: DBConfig{
			MaxOpenConns:    intVar("DB_MAX_OPEN_CONNS", 25, &errs),
			MaxIdleConns:    intVar("DB_MAX_IDLE_CONNS", 25, &errs),
			ConnMaxLifetime: durationVar("DB_CONN_MAX_LIFETIME", 30*time.Minute, &errs),
			AutoMigrate:     envBool("DB_AUTO_MIGRATE", true),
		},
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		errs = append(errs, fmt.Sprintf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost))
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}
	return cfg, nil
}

// required retrieves the value of a required environment variable.  If the
// variable is unset or empty, a message is appended to errs.
func required(key string, errs *[]string) string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		*errs = append(*errs, "missing required env var: "+key)
		return ""
	}
	return v
}

// intVar is like envInt but reports malformed values instead of falling back.
func intVar(key string, def int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid int for %s: %q", key, v))
		return def
	}
	return n
}

func durationVar(key string, def time.Duration, errs *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid duration for %s: %q", key, v))
		return def
	}
	return d
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
