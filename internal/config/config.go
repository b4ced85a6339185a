// Package config loads application configuration from environment
// variables.  A .env file, when present, is read by main before Load.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env               string // APP_ENV: dev, test or prod
	Port              string // APP_PORT
	DBUser            string // DB_USER
	DBPass            string // DB_PASS, may be empty
	DBHost            string // DB_HOST
	DBPort            string // DB_PORT
	DBName            string // DB_NAME
	DBMigrate         bool   // DB_MIGRATE: run schema migration at startup
	DBSeed            bool   // DB_SEED: insert demo fields and an admin account
	JWTSecret         string // JWT_SECRET
	AccessTTLMin      int    // ACCESS_TOKEN_TTL_MIN
	RefreshTTLDays    int    // REFRESH_TOKEN_TTL_DAYS
	BcryptCost        int    // BCRYPT_COST
	StrictTransitions bool   // BOOKING_STRICT_TRANSITIONS
	RabbitURL         string // RABBITMQ_URL, empty disables events
	LogDir            string // LOG_DIR
	SeedAdminEmail    string // SEED_ADMIN_EMAIL
	SeedAdminPassword string // SEED_ADMIN_PASSWORD
}

// IsProd reports whether the process runs with APP_ENV=prod.
func (c Config) IsProd() bool { return strings.EqualFold(c.Env, "prod") }

// Load reads the configuration.  All missing required variables are
// reported together.
func Load() (Config, error) {
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
		return v
	}
	cfg := Config{
		Env:               envStr("APP_ENV", "dev"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		DBMigrate:         envBool("DB_MIGRATE", true),
		DBSeed:            envBool("DB_SEED", false),
		JWTSecret:         must("JWT_SECRET"),
		AccessTTLMin:      envInt("ACCESS_TOKEN_TTL_MIN", 60),
		RefreshTTLDays:    envInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:        envInt("BCRYPT_COST", 10),
		StrictTransitions: envBool("BOOKING_STRICT_TRANSITIONS", false),
		RabbitURL:         firstEnv("RABBITMQ_URL", "AMQP_URL"),
		LogDir:            envStr("LOG_DIR", "logs"),
		SeedAdminEmail:    envStr("SEED_ADMIN_EMAIL", "admin@lapangan.local"),
		SeedAdminPassword: envStr("SEED_ADMIN_PASSWORD", "admin12345"),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.AccessTTLMin <= 0 || cfg.RefreshTTLDays <= 0 {
		return Config{}, fmt.Errorf("token TTLs must be positive")
	}
	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
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
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}
