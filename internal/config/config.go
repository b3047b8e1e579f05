package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	defaultAppEnv       = "dev"
	defaultPort         = "5000"
	defaultDatabaseURL  = "reservations.db"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTTTL       = "720h"
	defaultBcryptCost   = 10
	defaultLogLevel     = "info"
	defaultLockTTL      = "5s"
	defaultEventsQueue  = "reservation.events"
	defaultAuditLogPath = "logs/reservations.log"
	defaultSeedEmail    = "admin@church.local"
	defaultSeedName     = "Administrator"
	defaultSeedPassword = "admin123"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	LogLevel    string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	Redis   RedisConfig
	LockTTL time.Duration

	RabbitMQURL  string
	EventsQueue  string
	AuditLogPath string

	CORSAllowedOrigins    []string
	ReservationsAdminOnly bool

	Seed SeedConfig
}

// SeedConfig is the admin account cmd/seed creates.
type SeedConfig struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file, using process environment")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", defaultAppEnv)
	v.SetDefault("APP_PORT", defaultPort)
	v.SetDefault("DATABASE_URL", defaultDatabaseURL)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", defaultJWTTTL)
	v.SetDefault("BCRYPT_COST", defaultBcryptCost)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOCK_TTL", defaultLockTTL)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_QUEUE", defaultEventsQueue)
	v.SetDefault("AUDIT_LOG_PATH", defaultAuditLogPath)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("RESERVATIONS_ADMIN_ONLY", true)
	v.SetDefault("SEED_ADMIN_EMAIL", defaultSeedEmail)
	v.SetDefault("SEED_ADMIN_NAME", defaultSeedName)
	v.SetDefault("SEED_ADMIN_PASSWORD", defaultSeedPassword)
	return v
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:      strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		Port:        strings.TrimSpace(v.GetString("APP_PORT")),
		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		LogLevel:    strings.TrimSpace(v.GetString("LOG_LEVEL")),
		JWTSecret:   strings.TrimSpace(v.GetString("JWT_SECRET")),
		BcryptCost:  v.GetInt("BCRYPT_COST"),
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RabbitMQURL:           strings.TrimSpace(v.GetString("RABBITMQ_URL")),
		EventsQueue:           strings.TrimSpace(v.GetString("EVENTS_QUEUE")),
		AuditLogPath:          strings.TrimSpace(v.GetString("AUDIT_LOG_PATH")),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		ReservationsAdminOnly: v.GetBool("RESERVATIONS_ADMIN_ONLY"),
		Seed: SeedConfig{
			AdminEmail:    strings.ToLower(strings.TrimSpace(v.GetString("SEED_ADMIN_EMAIL"))),
			AdminName:     strings.TrimSpace(v.GetString("SEED_ADMIN_NAME")),
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		},
	}

	var err error
	if cfg.JWTTTL, err = parseDuration(v, "JWT_TTL"); err != nil {
		return nil, err
	}
	if cfg.LockTTL, err = parseDuration(v, "LOCK_TTL"); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("APP_PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be > 0")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if cfg.EventsQueue == "" {
		return fmt.Errorf("EVENTS_QUEUE must not be empty")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	if IsProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDuration(v *viper.Viper, name string) (time.Duration, error) {
	value := strings.TrimSpace(v.GetString(name))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
