package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultPort                    = "8080"
	defaultDatabaseURL             = "file:hoaxify.db"
	defaultUploadDir               = "upload"
	defaultJWTSecret               = "change-me-jwt-secret"
	defaultTokenTTL                = "168h"
	defaultAttachmentRetention     = "24h"
	defaultAttachmentSweepInterval = "1h"
	defaultTokenSweepInterval      = "1h"
	defaultSweepCallTimeout        = "10s"
	defaultReservationLease        = "10m"
	defaultSweepEnabled            = "true"
	defaultCORSOrigins             = "http://localhost:3000,http://localhost:5173"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	UploadDir   string
	CORSOrigins []string

	// InternalToken guards the operator endpoints; empty disables them.
	InternalToken      string
	InternalAllowedIPs []string

	JWTSecret string
	// TokenTTL is how long a login token stays valid after its last use.
	TokenTTL time.Duration

	Sweep SweepConfig
}

type SweepConfig struct {
	Enabled                 bool
	AttachmentRetention     time.Duration
	AttachmentSweepInterval time.Duration
	TokenSweepInterval      time.Duration
	// CallTimeout bounds every store and blob call made by a sweep.
	CallTimeout time.Duration
	// ReservationLease is how long a sweep's hold on an attachment blocks claims.
	ReservationLease time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.UploadDir = strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.CORSOrigins = strings.Split(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins), ",")
	cfg.InternalToken = strings.TrimSpace(os.Getenv("INTERNAL_TOKEN"))
	cfg.InternalAllowedIPs = splitList(os.Getenv("INTERNAL_ALLOWED_IPS"))

	var err error
	cfg.TokenTTL, err = parseDurationEnv("TOKEN_TTL", defaultTokenTTL)
	if err != nil {
		return nil, err
	}

	cfg.Sweep.Enabled = parseBoolEnv("SWEEP_ENABLED", defaultSweepEnabled)
	durations := []struct {
		name, fallback string
		dst            *time.Duration
	}{
		{"ATTACHMENT_RETENTION", defaultAttachmentRetention, &cfg.Sweep.AttachmentRetention},
		{"ATTACHMENT_SWEEP_INTERVAL", defaultAttachmentSweepInterval, &cfg.Sweep.AttachmentSweepInterval},
		{"TOKEN_SWEEP_INTERVAL", defaultTokenSweepInterval, &cfg.Sweep.TokenSweepInterval},
		{"SWEEP_CALL_TIMEOUT", defaultSweepCallTimeout, &cfg.Sweep.CallTimeout},
		{"ATTACHMENT_RESERVATION_LEASE", defaultReservationLease, &cfg.Sweep.ReservationLease},
	}
	for _, d := range durations {
		if *d.dst, err = parseDurationEnv(d.name, d.fallback); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf(
		"sweep config: enabled=%t retention=%s attachment_interval=%s token_interval=%s call_timeout=%s lease=%s",
		cfg.Sweep.Enabled, cfg.Sweep.AttachmentRetention, cfg.Sweep.AttachmentSweepInterval,
		cfg.Sweep.TokenSweepInterval, cfg.Sweep.CallTimeout, cfg.Sweep.ReservationLease,
	)

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if cfg.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be > 0")
	}
	if cfg.Sweep.AttachmentRetention <= 0 {
		return fmt.Errorf("ATTACHMENT_RETENTION must be > 0")
	}
	if cfg.Sweep.AttachmentSweepInterval <= 0 {
		return fmt.Errorf("ATTACHMENT_SWEEP_INTERVAL must be > 0")
	}
	if cfg.Sweep.TokenSweepInterval <= 0 {
		return fmt.Errorf("TOKEN_SWEEP_INTERVAL must be > 0")
	}
	if cfg.Sweep.CallTimeout <= 0 {
		return fmt.Errorf("SWEEP_CALL_TIMEOUT must be > 0")
	}
	// A sweep holds a reservation across a reserve, a blob delete and a row delete.
	if cfg.Sweep.ReservationLease < 3*cfg.Sweep.CallTimeout {
		return fmt.Errorf("ATTACHMENT_RESERVATION_LEASE must be at least 3x SWEEP_CALL_TIMEOUT")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
