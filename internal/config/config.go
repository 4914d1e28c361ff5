// Package config centraliza o carregamento de configurações da aplicação.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	LoginBackendMemory = "memory"
	LoginBackendShared = "shared"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Storage     StorageConfig
	Hashing     HashingConfig
	Tokens      TokensConfig
	Quota       QuotaConfig
	LoginLimit  LoginLimitConfig
	PublicLimit PublicLimitConfig
	Intel       IntelConfig
	Admin       AdminConfig
}

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	SQLitePath string
	Redis      RedisConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type HashingConfig struct {
	Salt string
}

type TokensConfig struct {
	CSRFSecret      string
	CSRFTTL         time.Duration
	SessionSecret   string
	SessionLifetime time.Duration
}

type QuotaConfig struct {
	MaxPerDay     int
	MaxPerCompany int
}

type LoginLimitConfig struct {
	Backend      string
	MaxAttempts  int
	Window       time.Duration
	LockDuration time.Duration
}

type PublicLimitConfig struct {
	Requests        int
	Window          time.Duration
	StoreMaxEntries int
}

type IntelConfig struct {
	KAnonymityThreshold int
}

type AdminConfig struct {
	Password string
}

func (c Config) Production() bool {
	return c.Environment == EnvProduction
}

func Load() (Config, error) {
	_ = godotenv.Load()

	environment := getEnv("APP_ENV", EnvDevelopment)
	if environment != EnvProduction && environment != EnvDevelopment {
		return Config{}, fmt.Errorf("invalid APP_ENV: %s", environment)
	}

	storage, err := buildStorageConfig()
	if err != nil {
		return Config{}, err
	}

	tokens, err := buildTokensConfig()
	if err != nil {
		return Config{}, err
	}

	quota, err := buildQuotaConfig()
	if err != nil {
		return Config{}, err
	}

	loginLimit, err := buildLoginLimitConfig()
	if err != nil {
		return Config{}, err
	}

	publicLimit, err := buildPublicLimitConfig()
	if err != nil {
		return Config{}, err
	}

	threshold, err := getEnvInt("K_ANONYMITY_THRESHOLD", 5)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment: environment,
		Server:      ServerConfig{Port: getEnv("SERVER_PORT", "8080")},
		Storage:     storage,
		Hashing:     HashingConfig{Salt: os.Getenv("IP_HASH_SALT")},
		Tokens:      tokens,
		Quota:       quota,
		LoginLimit:  loginLimit,
		PublicLimit: publicLimit,
		Intel:       IntelConfig{KAnonymityThreshold: threshold},
		Admin:       AdminConfig{Password: os.Getenv("ADMIN_PASSWORD")},
	}

	if cfg.Production() && strings.TrimSpace(cfg.Admin.Password) == "" {
		return Config{}, fmt.Errorf("ADMIN_PASSWORD is required in production")
	}

	return cfg, nil
}

func buildStorageConfig() (StorageConfig, error) {
	port, err := getEnvInt("REDIS_PORT", 6379)
	if err != nil {
		return StorageConfig{}, err
	}
	db, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return StorageConfig{}, err
	}

	return StorageConfig{
		SQLitePath: getEnv("SQLITE_PATH", "do-not-ghost-me.db"),
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     port,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       db,
		},
	}, nil
}

func buildTokensConfig() (TokensConfig, error) {
	csrfTTLMinutes, err := getEnvInt("CSRF_TTL_MINUTES", 60)
	if err != nil {
		return TokensConfig{}, err
	}
	sessionMinutes, err := getEnvInt("SESSION_LIFETIME_MINUTES", 720)
	if err != nil {
		return TokensConfig{}, err
	}

	return TokensConfig{
		CSRFSecret:      os.Getenv("CSRF_SECRET"),
		CSRFTTL:         time.Duration(csrfTTLMinutes) * time.Minute,
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionLifetime: time.Duration(sessionMinutes) * time.Minute,
	}, nil
}

func buildQuotaConfig() (QuotaConfig, error) {
	maxPerDay, err := getEnvInt("MAX_REPORTS_PER_DAY", 10)
	if err != nil {
		return QuotaConfig{}, err
	}
	maxPerCompany, err := getEnvInt("MAX_REPORTS_PER_COMPANY", 3)
	if err != nil {
		return QuotaConfig{}, err
	}
	return QuotaConfig{MaxPerDay: maxPerDay, MaxPerCompany: maxPerCompany}, nil
}

func buildLoginLimitConfig() (LoginLimitConfig, error) {
	backend := getEnv("LOGIN_LIMITER_BACKEND", LoginBackendMemory)
	if backend != LoginBackendMemory && backend != LoginBackendShared {
		return LoginLimitConfig{}, fmt.Errorf("invalid LOGIN_LIMITER_BACKEND: %s", backend)
	}

	maxAttempts, err := getEnvInt("LOGIN_MAX_ATTEMPTS", 5)
	if err != nil {
		return LoginLimitConfig{}, err
	}
	windowMinutes, err := getEnvInt("LOGIN_WINDOW_MINUTES", 5)
	if err != nil {
		return LoginLimitConfig{}, err
	}
	lockMinutes, err := getEnvInt("LOGIN_LOCK_MINUTES", 15)
	if err != nil {
		return LoginLimitConfig{}, err
	}

	return LoginLimitConfig{
		Backend:      backend,
		MaxAttempts:  maxAttempts,
		Window:       time.Duration(windowMinutes) * time.Minute,
		LockDuration: time.Duration(lockMinutes) * time.Minute,
	}, nil
}

func buildPublicLimitConfig() (PublicLimitConfig, error) {
	requests, err := getEnvInt("PUBLIC_RATE_LIMIT_REQUESTS", 30)
	if err != nil {
		return PublicLimitConfig{}, err
	}
	windowSeconds, err := getEnvInt("PUBLIC_RATE_LIMIT_WINDOW_SECONDS", 60)
	if err != nil {
		return PublicLimitConfig{}, err
	}
	maxEntries, err := getEnvInt("RATE_LIMIT_STORE_MAX_ENTRIES", 10000)
	if err != nil {
		return PublicLimitConfig{}, err
	}

	return PublicLimitConfig{
		Requests:        requests,
		Window:          time.Duration(windowSeconds) * time.Second,
		StoreMaxEntries: maxEntries,
	}, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
