package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/spec-kit/bookstore-service/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	FrontendURL           string
	RequestTimeoutSeconds int
	// ProxyHeader names the header carrying the client IP when running behind
	// a reverse proxy. Empty means the socket address is used.
	ProxyHeader    string
	TrustedProxies []string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	GoogleClientID string
	GoogleJWKSURL  string
	HashSecretKey  string
	HashAlgorithm  string
	AdminRole      string
	UserRole       string
}

// RateLimitConfig bounds login attempts per client.
type RateLimitConfig struct {
	LoginLimit         int
	LoginWindowSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "bookstore-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:3000"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			ProxyHeader:           os.Getenv("HTTP_PROXY_HEADER"),
			TrustedProxies:        getEnvAsList("HTTP_TRUSTED_PROXIES"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleJWKSURL:  getEnv("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),
			HashSecretKey:  os.Getenv("HASH_SECRET_KEY"),
			HashAlgorithm:  getEnv("HASH_ALGORITHM", "HS256"),
			AdminRole:      getEnv("ADMIN_ROLE", "admin"),
			UserRole:       getEnv("USER_ROLE", "user"),
		},
		RateLimit: RateLimitConfig{
			LoginLimit:         getEnvAsInt("LOGIN_RATE_LIMIT", 20),
			LoginWindowSeconds: getEnvAsInt("LOGIN_RATE_WINDOW_SECONDS", 60),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the auth pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.GoogleClientID) == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID is required"))
	}
	if c.Auth.HashSecretKey == "" {
		errs = append(errs, errors.New("HASH_SECRET_KEY is required"))
	}
	if _, ok := jwt.GetSigningMethod(c.Auth.HashAlgorithm).(*jwt.SigningMethodHMAC); !ok {
		errs = append(errs, fmt.Errorf("HASH_ALGORITHM %q is not an HMAC algorithm", c.Auth.HashAlgorithm))
	}
	if err := c.Auth.RoleNames().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ADMIN_ROLE/USER_ROLE: %w", err))
	}
	return errors.Join(errs...)
}

// RoleNames returns the configured string form of each role.
func (a AuthConfig) RoleNames() domain.RoleNames {
	return domain.RoleNames{Admin: a.AdminRole, User: a.UserRole}
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// LoginWindow returns the login throttling window.
func (r RateLimitConfig) LoginWindow() time.Duration {
	if r.LoginWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.LoginWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
