package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"church-admin-go/pkg/logger"
)

const (
	AuthProviderSupabase = "supabase"
	AuthProviderLocal    = "local"
)

type Config struct {
	HTTPPort       string
	HTTP           HTTPConfig
	Env            string
	AllowedOrigins []string
	MetricsEnabled bool
	DB             DBConfig
	Supabase       SupabaseConfig
	Auth           AuthConfig
	Store          StoreConfig
	Redis          RedisConfig
	NATS           NATSConfig
}

// HTTPConfig bounds request handling. RequestTimeout applies per route,
// ShutdownTimeout to draining in-flight requests on exit.
type HTTPConfig struct {
	RequestTimeout    time.Duration
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

type DBConfig struct {
	DSN                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	TimeZone           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	// SlowQueryThreshold logs statements slower than this at warn; zero disables it.
	SlowQueryThreshold time.Duration
	AutoMigrate        bool
}

type SupabaseConfig struct {
	URL            string
	PublishableKey string
	AuthTimeout    time.Duration
}

type AuthConfig struct {
	Provider       string
	JWTSecret      string
	JWTIssuer      string
	TokenTTL       time.Duration
	UserCacheTTL   time.Duration
	MinPasswordLen int
}

// StoreConfig drives the read retry policy used against the database.
type StoreConfig struct {
	RetryMax       int
	RetryBaseDelay time.Duration
	AttemptTimeout time.Duration
	JoinParallel   int
}

type RedisConfig struct {
	Addr               string
	Password           string
	RateLimitPrefix    string
	RegistrationLimit  int
	RegistrationWindow time.Duration
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		HTTP: HTTPConfig{
			RequestTimeout:    getEnvDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
			ReadHeaderTimeout: getEnvDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			IdleTimeout:       getEnvDuration("HTTP_IDLE_TIMEOUT", 2*time.Minute),
			ShutdownTimeout:   getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{
			DSN:                getEnv("DB_DSN", ""),
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", "postgres"),
			Password:           getEnv("DB_PASSWORD", "postgres"),
			Name:               getEnv("DB_NAME", "church_admin"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			TimeZone:           getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:    getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			SlowQueryThreshold: getEnvDuration("DB_SLOW_QUERY_THRESHOLD", 500*time.Millisecond),
			AutoMigrate:        getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			PublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", getEnv("VITE_SUPABASE_PUBLISHABLE_KEY", "")),
			AuthTimeout:    getEnvDuration("SUPABASE_AUTH_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			Provider:       strings.ToLower(getEnv("AUTH_PROVIDER", AuthProviderLocal)),
			JWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
			JWTIssuer:      getEnv("AUTH_JWT_ISSUER", "church-admin"),
			TokenTTL:       getEnvDuration("AUTH_TOKEN_TTL", 12*time.Hour),
			UserCacheTTL:   getEnvDuration("AUTH_USER_CACHE_TTL", 30*time.Second),
			MinPasswordLen: getEnvInt("AUTH_MIN_PASSWORD_LENGTH", 6),
		},
		Store: StoreConfig{
			RetryMax:       getEnvInt("STORE_RETRY_MAX", 2),
			RetryBaseDelay: getEnvDuration("STORE_RETRY_BASE_DELAY", 250*time.Millisecond),
			AttemptTimeout: getEnvDuration("STORE_ATTEMPT_TIMEOUT", 5*time.Second),
			JoinParallel:   getEnvInt("STORE_JOIN_PARALLEL", 8),
		},
		Redis: RedisConfig{
			Addr:               getEnv("REDIS_ADDR", ""),
			Password:           getEnv("REDIS_PASSWORD", ""),
			RateLimitPrefix:    getEnv("RATE_LIMIT_PREFIX", "church-admin:ratelimit"),
			RegistrationLimit:  getEnvInt("REGISTRATION_RATE_LIMIT", 10),
			RegistrationWindow: getEnvDuration("REGISTRATION_RATE_WINDOW", time.Minute),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "church_admin"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Auth.Provider {
	case AuthProviderLocal:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required for the local auth provider")
		}
	case AuthProviderSupabase:
		if c.Supabase.URL == "" || c.Supabase.PublishableKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY are required for the supabase auth provider")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}
	if c.Store.RetryMax < 0 {
		return fmt.Errorf("STORE_RETRY_MAX must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
