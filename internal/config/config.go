package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// devFallbackSecret signs tokens when no JWT_SECRET is configured. It is a
// development convenience only; Validate rejects it outside development mode.
const devFallbackSecret = "dev-only-insecure-secret"

type Config struct {
	AppEnv             string
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	JWTSecret     string
	JWTIssuer     string
	JWTAccessTTL  time.Duration
	RefreshTTL    time.Duration
	BootstrapUser string
	BootstrapPass string

	MediaRoot      string
	UploadTempDir  string
	VariantsSubdir string
	MaxUploadSize  int64

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int
	GalleryPageSize  int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:             strings.ToLower(getEnv("APP_ENV", "development")),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 8)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 2)),

		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     getEnv("JWT_ISSUER", "go-web-gallery"),
		JWTAccessTTL:  getDuration("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:    getDuration("REFRESH_TTL", 7*24*time.Hour),
		BootstrapUser: getEnv("BOOTSTRAP_ADMIN_USER", "admin"),
		BootstrapPass: getEnv("BOOTSTRAP_ADMIN_PASSWORD", "secret"),

		MediaRoot:      getEnv("MEDIA_ROOT", "./media"),
		UploadTempDir:  getEnv("UPLOAD_TEMP_DIR", "./media/.tmp"),
		VariantsSubdir: getEnv("VARIANTS_SUBDIR", "variants"),
		MaxUploadSize:  getInt64("MAX_UPLOAD_SIZE", 104857600),

		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:     getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM: getInt("AUTH_RATE_LIMIT_RPM", 10),
		GalleryPageSize:  getInt("GALLERY_PAGE_SIZE", 20),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET is required outside development mode")
		}
		c.JWTSecret = devFallbackSecret
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if strings.TrimSpace(c.MediaRoot) == "" {
		return fmt.Errorf("MEDIA_ROOT cannot be empty")
	}

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.JWTAccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}

	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}

	return nil
}

// UsingFallbackSecret reports whether the insecure development secret is in
// effect, so startup can log it loudly.
func (c *Config) UsingFallbackSecret() bool {
	return c.JWTSecret == devFallbackSecret
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
