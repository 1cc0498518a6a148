package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Storage    StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds cache configuration. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	RecapTTL time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	FrontendOrigin string
}

// AttendanceConfig holds the rules applied to check-in and check-out.
type AttendanceConfig struct {
	ShiftLength        time.Duration
	GracePeriod        time.Duration
	UnknownStatus      string // "hadir" or "unknown"
	StaleSweepInterval time.Duration
	DefaultLocation    string
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "absensi"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	recapTTL, err := time.ParseDuration(getEnv("REDIS_RECAP_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_RECAP_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		RecapTTL: recapTTL,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:8081"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	shift, err := time.ParseDuration(getEnv("ATTENDANCE_SHIFT_LENGTH", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_SHIFT_LENGTH: %w", err)
	}
	grace, err := time.ParseDuration(getEnv("ATTENDANCE_GRACE_PERIOD", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_GRACE_PERIOD: %w", err)
	}
	sweep, err := time.ParseDuration(getEnv("ATTENDANCE_STALE_SWEEP_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_STALE_SWEEP_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		ShiftLength:        shift,
		GracePeriod:        grace,
		UnknownStatus:      getEnv("ATTENDANCE_UNKNOWN_STATUS", "hadir"),
		StaleSweepInterval: sweep,
		DefaultLocation:    getEnv("ATTENDANCE_DEFAULT_LOCATION", "Kantor Pusat (WFO)"),
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Attendance.ShiftLength <= 0 {
		return errors.New("ATTENDANCE_SHIFT_LENGTH must be positive")
	}
	if c.Attendance.GracePeriod < 0 {
		return errors.New("ATTENDANCE_GRACE_PERIOD must not be negative")
	}
	if c.Attendance.StaleSweepInterval <= 0 {
		return errors.New("ATTENDANCE_STALE_SWEEP_INTERVAL must be positive")
	}
	switch c.Attendance.UnknownStatus {
	case "hadir", "unknown":
	default:
		return fmt.Errorf("ATTENDANCE_UNKNOWN_STATUS must be hadir or unknown, got %q", c.Attendance.UnknownStatus)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string. Credentials are
// percent-encoded so passwords may contain URL delimiters.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

// Location returns the timezone attendance days are measured in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
