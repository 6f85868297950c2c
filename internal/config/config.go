package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	SMTP         SMTPConfig
	Storage      StorageConfig
	Push         PushConfig
	Payroll      PayrollConfig
	Attendance   AttendanceConfig
	Notification NotificationConfig
	Cron         CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name              string
	Version           string
	Port              int
	Env               string
	LogLevel          string
	BaseURL           string
	AllowedOrigins    []string
	AllowRegistration bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
	MaxSize  int64
}

type PushConfig struct {
	ExpoURL     string
	AccessToken string
	Timeout     time.Duration
	MaxRetries  int
}

// PayrollConfig holds the amounts used when a payslip request omits a field.
type PayrollConfig struct {
	LateRatePerMinute decimal.Decimal
	SSS               decimal.Decimal
	HDMF              decimal.Decimal
	PHIC              decimal.Decimal
	Tax               decimal.Decimal
}

type AttendanceConfig struct {
	WorkStart    string
	GraceMinutes int
	Timezone     string
}

type NotificationConfig struct {
	Workers   int
	QueueSize int
	BatchSize int
}

type CronConfig struct {
	Enabled        bool
	Interval       time.Duration
	MarkAbsentHour int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "terralogix_hr"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	allowRegistration, err := getEnvBool("APP_ALLOW_REGISTRATION", false)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Name:              getEnv("APP_NAME", "terralogix-hr"),
		Version:           getEnv("APP_VERSION", "v1.0.0"),
		Port:              appPort,
		Env:               getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		BaseURL:           getEnv("APP_BASE_URL", "http://localhost:8080"),
		AllowedOrigins:    getEnvSlice("APP_ALLOWED_ORIGINS"),
		AllowRegistration: allowRegistration,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@terralogix.local"),
		FromName: getEnv("SMTP_FROM_NAME", "Terralogix HR"),
	}

	maxUpload, err := getEnvInt("STORAGE_MAX_SIZE_MB", 5)
	if err != nil {
		return nil, err
	}
	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "/uploads"),
		MaxSize:  int64(maxUpload) << 20,
	}

	pushTimeout, err := getEnvDuration("PUSH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	pushRetries, err := getEnvInt("PUSH_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	config.Push = PushConfig{
		ExpoURL:     getEnv("PUSH_EXPO_URL", "https://exp.host/--/api/v2/push/send"),
		AccessToken: getEnv("PUSH_EXPO_ACCESS_TOKEN", ""),
		Timeout:     pushTimeout,
		MaxRetries:  pushRetries,
	}

	// Payroll defaults
	payroll := PayrollConfig{}
	for _, f := range []struct {
		key      string
		fallback string
		dst      *decimal.Decimal
	}{
		{"PAYROLL_DEFAULT_LATE_RATE_PER_MINUTE", "10", &payroll.LateRatePerMinute},
		{"PAYROLL_DEFAULT_SSS", "400", &payroll.SSS},
		{"PAYROLL_DEFAULT_HDMF", "100", &payroll.HDMF},
		{"PAYROLL_DEFAULT_PHIC", "200", &payroll.PHIC},
		{"PAYROLL_DEFAULT_TAX", "0", &payroll.Tax},
	} {
		v, err := getEnvDecimal(f.key, f.fallback)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	config.Payroll = payroll

	grace, err := getEnvInt("ATTENDANCE_GRACE_MINUTES", 0)
	if err != nil {
		return nil, err
	}
	config.Attendance = AttendanceConfig{
		WorkStart:    getEnv("ATTENDANCE_WORK_START", "08:00"),
		GraceMinutes: grace,
		Timezone:     getEnv("ATTENDANCE_TIMEZONE", "Asia/Manila"),
	}

	workers, err := getEnvInt("NOTIFICATION_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	queueSize, err := getEnvInt("NOTIFICATION_QUEUE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	batchSize, err := getEnvInt("NOTIFICATION_BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}
	config.Notification = NotificationConfig{
		Workers:   workers,
		QueueSize: queueSize,
		BatchSize: batchSize,
	}

	cronEnabled, err := getEnvBool("CRON_ENABLED", true)
	if err != nil {
		return nil, err
	}
	cronInterval, err := getEnvDuration("CRON_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	markAbsentHour, err := getEnvInt("CRON_MARK_ABSENT_HOUR", 1)
	if err != nil {
		return nil, err
	}
	config.Cron = CronConfig{
		Enabled:        cronEnabled,
		Interval:       cronInterval,
		MarkAbsentHour: markAbsentHour,
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
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.Parse("15:04", c.Attendance.WorkStart); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_WORK_START: %w", err)
	}
	if c.Cron.MarkAbsentHour < 0 || c.Cron.MarkAbsentHour > 23 {
		return fmt.Errorf("CRON_MARK_ABSENT_HOUR must be between 0 and 23")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	for name, v := range map[string]decimal.Decimal{
		"PAYROLL_DEFAULT_LATE_RATE_PER_MINUTE": c.Payroll.LateRatePerMinute,
		"PAYROLL_DEFAULT_SSS":                  c.Payroll.SSS,
		"PAYROLL_DEFAULT_HDMF":                 c.Payroll.HDMF,
		"PAYROLL_DEFAULT_PHIC":                 c.Payroll.PHIC,
		"PAYROLL_DEFAULT_TAX":                  c.Payroll.Tax,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.Notification.Workers < 1 {
		return fmt.Errorf("NOTIFICATION_WORKERS must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the timezone attendance dates are evaluated in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}
