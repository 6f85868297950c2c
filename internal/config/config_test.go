package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.False(t, cfg.App.AllowRegistration)
	assert.True(t, cfg.Payroll.LateRatePerMinute.Equal(decimal.NewFromInt(10)))
	assert.True(t, cfg.Payroll.SSS.Equal(decimal.NewFromInt(400)))
	assert.True(t, cfg.Payroll.HDMF.Equal(decimal.NewFromInt(100)))
	assert.True(t, cfg.Payroll.PHIC.Equal(decimal.NewFromInt(200)))
	assert.True(t, cfg.Payroll.Tax.IsZero())
	assert.Equal(t, "08:00", cfg.Attendance.WorkStart)
	assert.Equal(t, time.Hour, cfg.Cron.Interval)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxSize)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYROLL_DEFAULT_SSS", "575.50")
	t.Setenv("APP_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("APP_ALLOW_REGISTRATION", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "575.5", cfg.Payroll.SSS.String())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.AllowedOrigins)
	assert.True(t, cfg.App.AllowRegistration)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad port", "DB_PORT", "abc"},
		{"bad decimal", "PAYROLL_DEFAULT_TAX", "ten"},
		{"negative default", "PAYROLL_DEFAULT_HDMF", "-1"},
		{"bad work start", "ATTENDANCE_WORK_START", "8am"},
		{"bad duration", "PUSH_TIMEOUT", "soon"},
		{"bad hour", "CRON_MARK_ABSENT_HOUR", "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_RequiresSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5433, User: "hr", Password: "pw", Name: "hr", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://hr:pw@db:5433/hr?sslmode=disable", cfg.DatabaseURL())
}
