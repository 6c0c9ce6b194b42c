package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envKeys is every variable the tests touch. resetEnv clears them all so
// a developer's shell environment cannot leak into assertions.
var envKeys = []string{
	"RETURNHUB_APP_NAME",
	"RETURNHUB_APP_ENV",
	"RETURNHUB_APP_PORT",
	"RETURNHUB_DATABASE_HOST",
	"RETURNHUB_DATABASE_PORT",
	"RETURNHUB_DATABASE_USER",
	"RETURNHUB_DATABASE_PASSWORD",
	"RETURNHUB_DATABASE_DBNAME",
	"RETURNHUB_DATABASE_SSLMODE",
	"RETURNHUB_DATABASE_MAX_OPEN_CONNS",
	"RETURNHUB_DATABASE_MAX_IDLE_CONNS",
	"RETURNHUB_JWT_SECRET",
	"RETURNHUB_TAX_VAT_RATE",
	"RETURNHUB_LEDGER_CACHE_ENABLED",
	"RETURNHUB_SUPERVISOR_REVERSAL_HASH",
	"RETURNHUB_SUPERVISOR_DESTRUCTIVE_HASH",
}

func resetEnv(t *testing.T, overrides map[string]string) {
	t.Helper()
	for _, key := range envKeys {
		if original, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, original) })
			os.Unsetenv(key)
		}
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}
}

func TestLoadDefaults(t *testing.T) {
	resetEnv(t, nil)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "returnhub-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "returnhub", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)

	assert.Equal(t, float64(7), cfg.Tax.VATRate)
	assert.True(t, cfg.Tax.VATEnabled)
	assert.False(t, cfg.Ledger.CacheEnabled)
	assert.Positive(t, cfg.Ledger.CacheTTL)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins, "no cross-origin access until configured")
}

func TestLoadFromEnvironment(t *testing.T) {
	resetEnv(t, map[string]string{
		"RETURNHUB_APP_NAME":                "hub-staging",
		"RETURNHUB_APP_PORT":                "9000",
		"RETURNHUB_DATABASE_HOST":           "db.staging.internal",
		"RETURNHUB_DATABASE_PORT":           "5433",
		"RETURNHUB_DATABASE_USER":           "hub",
		"RETURNHUB_DATABASE_PASSWORD":       "s3cret",
		"RETURNHUB_DATABASE_DBNAME":         "returnhub_staging",
		"RETURNHUB_DATABASE_SSLMODE":        "require",
		"RETURNHUB_DATABASE_MAX_OPEN_CONNS": "50",
		"RETURNHUB_DATABASE_MAX_IDLE_CONNS": "10",
		"RETURNHUB_LEDGER_CACHE_ENABLED":    "true",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hub-staging", cfg.App.Name)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.staging.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "hub", cfg.Database.User)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "returnhub_staging", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.True(t, cfg.Ledger.CacheEnabled)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "idle conns may not exceed open conns",
			env:     map[string]string{"RETURNHUB_DATABASE_MAX_OPEN_CONNS": "10", "RETURNHUB_DATABASE_MAX_IDLE_CONNS": "20"},
			wantErr: "cannot exceed",
		},
		{
			name:    "open conns must be positive",
			env:     map[string]string{"RETURNHUB_DATABASE_MAX_OPEN_CONNS": "0"},
			wantErr: "max_open_conns must be positive",
		},
		{
			name:    "idle conns may not be negative",
			env:     map[string]string{"RETURNHUB_DATABASE_MAX_IDLE_CONNS": "-1"},
			wantErr: "max_idle_conns cannot be negative",
		},
		{
			name:    "VAT rate above 100 rejected",
			env:     map[string]string{"RETURNHUB_TAX_VAT_RATE": "120"},
			wantErr: "tax.vat_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEnv(t, tt.env)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func productionEnv() map[string]string {
	return map[string]string{
		"RETURNHUB_APP_ENV":                     "production",
		"RETURNHUB_JWT_SECRET":                  "this-is-a-very-secure-jwt-secret-key-32chars",
		"RETURNHUB_DATABASE_PASSWORD":           "secure-password",
		"RETURNHUB_DATABASE_SSLMODE":            "require",
		"RETURNHUB_SUPERVISOR_REVERSAL_HASH":    "$2a$10$abcdefghijklmnopqrstuv",
		"RETURNHUB_SUPERVISOR_DESTRUCTIVE_HASH": "$2a$10$vutsrqponmlkjihgfedcba",
	}
}

func TestLoadProductionValidation(t *testing.T) {
	t.Run("valid production config loads", func(t *testing.T) {
		resetEnv(t, productionEnv())

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	tests := []struct {
		name    string
		mutate  func(env map[string]string)
		wantErr string
	}{
		{
			name:    "missing jwt secret",
			mutate:  func(env map[string]string) { delete(env, "RETURNHUB_JWT_SECRET") },
			wantErr: "jwt.secret is required in production",
		},
		{
			name:    "short jwt secret",
			mutate:  func(env map[string]string) { env["RETURNHUB_JWT_SECRET"] = "short-secret" },
			wantErr: "jwt.secret must be at least 32 characters",
		},
		{
			name:    "missing database password",
			mutate:  func(env map[string]string) { delete(env, "RETURNHUB_DATABASE_PASSWORD") },
			wantErr: "database.password is required in production",
		},
		{
			name:    "ssl disabled",
			mutate:  func(env map[string]string) { env["RETURNHUB_DATABASE_SSLMODE"] = "disable" },
			wantErr: "database.sslmode cannot be 'disable' in production",
		},
		{
			name:    "missing supervisor hash",
			mutate:  func(env map[string]string) { delete(env, "RETURNHUB_SUPERVISOR_REVERSAL_HASH") },
			wantErr: "supervisor.reversal_hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := productionEnv()
			tt.mutate(env)
			resetEnv(t, env)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "hub",
		Password: "pass@word#123",
		DBName:   "returnhub",
		SSLMode:  "verify-full",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "/returnhub")
	assert.Contains(t, dsn, "sslmode=verify-full")
	assert.Contains(t, dsn, "pass%40word%23123", "password special characters must be escaped")
}

func TestRedisConfigAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}

	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}
