package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Auth: AuthConfig{SessionDuration: 24 * time.Hour, RateLimit: 20},
	}
}

// isolateEnv clears every variable Load reads so the host environment cannot leak in.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "DATA_PATH", "SYLLABUS_PATH", "SERVER_PORT",
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
		"CORS_ORIGINS", "SECURE_COOKIES", "SESSION_DURATION", "AUTH_RATE_LIMIT",
		"SEED_EMAIL", "SEED_PASSWORD", "SEED_MARK_LEARNED",
	} {
		t.Setenv(key, "")
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			cfg.Server.SecureCookies = true

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }},
		{"zero session duration", func(c *Config) { c.Auth.SessionDuration = 0 }},
		{"negative rate limit", func(c *Config) { c.Auth.RateLimit = -1 }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"insecure cookies in production", func(c *Config) {
			c.App.Environment = "production"
			c.Server.SecureCookies = false
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	cfg, err := Load([]string{"-env-file", filepath.Join(dir, "missing.env"), "-data-path", dir})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, 20, cfg.Auth.RateLimit)
	assert.False(t, cfg.Server.SecureCookies)
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.Equal(t, filepath.Join(dir, "dojolog.db"), cfg.Data.DatabasePath())
	assert.Equal(t, filepath.Join(dir, "sessions"), cfg.Data.SessionsPath())
	assert.Equal(t, "demo@dojolog.local", cfg.Seed.DemoEmail)
}

func TestLoad_Precedence(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`
# comment
LOG_LEVEL=debug
SERVER_PORT="9000"
SESSION_DURATION=2h
CORS_ORIGINS=https://dojo.app, https://www.dojo.app
`), 0o600))

	// Env beats .env.
	t.Setenv("SERVER_PORT", "9100")

	// Flag beats env.
	cfg, err := Load([]string{
		"-env-file", envFile,
		"-data-path", dir,
		"-session-duration", "90m",
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 90*time.Minute, cfg.Auth.SessionDuration)
	assert.Equal(t, []string{"https://dojo.app", "https://www.dojo.app"}, cfg.Server.CORSOrigins)
}

func TestLoad_ProductionDefaultsToSecureCookies(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	cfg, err := Load([]string{"-env-file", "", "-data-path", dir, "-env", "production"})
	require.NoError(t, err)
	assert.True(t, cfg.Server.SecureCookies)

	_, err = Load([]string{"-env-file", "", "-data-path", dir, "-env", "production", "-secure-cookies", "false"})
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	isolateEnv(t)

	_, err := Load([]string{"-env-file", "", "-data-path", t.TempDir(), "-session-duration", "forever"})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/dojo", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "dojo"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)
}
