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
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Server:  ServerConfig{Port: "8080", LoginRatePerMinute: 10},
		Storage: StorageConfig{Backend: BackendJSONFile, DataPath: "/srv/inovel"},
		Auth:    AuthConfig{SessionDuration: time.Hour},
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
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_StorageBackend(t *testing.T) {
	for _, backend := range []string{BackendJSONFile, BackendBadger, BackendSQLite} {
		cfg := validConfig()
		cfg.Storage.Backend = backend
		assert.NoError(t, cfg.Validate(), backend)
	}

	cfg := validConfig()
	cfg.Storage.Backend = "postgres"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage backend")
}

func TestValidate_RejectsBadLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Server.LoginRatePerMinute = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Auth.SessionDuration = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"ENV", "LOG_LEVEL", "DATA_PATH", "STORAGE_BACKEND", "SERVER_PORT", "SESSION_DURATION", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, BackendJSONFile, cfg.Storage.Backend)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 168*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, filepath.Join(home, "iNovel", "data"), cfg.Storage.DataPath)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORAGE_BACKEND", "badger")
	dataDir := t.TempDir()

	cfg, err := Load([]string{"-port", "9100", "-data-path", dataDir, "-env-file", ""})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, dataDir, cfg.Storage.DataPath)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SESSION_DURATION", "forever")

	_, err := Load([]string{"-data-path", t.TempDir(), "-env-file", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_DURATION")
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nLOG_LEVEL=\"debug\"\n\nSERVER_NAME='Night Shelf'\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SERVER_NAME", "preset")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "preset", os.Getenv("SERVER_NAME"))
}

func TestLoadEnvFile_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A PAIR\n"), 0o600))

	err := loadEnvFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestGetBoolConfigValue(t *testing.T) {
	t.Setenv("SOME_FLAG", "")
	assert.True(t, getBoolConfigValue("", "SOME_FLAG", true))
	assert.True(t, getBoolConfigValue("YES", "SOME_FLAG", false))
	assert.False(t, getBoolConfigValue("off", "SOME_FLAG", true))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
	assert.Nil(t, splitList(""))
}
