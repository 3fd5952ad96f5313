package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "https://product.pgmbusiness.com", cfg.Backends.ProductURL)
	assert.Equal(t, "https://user.pgmbusiness.com", cfg.Backends.UserURL)
	assert.Equal(t, "https://core.pgmbusiness.com", cfg.Backends.CoreURL)
	assert.Equal(t, cfg.Backends.CoreURL, cfg.Backends.PaymentURL)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, time.Second, cfg.Storage.FileStorage.PollInterval)
	assert.Equal(t, "8080", cfg.HTTP.Port)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PRODUCT_API_URL", "http://localhost:9001")
	t.Setenv("PAYMENT_API_URL", "http://localhost:9004")
	t.Setenv("STORAGE_DRIVER", DriverMemory)
	t.Setenv("CLIENT_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9001", cfg.Backends.ProductURL)
	assert.Equal(t, "http://localhost:9004", cfg.Backends.PaymentURL)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 3*time.Second, cfg.Client.Timeout)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
env: prod
backends:
  user_url: http://users.internal
storage:
  driver: redis
  redis:
    redis_addr: cache:6379
    redis_db: 2
http:
  port: "9090"
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "http://users.internal", cfg.Backends.UserURL)
	assert.Equal(t, "https://product.pgmbusiness.com", cfg.Backends.ProductURL)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Storage.Redis.RedisAddr)
	assert.Equal(t, 2, cfg.Storage.Redis.RedisDB)
	assert.Equal(t, "9090", cfg.HTTP.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "env: dev\nhttp:\n  port: \"9090\"\n")
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "7070", cfg.HTTP.Port)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"env", map[string]string{"ENV": "staging"}},
		{"driver", map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{"postgres without dsn", map[string]string{"STORAGE_DRIVER": DriverPostgres}},
		{"backend url", map[string]string{"USER_API_URL": "not a url"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestMustLoadPath_Missing(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadPath(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}
