package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load looks at so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "HOST", "PORT", "STORAGE_DRIVER", "STORAGE_PATH",
		"SQLAZURECONNSTR_DefaultConnection", "DefaultConnection",
		"DB_CONNECT_TIMEOUT", "DB_QUERY_TIMEOUT",
		"HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverSQLServer, cfg.Driver)
	assert.Equal(t, 15*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 15*time.Second, cfg.QueryTimeout)
	assert.Empty(t, cfg.DSN())
}

func TestLoadPrefersAzureConnectionString(t *testing.T) {
	clearEnv(t)
	t.Setenv("DefaultConnection", "Server=plain")
	t.Setenv("SQLAZURECONNSTR_DefaultConnection", "Server=azure")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Server=azure", cfg.DSN())
}

func TestLoadFallsBackToPlainConnectionString(t *testing.T) {
	clearEnv(t)
	t.Setenv("DefaultConnection", "Server=plain")
	t.Setenv("PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Server=plain", cfg.DSN())
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "oracle")

	_, err := Load("")
	assert.ErrorContains(t, err, `unsupported storage driver "oracle"`)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: prod
http_server:
  host: 127.0.0.1
  port: "8082"
database:
  driver: sqlite
  storage_path: contacts.db
  query_timeout: 3s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "127.0.0.1:8082", cfg.Addr())
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "contacts.db", cfg.StoragePath)
	assert.Equal(t, 3*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 15*time.Second, cfg.ConnectTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
