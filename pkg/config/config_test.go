package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ".", cfg.Database.SQLiteLocation)
	assert.Equal(t, SessionBackendCookie, cfg.Session.Backend)
	assert.Equal(t, "raidfinder_session", cfg.Session.Name)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.MaxAge())
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Server.TrustProxy)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("SQLITE_LOCATION", "/var/lib/raidfinder")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.Session.SecretKey)
	assert.Equal(t, "/var/lib/raidfinder", cfg.Database.SQLiteLocation)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Server.TrustProxy)
}

func TestValidate(t *testing.T) {
	base := Config{
		Database: DatabaseConfig{Driver: DriverSQLite},
		Session:  SessionConfig{Backend: SessionBackendCookie, SecretKey: "k"},
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Database.Driver = "mysql"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Session.Backend = "memcached"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Session.SecretKey = ""
	assert.Error(t, bad.Validate())
}

// chdirTemp moves into an empty directory so no stray .env is picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
