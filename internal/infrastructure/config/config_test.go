package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "stitchworks", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30, cfg.Planning.UsageWindowDays)
	assert.Equal(t, 10*time.Minute, cfg.Planning.ReportCacheTTL)
}

func TestLoadEnvOverride(t *testing.T) {
	os.Setenv("STITCH_DATABASE_HOST", "db.internal")
	os.Setenv("STITCH_APP_PORT", "9090")
	defer os.Unsetenv("STITCH_DATABASE_HOST")
	defer os.Unsetenv("STITCH_APP_PORT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "9090", cfg.App.Port)
}

func TestProductionRequiresPassword(t *testing.T) {
	os.Setenv("STITCH_APP_ENV", "production")
	defer os.Unsetenv("STITCH_APP_ENV")

	_, err := Load()
	require.Error(t, err)

	os.Setenv("STITCH_DATABASE_PASSWORD", "secret")
	defer os.Unsetenv("STITCH_DATABASE_PASSWORD")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, User: "app", Password: "pw", DBName: "stitchworks", SSLMode: "disable"}
	assert.Equal(t, "host=localhost port=5432 user=app password=pw dbname=stitchworks sslmode=disable", d.DSN())
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", r.Addr())
}
