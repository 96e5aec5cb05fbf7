package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_defaults(t *testing.T) {
	t.Setenv("ENV", "")

	conf, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "DEV", conf.Env)
	assert.Equal(t, "Liceo", conf.AppName)
	assert.True(t, conf.Debug)
	assert.False(t, conf.TestMode)
	assert.Equal(t, time.UTC, conf.Location)
	assert.Equal(t, ":8000", conf.Server.Address)
	assert.Equal(t, 24*time.Hour, conf.Server.JWTExpirationDelta)
	assert.Equal(t, "localhost:5432", conf.Database.Address())
	assert.Empty(t, conf.Redis.Address)
}

func TestNewConfig_env(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_DATABASE_HOST", "db.liceo.internal")
	t.Setenv("TEST_DATABASE_PORT", "6543")
	t.Setenv("TEST_SERVER_SHUTDOWNTIMEOUT", "10s")
	t.Setenv("TEST_REDIS_ADDRESS", "cache:6379")
	t.Setenv("TEST_TIMEZONE", "America/Santiago")

	conf, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, "db.liceo.internal:6543", conf.Database.Address())
	assert.Equal(t, 10*time.Second, conf.Server.ShutdownTimeout)
	assert.Equal(t, "cache:6379", conf.Redis.Address)
	assert.Equal(t, "America/Santiago", conf.Location.String())
}

func TestNewConfig_errors(t *testing.T) {
	t.Run("default secret in production", func(t *testing.T) {
		t.Setenv("ENV", "prod")
		_, err := NewConfig()
		assert.EqualError(t, err, "secretKey must be set outside of debug mode")
	})
	t.Run("unknown timezone", func(t *testing.T) {
		t.Setenv("ENV", "qa")
		t.Setenv("QA_TIMEZONE", "Mars/Olympus")
		_, err := NewConfig()
		assert.Error(t, err)
	})
}
