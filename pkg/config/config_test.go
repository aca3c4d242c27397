package config_test

import (
	"testing"

	"github.com/credifraud/fraud-api-go/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePort(t *testing.T) {
	t.Run("defaults to 8000 when PORT is unset and nothing is configured", func(t *testing.T) {
		t.Setenv("PORT", "")

		port, err := config.ResolvePort(0)
		require.NoError(t, err)
		assert.Equal(t, 8000, port)
	})

	t.Run("uses configured value when PORT is unset", func(t *testing.T) {
		t.Setenv("PORT", "")

		port, err := config.ResolvePort(9090)
		require.NoError(t, err)
		assert.Equal(t, 9090, port)
	})

	t.Run("PORT overrides the configured value", func(t *testing.T) {
		t.Setenv("PORT", "3000")

		port, err := config.ResolvePort(9090)
		require.NoError(t, err)
		assert.Equal(t, 3000, port)
	})

	t.Run("empty PORT behaves like unset", func(t *testing.T) {
		t.Setenv("PORT", "")

		port, err := config.ResolvePort(0)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultPort, port)
	})

	t.Run("rejects non-numeric PORT", func(t *testing.T) {
		t.Setenv("PORT", "abc")

		_, err := config.ResolvePort(0)
		require.Error(t, err)
	})

	t.Run("rejects out-of-range PORT", func(t *testing.T) {
		for _, raw := range []string{"0", "-1", "70000"} {
			t.Setenv("PORT", raw)

			_, err := config.ResolvePort(0)
			require.Error(t, err, "PORT=%s should be rejected", raw)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")

		cfg, err := config.LoadConfig("")
		require.NoError(t, err)

		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "transactions_stream", cfg.Kafka.TopicInput)
		assert.Equal(t, "fraud_predictions", cfg.Kafka.TopicOutput)
		assert.Equal(t, "transactions-group-1", cfg.Kafka.ConsumerGroup)
		assert.Equal(t, "memory", cfg.Cache.Type)
		assert.Equal(t, "./model", cfg.Models.Dir)
	})

	t.Run("PORT overrides configured port", func(t *testing.T) {
		t.Setenv("PORT", "3000")

		cfg, err := config.LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Server.Port)
	})

	t.Run("environment variables with FD_ prefix override defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("FD_DATABASE_DRIVER", "sqlite")

		cfg, err := config.LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
	})

	t.Run("invalid database driver is rejected", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("FD_DATABASE_DRIVER", "oracle")

		_, err := config.LoadConfig("")
		require.Error(t, err)
	})

	t.Run("invalid PORT fails the load", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")

		_, err := config.LoadConfig("")
		require.Error(t, err)
	})
}
