package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrgarest/firebase-sender/pkg/config"
)

type senderConfig struct {
	AccountsFile string `env:"FIREBASE_ACCOUNTS_FILE" envDefault:"firebase-accounts.yml"`
	LogsEnabled  bool   `env:"FIREBASE_LOGS_ENABLED" envDefault:"true"`
	ChunkLength  int    `env:"FIREBASE_CHUNK_LENGTH" envDefault:"10"`
}

type requiredConfig struct {
	Endpoint string `env:"CONFIG_TEST_REQUIRED_ENDPOINT,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		var cfg senderConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "firebase-accounts.yml", cfg.AccountsFile)
		assert.True(t, cfg.LogsEnabled)
		assert.Equal(t, 10, cfg.ChunkLength)
	})

	t.Run("cached copy returned on second call", func(t *testing.T) {
		var first, second senderConfig
		require.NoError(t, config.Load(&first))
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer rejected", func(t *testing.T) {
		var cfg *senderConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})
}
