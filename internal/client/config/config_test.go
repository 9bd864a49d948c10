package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "readkeeper.db", c.DatabasePath)
	assert.Equal(t, "books", c.BookCacheDir)
	assert.Equal(t, 5*time.Minute, c.SyncInterval)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "readkeeper", c.S3Bucket)
	assert.Empty(t, c.S3Endpoint)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "readkeeper.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
}
