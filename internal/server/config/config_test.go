package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, int64(256*1024), cfg.InlineContentLimit)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("HEALTHPOD_ENDPOINT_ADDR", ":9999")
	t.Setenv("HEALTHPOD_SECRET_KEY", "from-env")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddr)
	assert.Equal(t, "from-env", cfg.SecretKey)
	// untouched values survive
	assert.Equal(t, "healthpod", cfg.S3Bucket)
}
