package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 240, cfg.TargetHeight)
	assert.Equal(t, 426, cfg.MaxWidth)
	assert.Equal(t, 80, cfg.JPEGQuality)
	assert.Equal(t, 250*time.Millisecond, cfg.BroadcastInterval)
	assert.Equal(t, time.Second, cfg.ReadRetryDelay)
	assert.Equal(t, "rtsp://localhost:8554", cfg.RelayBaseURL)
	assert.Equal(t, "ffmpeg", cfg.FFmpegBin)
	assert.False(t, cfg.ManageRTSPServer)
	assert.False(t, cfg.NatsEnabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("BROADCAST_INTERVAL", "100ms")
	t.Setenv("RELAY_BASE_URL", "rtsp://media:8554")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("CONF_THRESHOLD", "0.5")

	cfg := Load()

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 100*time.Millisecond, cfg.BroadcastInterval)
	assert.Equal(t, "rtsp://media:8554", cfg.RelayBaseURL)
	assert.True(t, cfg.NatsEnabled)
	assert.Equal(t, float32(0.5), cfg.ConfThreshold)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("BROADCAST_INTERVAL", "soon")

	cfg := Load()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.BroadcastInterval)
}
