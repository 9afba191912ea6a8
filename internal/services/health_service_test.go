package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gwilson152/TradePulse-new/internal/platforms"
	"github.com/gwilson152/TradePulse-new/internal/shared/testutil"
)

func TestHealthService(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.0", "2024-01-02T00:00:00Z", platforms.NewDefaultRegistry(), logger)
	ctx := context.Background()

	t.Run("health", func(t *testing.T) {
		status := hs.HealthCheck(ctx)
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, "1.2.0", status.Version)
	})

	t.Run("ready with builtin platforms", func(t *testing.T) {
		status := hs.ReadinessCheck(ctx)
		assert.Equal(t, "ready", status.Status)
		platformHealth, ok := status.Services["platforms"].(ServiceHealth)
		assert.True(t, ok)
		assert.Equal(t, "ready", platformHealth.Status)
	})

	t.Run("liveness", func(t *testing.T) {
		status := hs.LivenessCheck(ctx)
		assert.Equal(t, "alive", status.Status)
		assert.Contains(t, status.Runtime, "goroutines")
	})

	t.Run("version", func(t *testing.T) {
		info := hs.Version()
		assert.Equal(t, "1.2.0", info["version"])
		assert.Equal(t, "2024-01-02T00:00:00Z", info["build_time"])
		assert.Equal(t, "v1", info["api_version"])
	})
}

func TestHealthService_NotReady(t *testing.T) {
	logger, records := testutil.NewTestLogger(t)

	empty := NewHealthService("dev", "", platforms.NewRegistry(), logger)
	assert.Equal(t, "not_ready", empty.ReadinessCheck(context.Background()).Status)
	assert.True(t, records.ContainsMessage("ReadinessCheck: not ready"))
	assert.NotContains(t, empty.Version(), "build_time")

	missing := NewHealthService("dev", "", nil, nil)
	status := missing.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "platform registry not initialized", status.Services["platforms"].(ServiceHealth).Message)
}
