package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.AI.Enabled())

	assert.Equal(t, 800*time.Millisecond, cfg.Delivery.DeliveredDelay)
	assert.Equal(t, 1600*time.Millisecond, cfg.Delivery.ReadDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Delivery.ReplyBaseDelay)
	assert.Equal(t, 2*time.Second, cfg.Delivery.ReplyJitter)
	assert.Equal(t, 12*time.Second, cfg.Delivery.ReplyTimeout)

	assert.Equal(t, "https://randomuser.me/api/", cfg.Roster.URL)
	assert.Equal(t, 20, cfg.Roster.Size)
	assert.Equal(t, 10*time.Second, cfg.Roster.Timeout)
}

func TestLoadServerAddrVariants(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)

	t.Setenv("PORT", "127.0.0.1:9000")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoadAIEnabledWithKeyAndModel(t *testing.T) {
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("ARK_MODEL", "doubao-lite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AI.Enabled())
}

func TestLoadDeliveryOverrides(t *testing.T) {
	t.Setenv("DELIVERY_DELIVERED_DELAY_MS", "100")
	t.Setenv("DELIVERY_READ_DELAY_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.Delivery.DeliveredDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.Delivery.ReadDelay)
}

func TestLoadDeliveryRejectsReadBeforeDelivered(t *testing.T) {
	t.Setenv("DELIVERY_DELIVERED_DELAY_MS", "1000")
	t.Setenv("DELIVERY_READ_DELAY_MS", "500")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("REPLY_TIMEOUT_MS", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveRosterSize(t *testing.T) {
	t.Setenv("ROSTER_SIZE", "0")
	_, err := Load()
	assert.Error(t, err)
}
