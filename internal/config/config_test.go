package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("ADMIN_CHAT_IDS", "100, 200")
	t.Setenv("SUBSCRIBER_PASSWORD", "hunter2")
	t.Setenv("POLL_INTERVAL", "90s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, []int64{100, 200}, cfg.AdminChatIDs)
	require.Equal(t, 90*time.Second, cfg.PollInterval)
	require.Equal(t, 10*time.Second, cfg.PacingDelay)
	require.Equal(t, "custos", cfg.PostgresDB)

	// Without an explicit maintainer, alerts go to the first administrator.
	require.Equal(t, int64(100), cfg.MaintainerChatID)

	require.True(t, cfg.IsAdmin(200))
	require.False(t, cfg.IsAdmin(300))
}

func TestLoadConfigRequiresBotToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("ADMIN_CHAT_IDS", "100")
	t.Setenv("SUBSCRIBER_PASSWORD", "hunter2")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestLoadConfigRequiresAdmins(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("ADMIN_CHAT_IDS", "")
	t.Setenv("SUBSCRIBER_PASSWORD", "hunter2")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ADMIN_CHAT_IDS")
}
