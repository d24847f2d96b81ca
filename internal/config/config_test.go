package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Bot.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.Bot.PollPeriod)
	assert.Equal(t, "data/users.json", cfg.Storage.Path)
	assert.Equal(t, "logs", cfg.Logs.Dir)
	assert.Equal(t, 4*time.Second, cfg.Games.DrawWait)
	assert.Equal(t, int64(1), cfg.Deposit.Min)
	assert.Equal(t, int64(2500), cfg.Deposit.Max)
	assert.Equal(t, []int64{1, 5, 10, 25, 50, 100, 250}, cfg.Deposit.Presets)
	assert.Equal(t, int64(0), cfg.Admin.ID)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
bot:
  token: "test-token"
  webhook_url: "https://example.com/hook"
  listen_addr: ":9090"
admin:
  id: 111222333
storage:
  path: /var/lib/bot/users.json
games:
  draw_wait: 2s
deposit:
  min: 5
  max: 500
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Bot.Token)
	assert.Equal(t, "https://example.com/hook", cfg.Bot.WebhookURL)
	assert.Equal(t, ":9090", cfg.Bot.ListenAddr)
	assert.Equal(t, int64(111222333), cfg.Admin.ID)
	assert.Equal(t, "/var/lib/bot/users.json", cfg.Storage.Path)
	assert.Equal(t, 2*time.Second, cfg.Games.DrawWait)
	assert.Equal(t, int64(5), cfg.Deposit.Min)
	assert.Equal(t, int64(500), cfg.Deposit.Max)

	// Untouched keys keep their defaults.
	assert.Equal(t, "logs", cfg.Logs.Dir)
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{Admin: AdminConfig{ID: 42}}

	assert.True(t, cfg.IsAdmin(42))
	assert.False(t, cfg.IsAdmin(43))
	assert.False(t, cfg.IsAdmin(0))
}

// TestIsAdminDisabledProperty verifies an unset admin id grants access to
// nobody, and a set one to exactly that id.
func TestIsAdminDisabledProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		userID := rapid.Int64().Draw(rt, "userID")

		disabled := &Config{}
		if disabled.IsAdmin(userID) {
			rt.Fatalf("unset admin id granted access to %d", userID)
		}

		adminID := rapid.Int64Range(1, 1<<40).Draw(rt, "adminID")
		cfg := &Config{Admin: AdminConfig{ID: adminID}}
		if got := cfg.IsAdmin(userID); got != (userID == adminID) {
			rt.Fatalf("IsAdmin(%d) = %v with admin id %d", userID, got, adminID)
		}
	})
}
