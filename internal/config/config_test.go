package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_addr: 0.0.0.0
  http_port: 9000
auth:
  secret: s3cret
  token_duration: 1h
game:
  id: arena-1
  players_per_team: 3
  teams_in_match: 2
  announce_delay: 5s
  linked_players: [p1, p2]
events:
  nats_url: nats://localhost:4222
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.ListenAddr)
	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "arena-1", cfg.Game.ID)
	assert.Equal(t, 3, cfg.Game.PlayersPerTeam)
	assert.Equal(t, 2, cfg.Game.TeamsInMatch)
	assert.Equal(t, 5*time.Second, cfg.Game.AnnounceDelay)
	assert.Equal(t, []string{"p1", "p2"}, cfg.Game.LinkedPlayers)
	assert.Equal(t, "nats://localhost:4222", cfg.Events.NATSURL)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "game:\n  id: arena-1\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.ListenAddr)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, 2, cfg.Game.PlayersPerTeam)
	assert.Equal(t, 2, cfg.Game.TeamsInMatch)
	assert.Equal(t, 2*time.Second, cfg.Game.AnnounceDelay)
}

func TestLoadRequiresGameID(t *testing.T) {
	path := writeConfig(t, "server:\n  http_port: 9000\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
