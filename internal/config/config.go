package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Game   GameConfig   `yaml:"game"`
	Events EventsConfig `yaml:"events"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	HTTPPort   int    `yaml:"http_port"`
}

// AuthConfig holds the shared token secret used for both link tokens and
// connection auth tokens
type AuthConfig struct {
	Secret        string        `yaml:"secret"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// GameConfig describes the one game this process orchestrates
type GameConfig struct {
	ID             string        `yaml:"id"`
	PlayersPerTeam int           `yaml:"players_per_team"`
	TeamsInMatch   int           `yaml:"teams_in_match"`
	AnnounceDelay  time.Duration `yaml:"announce_delay"`
	LinkedPlayers  []string      `yaml:"linked_players"`
}

// EventsConfig holds optional NATS fan-out settings. Leave both zero to
// disable publishing entirely.
type EventsConfig struct {
	NATSURL  string `yaml:"nats_url"`
	Embedded bool   `yaml:"embedded"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.ApplyDefaults()

	if cfg.Game.ID == "" {
		return nil, fmt.Errorf("game.id must be configured")
	}

	return &cfg, nil
}

// ApplyDefaults fills in defaults for unset fields
func (c *Config) ApplyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = "127.0.0.1"
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Auth.TokenDuration == 0 {
		c.Auth.TokenDuration = 24 * time.Hour
	}
	if c.Game.PlayersPerTeam == 0 {
		c.Game.PlayersPerTeam = 2
	}
	if c.Game.TeamsInMatch == 0 {
		c.Game.TeamsInMatch = 2
	}
	if c.Game.AnnounceDelay == 0 {
		c.Game.AnnounceDelay = 2 * time.Second
	}
}
