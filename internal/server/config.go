package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/jeighmorg/poker-game/internal/game"
)

// Config is the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Rooms  []RoomConfig   `hcl:"room,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// RoomConfig defines a room created at startup
type RoomConfig struct {
	Name          string `hcl:"name,label"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	StartingChips int    `hcl:"starting_chips,optional"`
	MaxPlayers    int    `hcl:"max_players,optional"`
	TurnTimeLimit int    `hcl:"turn_time_limit,optional"`
	AIPlayers     int    `hcl:"ai_players,optional"`
}

// Settings converts a room config into engine settings
func (rc RoomConfig) Settings() game.Settings {
	return game.Settings{
		SmallBlind:    rc.SmallBlind,
		BigBlind:      rc.BigBlind,
		StartingChips: rc.StartingChips,
		MaxPlayers:    rc.MaxPlayers,
		TurnTimeLimit: rc.TurnTimeLimit,
	}
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     4000,
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 4000
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}

	defaults := game.DefaultSettings()
	for i := range config.Rooms {
		if config.Rooms[i].StartingChips == 0 {
			config.Rooms[i].StartingChips = defaults.StartingChips
		}
		if config.Rooms[i].MaxPlayers == 0 {
			config.Rooms[i].MaxPlayers = defaults.MaxPlayers
		}
		if config.Rooms[i].TurnTimeLimit == 0 {
			config.Rooms[i].TurnTimeLimit = defaults.TurnTimeLimit
		}
	}

	return &config, nil
}
