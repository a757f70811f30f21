package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jeighmorg/poker-game/internal/tui"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   string           `default:"ws://localhost:4000/ws" help:"WebSocket server URL"`
	Name     string           `short:"n" help:"Display name (defaults to $USER)"`
	Room     string           `short:"r" default:"lobby" help:"Room to join"`
	Spectate bool             `help:"Watch without taking a seat"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("poker-client"),
		kong.Description("Terminal client for the poker server"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	name := strings.TrimSpace(cli.Name)
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "Player"
	}

	err := tui.Run(tui.Config{
		Server:   strings.TrimSpace(cli.Server),
		Name:     name,
		Room:     strings.TrimSpace(cli.Room),
		Spectate: cli.Spectate,
	})
	ctx.FatalIfErrorf(err)
}
