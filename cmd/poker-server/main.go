package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/jeighmorg/poker-game/internal/game"
	"github.com/jeighmorg/poker-game/internal/room"
	"github.com/jeighmorg/poker-game/internal/server"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" default:"poker.hcl" help:"Path to HCL config file"`
	Addr    string           `help:"Listen address, overrides the config file"`
	Debug   bool             `help:"Enable debug logging"`
	Seed    *int64           `help:"Deterministic RNG seed (optional)"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("poker-server"),
		kong.Description("Multiplayer Texas Hold'em server"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	err := run(&cli)
	ctx.FatalIfErrorf(err)
}

func run(cli *CLI) error {
	cfg, err := server.LoadConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	} else if level, perr := log.ParseLevel(cfg.Server.LogLevel); perr == nil {
		logger.SetLevel(level)
	}

	registry := room.NewRegistry(quartz.NewReal(), logger)
	if cli.Seed != nil {
		seed := *cli.Seed
		logger.Info("using deterministic seed", "seed", seed)
		registry.SetSeedFunc(func() int64 { return seed })
	}

	for _, rc := range cfg.Rooms {
		rm := registry.Create("", rc.Name, rc.Settings())
		for i := 0; i < rc.AIPlayers; i++ {
			rm.AddAI()
		}
		logger.Info("created room",
			"room", rm.ID,
			"name", rm.Name,
			"blinds", fmt.Sprintf("%d/%d", rc.SmallBlind, rc.BigBlind),
			"ai", rc.AIPlayers)
	}

	addr := cli.Addr
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	}

	srv := server.NewServer(addr, registry, game.DefaultSettings(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return srv.Stop()
	})

	return g.Wait()
}
