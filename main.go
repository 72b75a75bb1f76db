// Command battleship runs two-player Battleship matches.
//
// Subcommands:
//  1. "play" – a hot-seat match on the terminal, both players sharing stdin
//  2. "mcp" – serves the match tools over MCP stdio for AI agents
//  3. "configs" – lists the available match presets
//  4. "rules" – prints the board size and fleet of a preset
//
// Flags control the preset directory, placement seed and log level. A .env
// file in the working directory is loaded first.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/battleship/game/config"
	"github.com/wricardo/battleship/game/render"
	"github.com/wricardo/battleship/game/service"
	"github.com/wricardo/battleship/game/session"
	"github.com/wricardo/battleship/transport/mcp"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "battleship"
)

const (
	defaultConfigDir = "configs"
	cleanupInterval  = time.Hour
	sessionMaxAge    = 24 * time.Hour
)

// main loads .env, builds the command tree and runs it
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("error loading .env file", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdin, os.Stdout).Run(ctx, os.Args); err != nil {
		log.Error("battleship failed", "err", err)
		os.Exit(1)
	}
}

// newCommand builds the command tree reading player input from in and
// writing boards to out
func newCommand(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "two-player Battleship",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   defaultConfigDir,
				Usage:   "directory containing match presets (.json, .hcl)",
				Sources: cli.EnvVars("BATTLESHIP_CONFIG_DIR"),
			},
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "seed for reproducible ship placement",
				Sources: cli.EnvVars("BATTLESHIP_SEED"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play a hot-seat match in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "preset to play (default: classic)"},
					&cli.StringFlag{Name: "player1", Usage: "name of player 1"},
					&cli.StringFlag{Name: "player2", Usage: "name of player 2"},
					&cli.BoolFlag{Name: "plain", Usage: "disable colors"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, _, err := initializeServices(cmd)
					if err != nil {
						return err
					}
					req := service.CreateMatchRequest{
						ConfigName: cmd.String("config"),
						Player1:    cmd.String("player1"),
						Player2:    cmd.String("player2"),
					}
					if cmd.IsSet("seed") {
						seed := cmd.Int64("seed")
						req.Seed = &seed
					}
					return newGame(svc, in, out, !cmd.Bool("plain")).play(ctx, req)
				},
			},
			{
				Name:  "mcp",
				Usage: "serve match tools over MCP stdio",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, sessions, err := initializeServices(cmd)
					if err != nil {
						return err
					}
					sessions.StartCleanup(ctx, cleanupInterval, sessionMaxAge)
					return mcp.NewServer(svc, newLogger(cmd)).ServeStdio()
				},
			},
			{
				Name:  "configs",
				Usage: "list available match presets",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, _, err := initializeServices(cmd)
					if err != nil {
						return err
					}
					return listConfigs(ctx, svc, out)
				},
			},
			{
				Name:      "rules",
				Usage:     "print the board and fleet of a preset",
				ArgsUsage: "[preset]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, _, err := initializeServices(cmd)
					if err != nil {
						return err
					}
					return printRules(ctx, svc, out, cmd.Args().First())
				},
			},
		},
	}
}

// newLogger builds the process logger on stderr; stdout belongs to the game
// or the MCP transport
func newLogger(cmd *cli.Command) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          AppName,
	})

	level, err := log.ParseLevel(cmd.String("log-level"))
	if err != nil {
		level = log.InfoLevel
	}
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

// initializeServices wires the config and session managers into the game
// service. A missing default preset directory falls back to the built-in
// classic preset.
func initializeServices(cmd *cli.Command) (service.GameService, *session.Manager, error) {
	logger := newLogger(cmd)

	configDir := cmd.String("config-dir")
	if _, err := os.Stat(configDir); errors.Is(err, os.ErrNotExist) && !cmd.IsSet("config-dir") {
		logger.Debug("no preset directory, using built-in presets", "dir", configDir)
		configDir = ""
	}

	configManager, err := config.NewManager(configDir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager(session.WithLogger(logger))
	return service.NewGameService(sessionManager, configManager, logger), sessionManager, nil
}

func listConfigs(ctx context.Context, svc service.GameService, out io.Writer) error {
	configs, err := svc.ListConfigs(ctx)
	if err != nil {
		return err
	}

	for _, c := range configs {
		fmt.Fprintf(out, "%-12s %2dx%-2d %2d ships  %s\n", c.ConfigID, c.BoardSize, c.BoardSize, c.ShipCount, c.Description)
	}
	return nil
}

func printRules(ctx context.Context, svc service.GameService, out io.Writer, configName string) error {
	rules, err := svc.Rules(ctx, configName)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %s\n", rules.ConfigID, rules.Description)
	fmt.Fprint(out, render.New(false).GameInfo(rules.BoardSize, rules.Roster()))
	if rules.ExtraShotOnHit {
		fmt.Fprintln(out, "A hit earns another shot.")
	}
	fmt.Fprintln(out, "Enter a target as two letters, row first (BD). Add + to mark a cell instead (BD+).")
	return nil
}
