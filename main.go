package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/tandemlist/tandem/internal/commands"
	"github.com/tandemlist/tandem/internal/core/config"
	"github.com/tandemlist/tandem/internal/docstore"
	"github.com/tandemlist/tandem/internal/docstore/memstore"
	"github.com/tandemlist/tandem/internal/docstore/sqlite"
	"github.com/tandemlist/tandem/internal/tandem"
	"github.com/tandemlist/tandem/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	// Best effort; a missing .env is normal.
	_ = godotenv.Load()

	var (
		logCloser func()
		tandemApp = &tandem.App{}
	)

	flags := &commands.Flags{}

	var userID, userName, userEmail string

	app := &cli.Command{
		Name:      "tandem",
		Usage:     "Shared task lists from the terminal",
		UsageText: "tandem [global options] command [command options]",
		Description: `Tandem keeps task lists in a shared store and streams every change
back to whoever is looking. Share a list by email, work the tasks, and the
activity feed keeps score of who did what.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TANDEM_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/tandem.log)",
				Sources:     cli.EnvVars("TANDEM_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TANDEM_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TANDEM_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "user-id",
				Usage:       "identity to act as (overrides config profile.id)",
				Sources:     cli.EnvVars("TANDEM_USER_ID"),
				Destination: &userID,
			},
			&cli.StringFlag{
				Name:        "user-name",
				Usage:       "display name (overrides config profile.name)",
				Sources:     cli.EnvVars("TANDEM_USER_NAME"),
				Destination: &userName,
			},
			&cli.StringFlag{
				Name:        "user-email",
				Usage:       "email (overrides config profile.email)",
				Sources:     cli.EnvVars("TANDEM_USER_EMAIL"),
				Destination: &userEmail,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/tandem.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "tandem.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// Flags and env beat the config file for the acting profile.
			if userID != "" {
				cfg.Profile.ID = userID
			}
			if userName != "" {
				cfg.Profile.Name = userName
			}
			if userEmail != "" {
				cfg.Profile.Email = userEmail
			}
			if cfg.Profile.ID == "" {
				return ctx, fmt.Errorf("no identity configured: set profile.id in the config file or pass --user-id")
			}
			flags.Config = cfg

			var store docstore.Store
			switch cfg.Database.Backend {
			case "memory":
				store = memstore.New(log.Logger)
			default:
				store, err = sqlite.Open(cfg.DataDir, log.Logger)
				if err != nil {
					return ctx, fmt.Errorf("open store: %w", err)
				}
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*tandemApp = *tandem.NewApp(store, log.Logger)

			// Publish the profile so collaborators can resolve this user.
			if err := tandemApp.Directory.EnsureProfile(ctx, flags.Session().User); err != nil {
				log.Warn().Err(err).Msg("profile publish failed")
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if tandemApp.Lists != nil {
				if err := tandemApp.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close store")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewListCmd(flags, tandemApp).Register(app)
	app = commands.NewTaskCmd(flags, tandemApp).Register(app)
	app = commands.NewShareCmd(flags, tandemApp).Register(app)
	app = commands.NewFeedCmd(flags, tandemApp).Register(app)
	app = commands.NewWatchCmd(flags, tandemApp).Register(app)

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
