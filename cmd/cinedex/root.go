package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jwulff/cinedex/internal/app"
	"github.com/jwulff/cinedex/internal/config"
	"github.com/jwulff/cinedex/internal/db"
	"github.com/jwulff/cinedex/internal/library"
	"github.com/jwulff/cinedex/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tea "github.com/charmbracelet/bubbletea"
)

// runtimeEnv holds what every subcommand opens.
type runtimeEnv struct {
	cfg     *config.Config
	store   *db.Store
	lib     *library.Library
	logger  *slog.Logger
	closers []io.Closer
}

func (e *runtimeEnv) Close() {
	if e.store != nil {
		e.store.Close()
	}
	for _, c := range e.closers {
		c.Close()
	}
}

type logTarget int

const (
	logToStderr logTarget = iota
	logToFile             // stdout/stderr belong to the TUI or the MCP transport
)

func openEnv(v *viper.Viper, cfgPath string, target logTarget) (*runtimeEnv, error) {
	cfg, err := config.Load(v, cfgPath)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	env := &runtimeEnv{cfg: cfg}
	switch target {
	case logToFile:
		logger, closer, err := logging.OpenFile(cfg.LogFile, level)
		if err != nil {
			return nil, err
		}
		env.logger = logger
		env.closers = append(env.closers, closer)
	default:
		env.logger = logging.New(os.Stderr, level)
	}

	env.store, err = db.Open(cfg.DBPath)
	if err != nil {
		env.Close()
		return nil, err
	}

	env.lib, err = library.New(env.store, library.Options{
		Folder:      cfg.WatchedFolder,
		Placeholder: cfg.Placeholder,
		Reviewers:   [2]string{cfg.ReviewerA(), cfg.ReviewerB()},
		Logger:      env.logger,
	})
	if err != nil {
		env.Close()
		return nil, err
	}

	env.logger.Debug("opened catalog", "db", cfg.DBPath, "folder", cfg.WatchedFolder)
	return env, nil
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgPath string

	root := &cobra.Command{
		Use:           "cinedex",
		Short:         "Catalog and rate the movies and shows in a folder",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(v, cfgPath, logToFile)
			if err != nil {
				return err
			}
			defer env.Close()

			p := tea.NewProgram(app.New(env.lib), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgPath, "config", "c", "", "YAML config file")
	flags.String("db", "", "catalog database path")
	flags.String("folder", "", "watched folder")
	_ = v.BindPFlag(config.KeyDBPath, flags.Lookup("db"))
	_ = v.BindPFlag(config.KeyWatchedFolder, flags.Lookup("folder"))

	root.AddCommand(
		newScanCmd(v, &cfgPath),
		newListCmd(v, &cfgPath),
		newAddCmd(v, &cfgPath),
		newMCPCmd(v, &cfgPath),
	)
	return root
}
