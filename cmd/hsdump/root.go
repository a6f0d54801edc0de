package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stewi1014/hsstream/config"
	"github.com/stewi1014/hsstream/encio"
	"github.com/stewi1014/hsstream/stream"
)

// app is the state shared by subcommands, filled in before any of them run.
type app struct {
	cfg       *config.Config
	streamCfg *stream.Config
	logger    *zap.Logger
	files     *stream.FileCache
}

func newRootCommand() *cobra.Command {
	a := &app{}
	var (
		configPath string
		logLevel   string
		backend    string
		preload    bool
	)

	rootCmd := &cobra.Command{
		Use:           "hsdump",
		Short:         "hsdump inspects files written with hsstream",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().WithConfigPath(configPath).Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if backend != "" {
				cfg.Stream.Backend = backend
			}
			if preload {
				cfg.Preload.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.init(cfg)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Stream backend used to open files")
	rootCmd.PersistentFlags().BoolVar(&preload, "preload", false, "Read whole files into a memory cache before use")

	rootCmd.AddCommand(atomsCommand(a))
	rootCmd.AddCommand(tokensCommand(a))
	rootCmd.AddCommand(linesCommand(a))
	rootCmd.AddCommand(statsCommand(a))

	return rootCmd
}

func (a *app) init(cfg *config.Config) error {
	logger, err := initLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	encio.SetLogger(logger)

	streamCfg, err := cfg.Stream.ToStream()
	if err != nil {
		return err
	}
	streamCfg.Logger = logger

	a.cfg = cfg
	a.streamCfg = streamCfg
	a.logger = logger
	if cfg.Preload.Enabled {
		a.files = stream.NewFileCache(cfg.Preload.MaxFiles, streamCfg)
	}
	return nil
}

func (a *app) close() error {
	if a.files != nil {
		stats := a.files.Stats()
		a.logger.Debug("file cache closed",
			zap.Uint64("hits", stats.HitCount),
			zap.Uint64("misses", stats.MissCount),
		)
		if err := a.files.Close(); err != nil {
			return err
		}
		a.files = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return nil
}

// open opens name for reading with the configured backend, or from the file cache when preloading.
func (a *app) open(name string) (stream.Stream, error) {
	if a.files != nil {
		r, err := a.files.Open(name)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return stream.Open(a.cfg.Stream.Backend, name, "rb", a.streamCfg)
}
