package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/egograph/pkg/config"
	"github.com/Dicklesworthstone/egograph/pkg/logging"
	"github.com/Dicklesworthstone/egograph/pkg/model"
	"github.com/Dicklesworthstone/egograph/pkg/visited"
)

var version = "0.3.0"

var (
	cfgPath   string
	graphPath string
	logLevel  string
	logFile   string

	cfg    *config.File
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "egograph",
	Short: "egograph: explore the link neighborhood of a page",
	Long: "egograph draws the pages linked to and from one page of a site as a\n" +
		"force-directed graph, in the terminal or as PNG and SVG files.",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		if graphPath != "" {
			c.Graph = graphPath
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		if logFile != "" {
			c.Log.Path = logFile
		}
		cfg = c

		l, err := logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		logger = l
		logger.Debug("config loaded", zap.String("path", path), zap.String("graph", cfg.Graph))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.SetVersionTemplate("egograph {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (yaml or toml; default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&graphPath, "graph", "", "Graph JSON file, overrides the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(
		viewCmd(),
		renderCmd(),
		neighborsCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadGraph() (model.Graph, error) {
	g, err := model.LoadGraph(cfg.Graph)
	if err != nil {
		return model.Graph{}, err
	}
	logger.Info("graph loaded", zap.String("path", cfg.Graph), zap.Int("nodes", len(g.Nodes)), zap.Int("edges", len(g.Edges)))
	return g, nil
}

// openTracker returns the visited tracker for the configured store. The
// returned func releases it.
func openTracker(ctx context.Context) (*visited.Tracker, func(), error) {
	if cfg.VisitedDB == "" {
		return visited.NewTracker(visited.NewMemoryStore(), logger), func() {}, nil
	}
	store, err := visited.OpenSQLite(ctx, cfg.VisitedDB, cfg.Origin)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close visited store", zap.Error(err))
		}
	}
	return visited.NewTracker(store, logger), closeFn, nil
}
