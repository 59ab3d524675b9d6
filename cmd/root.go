package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/config"
	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/storage"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string
	logFile  string

	cfg      *config.Config
	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "etstats",
	Short: "Enemy Territory stopwatch stats tool",
	Long: `Import per-round stats files written by the game server, recover isolated
round 2 stats, resolve the two rosters of each session and score every map
under Stopwatch rules.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/etstats.yml or ./etstats.yml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (overrides database.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file (overrides log.file)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Read(cfgFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.Database.Path = dbPath
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if logFile != "" {
		c.Log.File = logFile
	}
	cfg = c

	closeLog = log.MustCreateLogger(c.Log.File, log.Level(c.Log.Level))
	return nil
}

// openDB opens the configured database, creating its directory if needed.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
