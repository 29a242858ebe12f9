package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-stats/internal/config"
)

var (
	dbPath      string
	backendName string
	remoteURL   string
	redisURL    string
	debug       bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "hoopstats",
	Short:             "Basketball box-score stats tool",
	Long:              "Record per-player box scores, keep team totals and player histories consistent, and report averages.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.hoopstats/stats.db, env HOOPS_DB)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "persistence backend: sqlite, memory, remote or redis (env HOOPS_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "base URL of a hoopstats server for the remote backend (env HOOPS_REMOTE_URL)")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis", "", "redis:// URL for the redis backend (env HOOPS_REDIS_ADDR)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level (env HOOPS_DEBUG)")

	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(gameCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig reads HOOPS_* variables, lets explicit flags win, and sets up logging.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Parse()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DB = dbPath
	}
	if flags.Changed("backend") {
		c.Backend = backendName
	}
	if flags.Changed("remote") {
		c.RemoteURL = remoteURL
	}
	if flags.Changed("redis") {
		c.RedisURL = redisURL
	}
	if flags.Changed("debug") {
		c.Debug = debug
	}
	if c.DB == "" {
		c.DB = filepath.Join(mustUserHome(), ".hoopstats", "stats.db")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
