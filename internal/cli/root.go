package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/grantweston/google-ads-mcp-complete/internal/control"
	"github.com/grantweston/google-ads-mcp-complete/internal/core/config"
)

// Version is stamped at build time.
var Version = "dev"

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "adsmcp",
	Short: "Google Ads MCP server",
	Long:  `adsmcp exposes Google Ads account management and reporting as MCP tools over stdio.`,
	Run:   runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// loadConfig reads the config file, falling back to environment variables
// when no file exists. MCP clients typically launch the server with env
// configuration and no config file on disk.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.FromEnv(), nil
	}
	return cfg, err
}

// initLogging configures the process logger. Output goes to stderr: stdout
// belongs to the MCP transport.
func initLogging(cfg *config.AppConfig) {
	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})
}

func runServe(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	initLogging(cfg)

	app, err := control.NewServer(cfg, Version)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("Received signal, shutting down...", "signal", sig)
		cancel()
	}()

	slog.Info("Serving MCP over stdio", "version", Version, "health_port", cfg.Server.Port)

	if err := app.Run(ctx); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
