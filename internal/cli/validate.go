package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/grantweston/google-ads-mcp-complete/internal/control"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate credentials by refreshing a token and listing accessible accounts",
	Run:   runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	initLogging(cfg)

	// Skip optional infrastructure: validation only needs auth + API.
	cfg.Redis.URL = ""
	cfg.Database.URL = ""

	app, err := control.NewServer(cfg, Version)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}
	defer app.Stop(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cred, err := app.Credentials().Credential(ctx)
	if err != nil {
		slog.Error("Credential refresh failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Token refresh OK, expires %s\n", cred.Expiry.Format(time.RFC3339))

	names, err := app.Ads().ListAccessibleCustomers(ctx, cred.AccessToken)
	if err != nil {
		slog.Error("Account listing failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Accessible accounts: %d\n", len(names))
	for _, rn := range names {
		fmt.Printf("  %s\n", rn)
	}
}
