package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/grantweston/google-ads-mcp-complete/internal/infra/storage/postgres"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent operation outcomes from the audit log",
	Run:   runAudit,
}

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "number of entries to show")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		fmt.Println("No database configured; the audit log requires PostgreSQL.")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	entries, err := postgres.NewAuditRepo(db).Recent(ctx, auditLimit)
	if err != nil {
		slog.Error("Failed to read audit log", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTOOL\tCUSTOMER\tSTATUS\tATTEMPTS\tDURATION\tMESSAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%dms\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Tool,
			e.CustomerID,
			e.Status,
			e.Attempts,
			e.DurationMs,
			truncate(e.Message, 60),
		)
	}
	w.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
