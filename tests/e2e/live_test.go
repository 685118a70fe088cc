package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/grantweston/google-ads-mcp-complete/internal/control"
	"github.com/grantweston/google-ads-mcp-complete/internal/core/config"
	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// TestGoogleAds_Live exercises the full credential and read path against the
// real Google Ads API. It needs GOOGLE_ADS_CLIENT_ID, GOOGLE_ADS_CLIENT_SECRET,
// GOOGLE_ADS_REFRESH_TOKEN, and GOOGLE_ADS_DEVELOPER_TOKEN in the environment.
func TestGoogleAds_Live(t *testing.T) {
	if os.Getenv("E2E_LIVE") == "" {
		t.Skip("Skipping live E2E test. Set E2E_LIVE=true to run.")
	}

	cfg := config.FromEnv()
	if err := cfg.Auth.Validate(); err != nil {
		t.Fatalf("Incomplete auth environment: %v", err)
	}
	// Keep the run self-contained: no health endpoint, no external stores.
	cfg.Server.Port = 0
	cfg.Redis.URL = ""
	cfg.Database.URL = ""

	srv, err := control.NewServer(cfg, "e2e")
	if err != nil {
		t.Fatalf("Failed to build server: %v", err)
	}
	defer srv.Stop(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cred, err := srv.Credentials().Credential(ctx)
	if err != nil {
		t.Fatalf("Failed to obtain credential: %v", err)
	}
	if cred.AccessToken == "" {
		t.Fatal("Exchange returned an empty access token")
	}
	if !cred.Expiry.After(time.Now()) {
		t.Errorf("Credential already expired at %v", cred.Expiry)
	}
	t.Logf("Obtained access token, expires %v", cred.Expiry)

	names, err := srv.Ads().ListAccessibleCustomers(ctx, cred.AccessToken)
	if err != nil {
		t.Fatalf("ListAccessibleCustomers failed: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("Expected at least one accessible customer")
	}
	t.Logf("Found %d accessible customers", len(names))

	// With a target account configured, run a real read through the
	// dispatcher so retries and classification are on the path.
	customerID := os.Getenv("GOOGLE_ADS_CUSTOMER_ID")
	if customerID == "" {
		t.Log("GOOGLE_ADS_CUSTOMER_ID not set; skipping dispatcher read")
		return
	}
	out := srv.Dispatcher().Execute(ctx, "e2e_live", domain.Operation{
		Kind:       domain.OperationRead,
		CustomerID: customerID,
		Query:      "SELECT customer.id, customer.descriptive_name FROM customer LIMIT 1",
	})
	if out.Status != domain.OutcomeSucceeded {
		t.Fatalf("Dispatcher read failed: %+v", out.Failure)
	}
	if len(out.Rows) == 0 {
		t.Fatal("Expected one customer row")
	}
	t.Logf("Dispatcher read succeeded in %d attempt(s)", out.Attempts)
}
