// Package control wires configuration into the running server: credential
// store, API client, dispatcher, audit storage, health endpoint, and the MCP
// stdio surface.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/grantweston/google-ads-mcp-complete/internal/auth"
	"github.com/grantweston/google-ads-mcp-complete/internal/core/config"
	"github.com/grantweston/google-ads-mcp-complete/internal/core/worker"
	"github.com/grantweston/google-ads-mcp-complete/internal/dispatch"
	"github.com/grantweston/google-ads-mcp-complete/internal/health"
	"github.com/grantweston/google-ads-mcp-complete/internal/infra/gads"
	redisclient "github.com/grantweston/google-ads-mcp-complete/internal/infra/redis"
	"github.com/grantweston/google-ads-mcp-complete/internal/infra/storage"
	"github.com/grantweston/google-ads-mcp-complete/internal/infra/storage/memory"
	"github.com/grantweston/google-ads-mcp-complete/internal/infra/storage/postgres"
	"github.com/grantweston/google-ads-mcp-complete/internal/mcpserver"
	"github.com/grantweston/google-ads-mcp-complete/internal/tools"
)

// Server is the assembled application.
type Server struct {
	cfg          *config.AppConfig
	creds        *auth.Store
	ads          *gads.Client
	dispatcher   *dispatch.Dispatcher
	auditRepo    storage.AuditRepository
	mcp          *mcpserver.Server
	healthServer *health.Server
	pruner       *worker.AuditPruner
	db           *postgres.DB
	redisClient  *redisclient.Client
	log          *slog.Logger
}

// NewServer creates a Server with all dependencies initialized.
func NewServer(cfg *config.AppConfig, version string) (*Server, error) {
	log := slog.Default()

	if err := cfg.Auth.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}

	// 1. Credential store, optionally backed by Redis so restarts reuse
	// a still-valid access token.
	var redisClient *redisclient.Client
	var cache auth.Cache
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		cache = redisClient
		log.Info("Using Redis credential cache")
	}
	creds := auth.NewStore(cfg.Auth, auth.NewTokenClient(cfg.Auth), cache, log)

	// 2. API client and dispatcher.
	ads := gads.NewClient(cfg.API, cfg.Auth.DeveloperToken, cfg.Auth.LoginCustomerID)
	dispatcher := dispatch.NewDispatcher(creds, ads, gads.Classify, cfg.Retry)
	dispatcher.SetLogger(log)

	// 3. Audit storage: PostgreSQL when configured, bounded memory
	// otherwise.
	var auditRepo storage.AuditRepository
	var db *postgres.DB
	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}
		auditRepo = postgres.NewAuditRepo(db)
		log.Info("Using PostgreSQL audit storage")
	} else {
		auditRepo = memory.NewAuditRepo()
		log.Info("Using Memory audit storage")
	}
	dispatcher.SetAudit(auditRepo)

	var pruner *worker.AuditPruner
	if cfg.Audit.Retention > 0 {
		if pr, ok := auditRepo.(worker.PrunableRepo); ok {
			pruner = worker.NewAuditPruner(cfg.Audit.Retention, pr)
		}
	}

	// 4. Health endpoint, only when a port is configured. Port 0 keeps
	// it off so concurrent MCP instances don't contend for a listener.
	var healthServer *health.Server
	if cfg.Server.Port > 0 {
		monitor := health.NewMonitor(creds)
		if db != nil {
			monitor.AddChecker("database", db.Health)
		}
		if redisClient != nil {
			monitor.AddChecker("redis", redisClient.Health)
		}
		healthServer = health.NewServer(monitor, cfg.Server.Port)
	}

	// 5. MCP surface.
	handler := tools.New(dispatcher, ads, creds, cfg.Server.DefaultCustomerID)
	handler.SetLogger(log)
	mcp := mcpserver.New(version, handler, ads, creds)

	return &Server{
		cfg:          cfg,
		creds:        creds,
		ads:          ads,
		dispatcher:   dispatcher,
		auditRepo:    auditRepo,
		mcp:          mcp,
		healthServer: healthServer,
		pruner:       pruner,
		db:           db,
		redisClient:  redisClient,
		log:          log,
	}, nil
}

// Credentials exposes the credential store, e.g. for the validate command.
func (s *Server) Credentials() *auth.Store { return s.creds }

// Ads exposes the API client.
func (s *Server) Ads() *gads.Client { return s.ads }

// Dispatcher exposes the request dispatcher.
func (s *Server) Dispatcher() *dispatch.Dispatcher { return s.dispatcher }

// Run starts the health endpoint and serves MCP over stdio until the client
// disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.healthServer != nil {
		go func() {
			if err := s.healthServer.Start(); err != nil && err != http.ErrServerClosed {
				s.log.Error("Health server failed", "error", err)
			}
		}()
	}

	if s.pruner != nil {
		go s.pruner.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.mcp.ServeStdio()
	}()

	select {
	case <-ctx.Done():
		return s.Stop(context.Background())
	case err := <-errCh:
		stopErr := s.Stop(context.Background())
		if err != nil {
			return err
		}
		return stopErr
	}
}

// Stop shuts down background components.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Stopping server...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Warn("Failed to close database", "error", err)
		}
	}

	if s.healthServer != nil {
		return s.healthServer.Stop(ctx)
	}
	return nil
}
