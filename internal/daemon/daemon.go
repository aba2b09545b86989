package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fanpulse/fanpulse/internal/api"
	"github.com/fanpulse/fanpulse/internal/app/gamification"
	"github.com/fanpulse/fanpulse/internal/app/optimize"
	"github.com/fanpulse/fanpulse/internal/health"
	_ "github.com/fanpulse/fanpulse/internal/infra/metrics" // Register Prometheus metrics
	"github.com/fanpulse/fanpulse/internal/infra/sqlite"
)

// Daemon is the core FanPulse runtime. It wires together all services.
type Daemon struct {
	Config    Config
	DB        *sqlite.DB
	Ledger    *gamification.Ledger
	Ranker    *gamification.Ranker
	Cache     *optimize.Cache
	Optimizer *optimize.Engine
	Health    *health.Checker
	Server    *api.Server
	cancel    context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Storage.Dir
	if dataDir == "" {
		dataDir = fanpulseHome()
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ledger := gamification.NewLedger(db)
	ranker := gamification.NewRanker(db)

	// The recommendation cache is constructed once per process and passed by
	// reference; no ambient global state.
	cache := optimize.NewCache(time.Duration(cfg.Cache.TTLMinutes)*time.Minute, time.Now)
	optimizer := optimize.NewEngine(db, cache)

	srv := api.NewServer(db, ledger, ranker, optimizer)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, dataDir)
	srv.SetHealthChecker(checker)

	return &Daemon{
		Config:    cfg,
		DB:        db,
		Ledger:    ledger,
		Ranker:    ranker,
		Cache:     cache,
		Optimizer: optimizer,
		Health:    checker,
		Server:    srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Health checker runs in the background for the lifetime of the daemon.
	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("FanPulse serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
